package access

import (
	"context"
	"radgate-service/internal/app/models"
	"radgate-service/internal/pkg/constvars"
	"radgate-service/internal/pkg/exceptions"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type FamilyAccessMongoRepository struct {
	Collection *mongo.Collection
}

func NewFamilyAccessMongoRepository(db *mongo.Client, dbName string) FamilyAccessRepository {
	return &FamilyAccessMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.CollectionFamilyAccess),
	}
}

// UpsertFamilyAccess resets the verification fields on every write. Changing
// the relationship puts it back behind the verification gate.
func (repo *FamilyAccessMongoRepository) UpsertFamilyAccess(ctx context.Context, record *models.FamilyAccess) (*models.FamilyAccess, error) {
	filter := bson.M{
		"parentUserId":   record.ParentUserID,
		"childPatientId": record.ChildPatientID,
		"active":         true,
	}
	update := bson.M{
		"$set": bson.M{
			"relationshipKind": record.RelationshipKind,
			"grantedBy":        record.GrantedBy,
			"expiresAt":        record.ExpiresAt,
			"verified":         false,
			"verifiedBy":       "",
			"verifiedAt":       nil,
			"updatedAt":        record.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"createdAt": record.CreatedAt,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var updated models.FamilyAccess
	err := repo.Collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err != nil {
		return nil, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return &updated, nil
}

func (repo *FamilyAccessMongoRepository) FindVerifiedByParentAndChild(ctx context.Context, parentUserID, childPatientID string, now time.Time) ([]models.FamilyAccess, error) {
	filter := bson.M{
		"parentUserId":   parentUserID,
		"childPatientId": childPatientID,
		"active":         true,
		"verified":       true,
		"$or":            notExpiredClause(now),
	}

	cursor, err := repo.Collection.Find(ctx, filter)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}

	var records []models.FamilyAccess
	err = cursor.All(ctx, &records)
	if err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return records, nil
}

func (repo *FamilyAccessMongoRepository) FindVerifiedByParent(ctx context.Context, parentUserID string, now time.Time) ([]models.FamilyAccess, error) {
	filter := bson.M{
		"parentUserId": parentUserID,
		"active":       true,
		"verified":     true,
		"$or":          notExpiredClause(now),
	}

	cursor, err := repo.Collection.Find(ctx, filter)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}

	var records []models.FamilyAccess
	err = cursor.All(ctx, &records)
	if err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return records, nil
}

func (repo *FamilyAccessMongoRepository) FindByID(ctx context.Context, recordID string) (*models.FamilyAccess, error) {
	objectID, err := primitive.ObjectIDFromHex(recordID)
	if err != nil {
		return nil, nil
	}

	var record models.FamilyAccess
	err = repo.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &record, nil
}

func (repo *FamilyAccessMongoRepository) MarkVerified(ctx context.Context, recordID, verifiedBy string, now time.Time) (*models.FamilyAccess, error) {
	objectID, err := primitive.ObjectIDFromHex(recordID)
	if err != nil {
		return nil, nil
	}

	update := bson.M{
		"$set": bson.M{
			"verified":   true,
			"verifiedBy": verifiedBy,
			"verifiedAt": now,
			"updatedAt":  now,
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.FamilyAccess
	err = repo.Collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, update, opts).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return &updated, nil
}

func (repo *FamilyAccessMongoRepository) Deactivate(ctx context.Context, recordID string, now time.Time) error {
	objectID, err := primitive.ObjectIDFromHex(recordID)
	if err != nil {
		return exceptions.ErrMongoDBNotObjectID(err)
	}

	update := bson.M{"$set": bson.M{"active": false, "updatedAt": now}}
	_, err = repo.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}
