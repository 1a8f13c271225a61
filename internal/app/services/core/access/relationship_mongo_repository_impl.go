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

type PatientRelationshipMongoRepository struct {
	Collection *mongo.Collection
}

func NewPatientRelationshipMongoRepository(db *mongo.Client, dbName string) PatientRelationshipRepository {
	return &PatientRelationshipMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.CollectionPatientRelationships),
	}
}

// notExpiredClause matches rows whose expiry is unset or still ahead.
func notExpiredClause(now time.Time) []bson.M {
	return []bson.M{
		{"expiresAt": nil},
		{"expiresAt": bson.M{"$gt": now}},
	}
}

// UpsertGrant keeps at most one active row per (user, patient) pair. Filter
// and update run as a single FindOneAndUpdate so concurrent grants cannot
// produce duplicates.
func (repo *PatientRelationshipMongoRepository) UpsertGrant(ctx context.Context, record *models.PatientRelationship) (*models.PatientRelationship, error) {
	filter := bson.M{
		"userId":    record.UserID,
		"patientId": record.PatientID,
		"active":    true,
	}
	update := bson.M{
		"$set": bson.M{
			"accessLevel": record.AccessLevel,
			"grantedBy":   record.GrantedBy,
			"expiresAt":   record.ExpiresAt,
			"updatedAt":   record.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"createdAt": record.CreatedAt,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var updated models.PatientRelationship
	err := repo.Collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err != nil {
		return nil, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return &updated, nil
}

func (repo *PatientRelationshipMongoRepository) FindEffectiveByUserAndPatient(ctx context.Context, userID, patientID string, now time.Time) ([]models.PatientRelationship, error) {
	filter := bson.M{
		"userId":    userID,
		"patientId": patientID,
		"active":    true,
		"$or":       notExpiredClause(now),
	}

	cursor, err := repo.Collection.Find(ctx, filter)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}

	var records []models.PatientRelationship
	err = cursor.All(ctx, &records)
	if err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return records, nil
}

func (repo *PatientRelationshipMongoRepository) FindEffectiveByUser(ctx context.Context, userID string, now time.Time) ([]models.PatientRelationship, error) {
	filter := bson.M{
		"userId": userID,
		"active": true,
		"$or":    notExpiredClause(now),
	}

	cursor, err := repo.Collection.Find(ctx, filter)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}

	var records []models.PatientRelationship
	err = cursor.All(ctx, &records)
	if err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return records, nil
}

func (repo *PatientRelationshipMongoRepository) FindByID(ctx context.Context, recordID string) (*models.PatientRelationship, error) {
	objectID, err := primitive.ObjectIDFromHex(recordID)
	if err != nil {
		return nil, nil
	}

	var record models.PatientRelationship
	err = repo.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &record, nil
}

// Deactivate preserves the row. Revocation history is part of the audit
// surface, nothing here deletes.
func (repo *PatientRelationshipMongoRepository) Deactivate(ctx context.Context, recordID string, now time.Time) error {
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
