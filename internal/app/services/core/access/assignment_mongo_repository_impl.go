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

type DoctorAssignmentMongoRepository struct {
	Collection *mongo.Collection
}

func NewDoctorAssignmentMongoRepository(db *mongo.Client, dbName string) DoctorAssignmentRepository {
	return &DoctorAssignmentMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.CollectionDoctorAssignments),
	}
}

func (repo *DoctorAssignmentMongoRepository) UpsertAssignment(ctx context.Context, record *models.DoctorAssignment) (*models.DoctorAssignment, error) {
	filter := bson.M{
		"doctorUserId": record.DoctorUserID,
		"patientId":    record.PatientID,
		"active":       true,
	}
	update := bson.M{
		"$set": bson.M{
			"assignmentType": record.AssignmentType,
			"assignedBy":     record.AssignedBy,
			"expiresAt":      record.ExpiresAt,
			"updatedAt":      record.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"createdAt": record.CreatedAt,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var updated models.DoctorAssignment
	err := repo.Collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err != nil {
		return nil, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return &updated, nil
}

func (repo *DoctorAssignmentMongoRepository) FindEffectiveByDoctorAndPatient(ctx context.Context, doctorUserID, patientID string, now time.Time) ([]models.DoctorAssignment, error) {
	filter := bson.M{
		"doctorUserId": doctorUserID,
		"patientId":    patientID,
		"active":       true,
		"$or":          notExpiredClause(now),
	}

	cursor, err := repo.Collection.Find(ctx, filter)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}

	var records []models.DoctorAssignment
	err = cursor.All(ctx, &records)
	if err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return records, nil
}

func (repo *DoctorAssignmentMongoRepository) FindEffectiveByDoctor(ctx context.Context, doctorUserID string, now time.Time) ([]models.DoctorAssignment, error) {
	filter := bson.M{
		"doctorUserId": doctorUserID,
		"active":       true,
		"$or":          notExpiredClause(now),
	}

	cursor, err := repo.Collection.Find(ctx, filter)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}

	var records []models.DoctorAssignment
	err = cursor.All(ctx, &records)
	if err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return records, nil
}

func (repo *DoctorAssignmentMongoRepository) FindByID(ctx context.Context, recordID string) (*models.DoctorAssignment, error) {
	objectID, err := primitive.ObjectIDFromHex(recordID)
	if err != nil {
		return nil, nil
	}

	var record models.DoctorAssignment
	err = repo.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &record, nil
}

func (repo *DoctorAssignmentMongoRepository) Deactivate(ctx context.Context, recordID string, now time.Time) error {
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
