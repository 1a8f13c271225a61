package audit

import (
	"context"
	"radgate-service/internal/app/models"
	"radgate-service/internal/pkg/constvars"
	"radgate-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AuditLogMongoRepository struct {
	Collection *mongo.Collection
}

func NewAuditLogMongoRepository(db *mongo.Client, dbName string) AuditLogRepository {
	return &AuditLogMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.CollectionAccessAuditLog),
	}
}

func (repo *AuditLogMongoRepository) InsertEntry(ctx context.Context, entry *models.AccessAuditEntry) (entryID string, err error) {
	result, err := repo.Collection.InsertOne(ctx, entry)
	if err != nil {
		return "", exceptions.ErrMongoDBInsertDocument(err)
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (repo *AuditLogMongoRepository) FindEntries(ctx context.Context, filter *AuditFilter, page, pageSize int) ([]models.AccessAuditEntry, int64, error) {
	mongoFilter := buildAuditFilter(filter)

	total, err := repo.Collection.CountDocuments(ctx, mongoFilter)
	if err != nil {
		return nil, 0, exceptions.ErrMongoDBFindDocument(err)
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := repo.Collection.Find(ctx, mongoFilter, findOptions)
	if err != nil {
		return nil, 0, exceptions.ErrMongoDBFindDocument(err)
	}

	var entries []models.AccessAuditEntry
	err = cursor.All(ctx, &entries)
	if err != nil {
		return nil, 0, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return entries, total, nil
}

func (repo *AuditLogMongoRepository) FindAllEntries(ctx context.Context, filter *AuditFilter) ([]models.AccessAuditEntry, error) {
	mongoFilter := buildAuditFilter(filter)

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := repo.Collection.Find(ctx, mongoFilter, findOptions)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}

	var entries []models.AccessAuditEntry
	err = cursor.All(ctx, &entries)
	if err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return entries, nil
}

func buildAuditFilter(filter *AuditFilter) bson.M {
	mongoFilter := bson.M{}
	if filter == nil {
		return mongoFilter
	}

	if filter.UserID != "" {
		mongoFilter["userId"] = filter.UserID
	}
	if filter.PatientID != "" {
		mongoFilter["patientId"] = filter.PatientID
	}
	if filter.Outcome != "" {
		mongoFilter["granted"] = filter.Outcome == "granted"
	}
	if filter.AccessType != "" {
		mongoFilter["accessType"] = filter.AccessType
	}

	timeRange := bson.M{}
	if filter.From != nil {
		timeRange["$gte"] = *filter.From
	}
	if filter.To != nil {
		timeRange["$lte"] = *filter.To
	}
	if len(timeRange) > 0 {
		mongoFilter["createdAt"] = timeRange
	}

	return mongoFilter
}
