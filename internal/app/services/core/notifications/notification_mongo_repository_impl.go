package notifications

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

type AdminNotificationMongoRepository struct {
	Collection *mongo.Collection
}

func NewAdminNotificationMongoRepository(db *mongo.Client, dbName string) AdminNotificationRepository {
	return &AdminNotificationMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.CollectionAdminNotifications),
	}
}

func (repo *AdminNotificationMongoRepository) InsertNotification(ctx context.Context, notification *models.AdminNotification) (string, error) {
	result, err := repo.Collection.InsertOne(ctx, notification)
	if err != nil {
		return "", exceptions.ErrMongoDBInsertDocument(err)
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (repo *AdminNotificationMongoRepository) FindNotifications(ctx context.Context, page, pageSize int) ([]models.AdminNotification, int64, error) {
	total, err := repo.Collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, exceptions.ErrMongoDBFindDocument(err)
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := repo.Collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, 0, exceptions.ErrMongoDBFindDocument(err)
	}

	var notifications []models.AdminNotification
	err = cursor.All(ctx, &notifications)
	if err != nil {
		return nil, 0, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return notifications, total, nil
}
