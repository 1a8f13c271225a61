package main

import (
	"context"
	"radgate-service/internal/app/config"
	"radgate-service/internal/app/drivers/database"
	"radgate-service/internal/app/drivers/storage"
	"radgate-service/internal/app/models"
	"radgate-service/internal/app/services/core/users"
	miniostorage "radgate-service/internal/app/services/shared/storage"
	"radgate-service/internal/pkg/constvars"
	"radgate-service/internal/pkg/utils"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// The seed CLI prepares a deployment: MongoDB indexes, the audit export
// bucket, and the first administrator account. It is idempotent and safe to
// run on every deploy.
func main() {
	driverConfig := config.NewDriverConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	mongoClient := database.NewMongoDB(driverConfig)
	defer mongoClient.Disconnect(ctx)

	db := mongoClient.Database(driverConfig.MongoDB.DbName)

	if err := ensureIndexes(ctx, db); err != nil {
		logrus.Fatalf("Failed to create indexes: %v", err)
	}
	logrus.Println("Indexes are in place")

	minioClient := storage.NewMinio(driverConfig)
	if err := miniostorage.EnsureBucket(ctx, minioClient, driverConfig.Minio.BucketName); err != nil {
		logrus.Fatalf("Failed to ensure bucket %s: %v", driverConfig.Minio.BucketName, err)
	}
	logrus.Printf("Bucket %s is in place", driverConfig.Minio.BucketName)

	if err := seedAdminUser(ctx, mongoClient, driverConfig.MongoDB.DbName); err != nil {
		logrus.Fatalf("Failed to seed administrator: %v", err)
	}

	logrus.Println("Seed finished")
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	// One active row per pair; regrants update in place instead of stacking.
	activeOnly := bson.M{"active": true}

	indexes := map[string][]mongo.IndexModel{
		constvars.CollectionUsers: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		constvars.CollectionPatientRelationships: {
			{
				Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "patientId", Value: 1}},
				Options: options.Index().SetUnique(true).SetPartialFilterExpression(activeOnly),
			},
			{
				Keys: bson.D{{Key: "userId", Value: 1}, {Key: "active", Value: 1}},
			},
		},
		constvars.CollectionDoctorAssignments: {
			{
				Keys:    bson.D{{Key: "doctorUserId", Value: 1}, {Key: "patientId", Value: 1}},
				Options: options.Index().SetUnique(true).SetPartialFilterExpression(activeOnly),
			},
			{
				Keys: bson.D{{Key: "doctorUserId", Value: 1}, {Key: "active", Value: 1}},
			},
		},
		constvars.CollectionFamilyAccess: {
			{
				Keys:    bson.D{{Key: "parentUserId", Value: 1}, {Key: "childPatientId", Value: 1}},
				Options: options.Index().SetUnique(true).SetPartialFilterExpression(activeOnly),
			},
			{
				Keys: bson.D{{Key: "parentUserId", Value: 1}, {Key: "verified", Value: 1}, {Key: "active", Value: 1}},
			},
		},
		constvars.CollectionAccessAuditLog: {
			{
				Keys: bson.D{{Key: "createdAt", Value: -1}},
			},
			{
				Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			},
			{
				Keys: bson.D{{Key: "patientId", Value: 1}, {Key: "createdAt", Value: -1}},
			},
		},
		constvars.CollectionAdminNotifications: {
			{
				Keys: bson.D{{Key: "createdAt", Value: -1}},
			},
		},
	}

	for collection, indexModels := range indexes {
		_, err := db.Collection(collection).Indexes().CreateMany(ctx, indexModels)
		if err != nil {
			return err
		}
		logrus.Printf("Indexed %s", collection)
	}
	return nil
}

func seedAdminUser(ctx context.Context, mongoClient *mongo.Client, dbName string) error {
	adminEmail := utils.GetEnvString("SEED_ADMIN_EMAIL", "admin@radgate.local")
	adminName := utils.GetEnvString("SEED_ADMIN_NAME", "Radgate Administrator")
	adminPassword := utils.GetEnvString("SEED_ADMIN_PASSWORD", "")
	if adminPassword == "" {
		logrus.Fatalln("SEED_ADMIN_PASSWORD is required; refusing to seed a default credential")
	}

	userRepository := users.NewUserMongoRepository(mongoClient, dbName)

	existing, err := userRepository.FindByEmail(ctx, adminEmail)
	if err != nil {
		return err
	}
	if existing != nil {
		logrus.Printf("Administrator %s already exists, skipping", adminEmail)
		return nil
	}

	passwordHash, err := utils.HashPassword(adminPassword)
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:    adminEmail,
		Name:     adminName,
		Password: passwordHash,
		Role:     constvars.RadgateRoleAdmin,
		Active:   true,
	}
	admin.SetCreatedAtUpdatedAt()

	userID, err := userRepository.CreateUser(ctx, admin)
	if err != nil {
		return err
	}

	logrus.Printf("Administrator %s created with id %s", adminEmail, userID)
	return nil
}
