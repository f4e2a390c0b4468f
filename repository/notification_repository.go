package repository

import (
	"context"
	"fmt"
	"time"

	"Sistem-Absensi-Cuti/config"
	"Sistem-Absensi-Cuti/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NotificationRepository interface {
	Create(ctx context.Context, employeeID primitive.ObjectID, kind, title, message string) error
	FindByEmployee(ctx context.Context, employeeID primitive.ObjectID, limit int64) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, employeeID primitive.ObjectID) (bool, error)
	MarkAllRead(ctx context.Context, employeeID primitive.ObjectID) error
	CountUnread(ctx context.Context, employeeID primitive.ObjectID) (int64, error)
}

type notificationRepository struct {
	collection *mongo.Collection
}

func NewNotificationRepository() NotificationRepository {
	return &notificationRepository{
		collection: config.GetCollection(config.NotificationCollection),
	}
}

func (r *notificationRepository) Create(ctx context.Context, employeeID primitive.ObjectID, kind, title, message string) error {
	notification := models.Notification{
		ID:         primitive.NewObjectID(),
		EmployeeID: employeeID,
		Kind:       kind,
		Title:      title,
		Message:    message,
		IsRead:     false,
		CreatedAt:  time.Now(),
	}

	_, err := r.collection.InsertOne(ctx, notification)
	if err != nil {
		return fmt.Errorf("gagal membuat notifikasi: %w", err)
	}
	return nil
}

func (r *notificationRepository) FindByEmployee(ctx context.Context, employeeID primitive.ObjectID, limit int64) ([]models.Notification, error) {
	filter := bson.M{"employee_id": employeeID}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("gagal mengambil notifikasi: %w", err)
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("gagal decode notifikasi: %w", err)
	}

	if len(notifications) == 0 {
		return []models.Notification{}, nil
	}
	return notifications, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, employeeID primitive.ObjectID) (bool, error) {
	filter := bson.M{"_id": id, "employee_id": employeeID}
	update := bson.M{"$set": bson.M{"is_read": true}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("gagal menandai notifikasi terbaca: %w", err)
	}
	return result.MatchedCount > 0, nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, employeeID primitive.ObjectID) error {
	filter := bson.M{"employee_id": employeeID, "is_read": false}
	update := bson.M{"$set": bson.M{"is_read": true}}

	_, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("gagal menandai semua notifikasi terbaca: %w", err)
	}
	return nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, employeeID primitive.ObjectID) (int64, error) {
	filter := bson.M{"employee_id": employeeID, "is_read": false}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("gagal menghitung notifikasi belum terbaca: %w", err)
	}
	return count, nil
}
