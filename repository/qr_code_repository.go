package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Sistem-Absensi-Cuti/config"
	"Sistem-Absensi-Cuti/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type QRCodeRepository interface {
	Create(ctx context.Context, qrCode *models.QRCode) error
	FindByValue(ctx context.Context, code string) (*models.QRCode, error)
	FindActiveByBranchAndDate(ctx context.Context, branchID primitive.ObjectID, date string) (*models.QRCode, error)
}

type qrCodeRepository struct {
	collection *mongo.Collection
}

func NewQRCodeRepository() QRCodeRepository {
	return &qrCodeRepository{
		collection: config.GetCollection(config.QRCodeCollection),
	}
}

func (r *qrCodeRepository) Create(ctx context.Context, qrCode *models.QRCode) error {
	_, err := r.collection.InsertOne(ctx, qrCode)
	if err != nil {
		return fmt.Errorf("gagal menyimpan QR Code: %w", err)
	}
	return nil
}

func (r *qrCodeRepository) FindByValue(ctx context.Context, code string) (*models.QRCode, error) {
	var qrCode models.QRCode
	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&qrCode)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("gagal mencari QR Code: %w", err)
	}
	return &qrCode, nil
}

func (r *qrCodeRepository) FindActiveByBranchAndDate(ctx context.Context, branchID primitive.ObjectID, date string) (*models.QRCode, error) {
	filter := bson.M{
		"branch_id":  branchID,
		"date":       date,
		"expires_at": bson.M{"$gt": time.Now()},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var qrCode models.QRCode
	err := r.collection.FindOne(ctx, filter, opts).Decode(&qrCode)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("gagal mencari QR Code aktif: %w", err)
	}
	return &qrCode, nil
}
