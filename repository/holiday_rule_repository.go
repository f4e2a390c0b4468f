package repository

import (
	"context"
	"errors"
	"fmt"

	"Sistem-Absensi-Cuti/config"
	"Sistem-Absensi-Cuti/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type HolidayRuleRepository interface {
	Create(ctx context.Context, rule *models.HolidayRule) error
	FindByCompany(ctx context.Context, companyID primitive.ObjectID) ([]models.HolidayRule, error)
	DeleteRule(ctx context.Context, id primitive.ObjectID, companyID primitive.ObjectID) error
}

type holidayRuleRepository struct {
	collection *mongo.Collection
}

func NewHolidayRuleRepository() HolidayRuleRepository {
	return &holidayRuleRepository{
		collection: config.GetCollection(config.HolidayRuleCollection),
	}
}

func (r *holidayRuleRepository) Create(ctx context.Context, rule *models.HolidayRule) error {
	_, err := r.collection.InsertOne(ctx, rule)
	if err != nil {
		return fmt.Errorf("gagal menyimpan aturan hari libur: %w", err)
	}
	return nil
}

func (r *holidayRuleRepository) FindByCompany(ctx context.Context, companyID primitive.ObjectID) ([]models.HolidayRule, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"company_id": companyID})
	if err != nil {
		return nil, fmt.Errorf("gagal mengambil aturan hari libur: %w", err)
	}
	defer cursor.Close(ctx)

	var rules []models.HolidayRule
	if err := cursor.All(ctx, &rules); err != nil {
		return nil, fmt.Errorf("gagal membaca aturan hari libur: %w", err)
	}
	return rules, nil
}

func (r *holidayRuleRepository) DeleteRule(ctx context.Context, id primitive.ObjectID, companyID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "company_id": companyID})
	if err != nil {
		return fmt.Errorf("gagal menghapus aturan hari libur: %w", err)
	}
	if result.DeletedCount == 0 {
		return errors.New("aturan hari libur tidak ditemukan")
	}
	return nil
}
