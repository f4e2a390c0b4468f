package repository

import (
	"context"
	"fmt"

	"Sistem-Absensi-Cuti/config"
	"Sistem-Absensi-Cuti/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CounterRepository interface {
	// NextSequence mengambil nomor urut berikutnya untuk (perusahaan,
	// tahun) secara atomik lewat $inc + upsert. Pendekatan count()+1
	// sengaja tidak dipakai karena menghasilkan nomor ganda saat
	// pengajuan datang bersamaan.
	NextSequence(ctx context.Context, companyID primitive.ObjectID, year int) (int64, error)
}

type counterRepository struct {
	collection *mongo.Collection
}

func NewCounterRepository() CounterRepository {
	return &counterRepository{
		collection: config.GetCollection(config.CounterCollection),
	}
}

func (r *counterRepository) NextSequence(ctx context.Context, companyID primitive.ObjectID, year int) (int64, error) {
	filter := bson.M{"company_id": companyID, "year": year}
	update := bson.M{"$inc": bson.M{"seq": int64(1)}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter models.Counter
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("gagal mengambil nomor urut pengajuan: %w", err)
	}
	return counter.Seq, nil
}
