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

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) (primitive.ObjectID, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateUser(ctx context.Context, id primitive.ObjectID, updateData bson.M) (int64, error)
	UpdateUserPassword(ctx context.Context, id primitive.ObjectID, hashedPassword string) error
	DeleteUser(ctx context.Context, id primitive.ObjectID) (int64, error)
	GetAllUsers(ctx context.Context, filter bson.M, page, limit int64) ([]models.User, int64, error)
	// TryDeductVacationDays menambah vacation_days_used sebesar days secara
	// atomik, hanya bila saldo tersisa masih mencukupi terhadap nilai yang
	// tersimpan saat itu. Mengembalikan false bila saldo tidak cukup.
	TryDeductVacationDays(ctx context.Context, id primitive.ObjectID, days int) (bool, error)
	// RefundVacationDays membatalkan potongan TryDeductVacationDays bila
	// transisi status pengajuan yang menyertainya ternyata tidak terjadi.
	RefundVacationDays(ctx context.Context, id primitive.ObjectID, days int) error
	CountByCompany(ctx context.Context, companyID primitive.ObjectID, branchID *primitive.ObjectID) (int64, error)
	CountByBranch(ctx context.Context, companyID primitive.ObjectID) ([]models.BranchCount, error)
}

type userRepository struct {
	collection *mongo.Collection
}

func NewUserRepository() UserRepository {
	return &userRepository{
		collection: config.GetCollection(config.UserCollection),
	}
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) (primitive.ObjectID, error) {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	user.IsFirstLogin = true

	_, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, fmt.Errorf("email sudah ada")
		}
		return primitive.NilObjectID, fmt.Errorf("gagal membuat user: %w", err)
	}
	return user.ID, nil
}

func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	filter := bson.M{"email": email}

	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("gagal menemukan user berdasarkan email: %w", err)
	}
	return &user, nil
}

func (r *userRepository) FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("gagal menemukan user berdasarkan ID: %w", err)
	}
	return &user, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, id primitive.ObjectID, updateData bson.M) (int64, error) {
	updateData["updated_at"] = time.Now()
	filter := bson.M{"_id": id}
	update := bson.M{"$set": updateData}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("gagal mengupdate user: %w", err)
	}
	return result.MatchedCount, nil
}

func (r *userRepository) UpdateUserPassword(ctx context.Context, id primitive.ObjectID, hashedPassword string) error {
	update := bson.M{
		"$set": bson.M{
			"password":       hashedPassword,
			"is_first_login": false,
			"updated_at":     time.Now(),
		},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("gagal mengupdate password user: %w", err)
	}
	return nil
}

func (r *userRepository) DeleteUser(ctx context.Context, id primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("gagal menghapus user: %w", err)
	}
	return result.DeletedCount, nil
}

func (r *userRepository) GetAllUsers(ctx context.Context, filter bson.M, page, limit int64) ([]models.User, int64, error) {
	findOptions := options.Find()
	findOptions.SetSkip((page - 1) * limit)
	findOptions.SetLimit(limit)
	findOptions.SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, fmt.Errorf("gagal menemukan user: %w", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, 0, fmt.Errorf("gagal mendecode user: %w", err)
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("gagal menghitung user: %w", err)
	}

	return users, total, nil
}

func (r *userRepository) TryDeductVacationDays(ctx context.Context, id primitive.ObjectID, days int) (bool, error) {
	// Increment bersyarat dalam satu operasi: filter memeriksa ulang saldo
	// terhadap nilai tersimpan sehingga dua persetujuan bersamaan tidak
	// bisa membelanjakan sisa cuti yang sama dua kali.
	filter := bson.M{
		"_id": id,
		"$expr": bson.M{
			"$lte": bson.A{
				bson.M{"$add": bson.A{"$vacation_days_used", days}},
				"$vacation_days_total",
			},
		},
	}
	update := bson.M{
		"$inc": bson.M{"vacation_days_used": days},
		"$set": bson.M{"updated_at": time.Now()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("gagal memotong saldo cuti: %w", err)
	}
	return result.MatchedCount > 0, nil
}

func (r *userRepository) RefundVacationDays(ctx context.Context, id primitive.ObjectID, days int) error {
	update := bson.M{
		"$inc": bson.M{"vacation_days_used": -days},
		"$set": bson.M{"updated_at": time.Now()},
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("gagal mengembalikan saldo cuti: %w", err)
	}
	return nil
}

func (r *userRepository) CountByCompany(ctx context.Context, companyID primitive.ObjectID, branchID *primitive.ObjectID) (int64, error) {
	filter := scopeFilter(companyID, branchID)

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("gagal menghitung karyawan: %w", err)
	}
	return count, nil
}

func (r *userRepository) CountByBranch(ctx context.Context, companyID primitive.ObjectID) ([]models.BranchCount, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"company_id": companyID}},
		{"$group": bson.M{
			"_id":   "$branch_id",
			"count": bson.M{"$sum": 1},
		}},
		{"$project": bson.M{
			"branch_id": "$_id",
			"count":     1,
			"_id":       0,
		}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("gagal melakukan agregasi distribusi cabang: %w", err)
	}
	defer cursor.Close(ctx)

	var branchCounts []models.BranchCount
	if err = cursor.All(ctx, &branchCounts); err != nil {
		return nil, fmt.Errorf("gagal mendecode distribusi cabang: %w", err)
	}
	return branchCounts, nil
}
