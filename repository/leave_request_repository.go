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

// LeaveResolution adalah nilai yang diterapkan saat admin memproses
// sebuah pengajuan cuti.
type LeaveResolution struct {
	Status string
	Note   string
	Audit  models.AuditEntry
}

type LeaveRequestRepository interface {
	Create(ctx context.Context, req *models.LeaveRequest) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.LeaveRequest, error)
	FindByEmployee(ctx context.Context, employeeID primitive.ObjectID) ([]models.LeaveRequest, error)
	// DeletePending menghapus pengajuan hanya selama masih pending.
	DeletePending(ctx context.Context, id primitive.ObjectID) (bool, error)
	// Resolve hanya cocok untuk pengajuan pending; resolusi ganda tidak
	// mungkin mengenai dokumen yang sama dua kali.
	Resolve(ctx context.Context, id primitive.ObjectID, resolution LeaveResolution) (bool, error)
	UpdateAttachmentURL(ctx context.Context, id primitive.ObjectID, fileURL string) (bool, error)
	FindPendingWithUser(ctx context.Context, companyID primitive.ObjectID, branchID *primitive.ObjectID) ([]models.LeaveRequestWithUser, error)
	FindResolvedBetweenWithUser(ctx context.Context, companyID primitive.ObjectID, branchID *primitive.ObjectID, start, end time.Time) ([]models.LeaveRequestWithUser, error)
	CountPending(ctx context.Context, companyID primitive.ObjectID, branchID *primitive.ObjectID) (int64, error)
	SumApprovedDays(ctx context.Context, employeeID primitive.ObjectID) (int64, error)
}

type leaveRequestRepository struct {
	collection *mongo.Collection
}

func NewLeaveRequestRepository() LeaveRequestRepository {
	return &leaveRequestRepository{
		collection: config.GetCollection(config.LeaveRequestCollection),
	}
}

func (r *leaveRequestRepository) Create(ctx context.Context, req *models.LeaveRequest) error {
	_, err := r.collection.InsertOne(ctx, req)
	if err != nil {
		return fmt.Errorf("gagal membuat pengajuan cuti: %w", err)
	}
	return nil
}

func (r *leaveRequestRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.LeaveRequest, error) {
	var request models.LeaveRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&request)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("gagal menemukan pengajuan berdasarkan ID: %w", err)
	}
	return &request, nil
}

func (r *leaveRequestRepository) FindByEmployee(ctx context.Context, employeeID primitive.ObjectID) ([]models.LeaveRequest, error) {
	filter := bson.M{"employee_id": employeeID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("gagal mencari pengajuan cuti karyawan: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []models.LeaveRequest
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("gagal decode hasil pengajuan cuti: %w", err)
	}

	if len(requests) == 0 {
		return []models.LeaveRequest{}, nil
	}
	return requests, nil
}

func (r *leaveRequestRepository) DeletePending(ctx context.Context, id primitive.ObjectID) (bool, error) {
	filter := bson.M{"_id": id, "status": models.LeaveStatusPending}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("gagal menarik pengajuan cuti: %w", err)
	}
	return result.DeletedCount > 0, nil
}

func (r *leaveRequestRepository) Resolve(ctx context.Context, id primitive.ObjectID, resolution LeaveResolution) (bool, error) {
	filter := bson.M{"_id": id, "status": models.LeaveStatusPending}
	update := bson.M{
		"$set": bson.M{
			"status":           resolution.Status,
			"note":             resolution.Note,
			"resolved_by":      resolution.Audit.ResolverID,
			"resolved_by_name": resolution.Audit.ResolverName,
			"resolved_at":      resolution.Audit.ResolvedAt,
			"audit":            resolution.Audit,
			"updated_at":       time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("gagal memproses pengajuan cuti: %w", err)
	}
	return result.MatchedCount > 0, nil
}

func (r *leaveRequestRepository) UpdateAttachmentURL(ctx context.Context, id primitive.ObjectID, fileURL string) (bool, error) {
	update := bson.M{"$set": bson.M{"attachment_url": fileURL, "updated_at": time.Now()}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return false, fmt.Errorf("gagal mengupdate URL lampiran: %w", err)
	}
	return result.MatchedCount > 0, nil
}

func (r *leaveRequestRepository) leaveWithUserPipeline(match bson.M, sort bson.D) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: sort}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: config.UserCollection},
			{Key: "localField", Value: "employee_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "userDetails"},
		}}},
		{{Key: "$unwind", Value: "$userDetails"}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 1},
			{Key: "request_number", Value: 1},
			{Key: "employee_id", Value: 1},
			{Key: "company_id", Value: 1},
			{Key: "branch_id", Value: 1},
			{Key: "start_date", Value: 1},
			{Key: "end_date", Value: 1},
			{Key: "days_count", Value: 1},
			{Key: "type", Value: 1},
			{Key: "reason", Value: 1},
			{Key: "status", Value: 1},
			{Key: "resolved_by_name", Value: 1},
			{Key: "resolved_at", Value: 1},
			{Key: "created_at", Value: 1},
			{Key: "user_name", Value: "$userDetails.name"},
			{Key: "user_email", Value: "$userDetails.email"},
			{Key: "user_position", Value: "$userDetails.position"},
			{Key: "sisa_cuti", Value: bson.D{{Key: "$subtract", Value: bson.A{
				"$userDetails.vacation_days_total",
				"$userDetails.vacation_days_used",
			}}}},
		}}},
	}
}

func (r *leaveRequestRepository) aggregateWithUser(ctx context.Context, pipeline mongo.Pipeline) ([]models.LeaveRequestWithUser, error) {
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("gagal aggregation pengajuan dengan detail user: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.LeaveRequestWithUser
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("gagal decode pengajuan dengan detail user: %w", err)
	}

	if len(results) == 0 {
		return []models.LeaveRequestWithUser{}, nil
	}
	return results, nil
}

func (r *leaveRequestRepository) FindPendingWithUser(ctx context.Context, companyID primitive.ObjectID, branchID *primitive.ObjectID) ([]models.LeaveRequestWithUser, error) {
	match := scopeFilter(companyID, branchID)
	match["status"] = models.LeaveStatusPending

	// Antrean dari pengajuan paling lama
	sort := bson.D{{Key: "created_at", Value: 1}}
	return r.aggregateWithUser(ctx, r.leaveWithUserPipeline(match, sort))
}

func (r *leaveRequestRepository) FindResolvedBetweenWithUser(ctx context.Context, companyID primitive.ObjectID, branchID *primitive.ObjectID, start, end time.Time) ([]models.LeaveRequestWithUser, error) {
	match := scopeFilter(companyID, branchID)
	match["resolved_at"] = bson.M{"$gte": start, "$lt": end}

	sort := bson.D{{Key: "resolved_at", Value: -1}}
	return r.aggregateWithUser(ctx, r.leaveWithUserPipeline(match, sort))
}

func (r *leaveRequestRepository) CountPending(ctx context.Context, companyID primitive.ObjectID, branchID *primitive.ObjectID) (int64, error) {
	filter := scopeFilter(companyID, branchID)
	filter["status"] = models.LeaveStatusPending

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("gagal menghitung pengajuan tertunda: %w", err)
	}
	return count, nil
}

// SumApprovedDays menjumlahkan hari cuti yang sudah disetujui untuk satu
// karyawan; dipakai untuk rekonsiliasi saldo.
func (r *leaveRequestRepository) SumApprovedDays(ctx context.Context, employeeID primitive.ObjectID) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"employee_id": employeeID,
			"status":      models.LeaveStatusApproved,
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$days_count"}}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("gagal menjumlahkan hari cuti disetujui: %w", err)
	}
	defer cursor.Close(ctx)

	var result []struct {
		Total int64 `bson:"total"`
	}
	if err = cursor.All(ctx, &result); err != nil {
		return 0, fmt.Errorf("gagal decode jumlah hari cuti: %w", err)
	}

	if len(result) == 0 {
		return 0, nil
	}
	return result[0].Total, nil
}
