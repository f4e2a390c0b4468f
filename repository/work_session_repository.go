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

// CorrectionProposal adalah nilai yang disimpan saat karyawan mengusulkan
// koreksi: snapshot waktu tercatat plus waktu usulan.
type CorrectionProposal struct {
	OriginalStart time.Time
	OriginalEnd   *time.Time
	EditedStart   time.Time
	EditedEnd     *time.Time
}

// CorrectionResolution adalah nilai akhir yang diterapkan saat admin
// memproses koreksi. StartTime/EndTime sudah berisi nilai final (usulan
// bila disetujui, nilai lama bila ditolak).
type CorrectionResolution struct {
	StartTime time.Time
	EndTime   *time.Time
	// ObservedUpdatedAt adalah stempel updated_at dokumen saat usulan
	// dibaca. Filter resolve mencocokkannya supaya siklus propose/resolve
	// lain yang menyela di antara baca dan tulis tidak ikut tertimpa.
	ObservedUpdatedAt time.Time
	Audit             models.AuditEntry
}

type WorkSessionRepository interface {
	// StartSession membuat sesi aktif baru secara atomik; bila karyawan
	// sudah punya sesi aktif, sesi itulah yang dikembalikan tanpa diubah.
	StartSession(ctx context.Context, candidate *models.WorkSession) (*models.WorkSession, error)
	FindActiveByEmployee(ctx context.Context, employeeID primitive.ObjectID) (*models.WorkSession, error)
	// CompleteActiveSession menutup sesi aktif; (nil, nil) bila tidak ada.
	CompleteActiveSession(ctx context.Context, employeeID primitive.ObjectID, endTime time.Time) (*models.WorkSession, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.WorkSession, error)
	FindByEmployee(ctx context.Context, employeeID primitive.ObjectID) ([]models.WorkSession, error)
	// MarkPendingCorrection hanya cocok untuk sesi berstatus completed;
	// mengembalikan false bila dokumen tidak dalam status itu.
	MarkPendingCorrection(ctx context.Context, id primitive.ObjectID, proposal CorrectionProposal) (bool, error)
	// ResolveCorrection hanya cocok untuk sesi pending_approval yang
	// updated_at-nya masih sama dengan saat dibaca, sehingga resolusi
	// ganda maupun usulan baru yang menyela tidak pernah tertimpa.
	ResolveCorrection(ctx context.Context, id primitive.ObjectID, resolution CorrectionResolution) (bool, error)
	FindPendingWithUser(ctx context.Context, companyID primitive.ObjectID, branchID *primitive.ObjectID) ([]models.WorkSessionWithUser, error)
	FindResolvedBetweenWithUser(ctx context.Context, companyID primitive.ObjectID, branchID *primitive.ObjectID, start, end time.Time) ([]models.WorkSessionWithUser, error)
	CountActive(ctx context.Context, companyID primitive.ObjectID, branchID *primitive.ObjectID) (int64, error)
	CountPending(ctx context.Context, companyID primitive.ObjectID, branchID *primitive.ObjectID) (int64, error)
}

type workSessionRepository struct {
	collection *mongo.Collection
}

func NewWorkSessionRepository() WorkSessionRepository {
	return &workSessionRepository{
		collection: config.GetCollection(config.WorkSessionCollection),
	}
}

func (r *workSessionRepository) StartSession(ctx context.Context, candidate *models.WorkSession) (*models.WorkSession, error) {
	// Upsert bersyarat pada (employee_id, status=active): dua clock-in
	// bersamaan akan menemukan dokumen yang sama, ditopang indeks unik
	// parsial. Cek-lalu-insert tidak dipakai karena tidak aman.
	filter := bson.M{
		"employee_id": candidate.EmployeeID,
		"status":      models.SessionStatusActive,
	}
	update := bson.M{"$setOnInsert": candidate}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var session models.WorkSession
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&session)
	if err != nil {
		return nil, fmt.Errorf("gagal memulai sesi kerja: %w", err)
	}
	return &session, nil
}

func (r *workSessionRepository) FindActiveByEmployee(ctx context.Context, employeeID primitive.ObjectID) (*models.WorkSession, error) {
	var session models.WorkSession
	filter := bson.M{"employee_id": employeeID, "status": models.SessionStatusActive}

	err := r.collection.FindOne(ctx, filter).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("gagal mencari sesi aktif: %w", err)
	}
	return &session, nil
}

func (r *workSessionRepository) CompleteActiveSession(ctx context.Context, employeeID primitive.ObjectID, endTime time.Time) (*models.WorkSession, error) {
	filter := bson.M{"employee_id": employeeID, "status": models.SessionStatusActive}
	update := bson.M{
		"$set": bson.M{
			"end_time":   endTime,
			"status":     models.SessionStatusCompleted,
			"updated_at": time.Now(),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var session models.WorkSession
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("gagal menutup sesi aktif: %w", err)
	}
	return &session, nil
}

func (r *workSessionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.WorkSession, error) {
	var session models.WorkSession
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("gagal menemukan sesi berdasarkan ID: %w", err)
	}
	return &session, nil
}

func (r *workSessionRepository) FindByEmployee(ctx context.Context, employeeID primitive.ObjectID) ([]models.WorkSession, error) {
	filter := bson.M{"employee_id": employeeID}
	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("gagal mencari riwayat sesi: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []models.WorkSession
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("gagal decode riwayat sesi: %w", err)
	}

	if len(sessions) == 0 {
		return []models.WorkSession{}, nil
	}
	return sessions, nil
}

func (r *workSessionRepository) MarkPendingCorrection(ctx context.Context, id primitive.ObjectID, proposal CorrectionProposal) (bool, error) {
	filter := bson.M{"_id": id, "status": models.SessionStatusCompleted}
	update := bson.M{
		"$set": bson.M{
			"status":              models.SessionStatusPendingApproval,
			"original_start_time": proposal.OriginalStart,
			"original_end_time":   proposal.OriginalEnd,
			"edited_start_time":   proposal.EditedStart,
			"edited_end_time":     proposal.EditedEnd,
			"updated_at":          time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("gagal menandai koreksi pending: %w", err)
	}
	return result.MatchedCount > 0, nil
}

func (r *workSessionRepository) ResolveCorrection(ctx context.Context, id primitive.ObjectID, resolution CorrectionResolution) (bool, error) {
	filter := bson.M{
		"_id":        id,
		"status":     models.SessionStatusPendingApproval,
		"updated_at": resolution.ObservedUpdatedAt,
	}
	update := bson.M{
		"$set": bson.M{
			"start_time":       resolution.StartTime,
			"end_time":         resolution.EndTime,
			"status":           models.SessionStatusCompleted,
			"resolved_by":      resolution.Audit.ResolverID,
			"resolved_by_name": resolution.Audit.ResolverName,
			"resolved_at":      resolution.Audit.ResolvedAt,
			"updated_at":       time.Now(),
		},
		"$unset": bson.M{
			"original_start_time": "",
			"original_end_time":   "",
			"edited_start_time":   "",
			"edited_end_time":     "",
		},
		"$push": bson.M{"audit": resolution.Audit},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("gagal memproses koreksi: %w", err)
	}
	return result.MatchedCount > 0, nil
}

func scopeFilter(companyID primitive.ObjectID, branchID *primitive.ObjectID) bson.M {
	filter := bson.M{"company_id": companyID}
	if branchID != nil {
		filter["branch_id"] = *branchID
	}
	return filter
}

func (r *workSessionRepository) sessionWithUserPipeline(match bson.M, sort bson.D) mongo.Pipeline {
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
			{Key: "employee_id", Value: 1},
			{Key: "company_id", Value: 1},
			{Key: "branch_id", Value: 1},
			{Key: "start_time", Value: 1},
			{Key: "end_time", Value: 1},
			{Key: "status", Value: 1},
			{Key: "original_start_time", Value: 1},
			{Key: "original_end_time", Value: 1},
			{Key: "edited_start_time", Value: 1},
			{Key: "edited_end_time", Value: 1},
			{Key: "resolved_by_name", Value: 1},
			{Key: "resolved_at", Value: 1},
			{Key: "user_name", Value: "$userDetails.name"},
			{Key: "user_email", Value: "$userDetails.email"},
			{Key: "user_position", Value: "$userDetails.position"},
		}}},
	}
}

func (r *workSessionRepository) aggregateWithUser(ctx context.Context, pipeline mongo.Pipeline) ([]models.WorkSessionWithUser, error) {
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("gagal aggregation sesi dengan detail user: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.WorkSessionWithUser
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("gagal decode hasil aggregation sesi: %w", err)
	}

	if len(results) == 0 {
		return []models.WorkSessionWithUser{}, nil
	}
	return results, nil
}

func (r *workSessionRepository) FindPendingWithUser(ctx context.Context, companyID primitive.ObjectID, branchID *primitive.ObjectID) ([]models.WorkSessionWithUser, error) {
	match := scopeFilter(companyID, branchID)
	match["status"] = models.SessionStatusPendingApproval

	// Antrean diproses dari yang paling lama menunggu
	sort := bson.D{{Key: "updated_at", Value: 1}}
	return r.aggregateWithUser(ctx, r.sessionWithUserPipeline(match, sort))
}

func (r *workSessionRepository) FindResolvedBetweenWithUser(ctx context.Context, companyID primitive.ObjectID, branchID *primitive.ObjectID, start, end time.Time) ([]models.WorkSessionWithUser, error) {
	match := scopeFilter(companyID, branchID)
	match["resolved_at"] = bson.M{"$gte": start, "$lt": end}

	sort := bson.D{{Key: "resolved_at", Value: -1}}
	return r.aggregateWithUser(ctx, r.sessionWithUserPipeline(match, sort))
}

func (r *workSessionRepository) CountActive(ctx context.Context, companyID primitive.ObjectID, branchID *primitive.ObjectID) (int64, error) {
	filter := scopeFilter(companyID, branchID)
	filter["status"] = models.SessionStatusActive

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("gagal menghitung sesi aktif: %w", err)
	}
	return count, nil
}

func (r *workSessionRepository) CountPending(ctx context.Context, companyID primitive.ObjectID, branchID *primitive.ObjectID) (int64, error) {
	filter := scopeFilter(companyID, branchID)
	filter["status"] = models.SessionStatusPendingApproval

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("gagal menghitung koreksi tertunda: %w", err)
	}
	return count, nil
}
