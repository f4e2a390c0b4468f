package config

import (
	"context"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var MongoConn *mongo.Client

var DBName string = "absensi-cuti-db"
var UserCollection string = "users"
var WorkSessionCollection string = "work_sessions"
var LeaveRequestCollection string = "leave_requests"
var CounterCollection string = "counters"
var NotificationCollection string = "notifications"
var QRCodeCollection string = "qr_codes"
var HolidayRuleCollection string = "holiday_rules"

func MongoConnect() {
	mongoURI := os.Getenv("MONGOSTRING")

	if mongoURI == "" {
		log.Fatal("MONGOSTRING belum di setting di env. coba setting dulu")
	}

	client, err := mongo.NewClient(options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to create MongoDB client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = client.Connect(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	err = client.Ping(ctx, readpref.Primary())
	if err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}

	log.Println("Connected to MongoDB!")
	MongoConn = client
}

func GetCollection(collectionName string) *mongo.Collection {
	if MongoConn == nil {
		log.Fatal("MongoDB untuk client tidak di inisialisasi. Panggil MongoConnect() first")
	}
	return MongoConn.Database(DBName).Collection(collectionName)
}

// InitDatabase membuat indeks yang menjadi tumpuan aturan bisnis.
// Indeks parsial work_sessions menjamin maksimal satu sesi aktif per
// karyawan walaupun dua clock-in datang bersamaan; cek-lalu-insert biasa
// tidak aman untuk itu.
func InitDatabase() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	sessionIdx := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "employee_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": "active"}).
				SetName("uniq_active_session_per_employee"),
		},
		{
			Keys: bson.D{{Key: "employee_id", Value: 1}, {Key: "start_time", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "company_id", Value: 1}, {Key: "branch_id", Value: 1}, {Key: "status", Value: 1}},
		},
	}
	if _, err := GetCollection(WorkSessionCollection).Indexes().CreateMany(ctx, sessionIdx); err != nil {
		log.Fatalf("Gagal membuat indeks work_sessions: %v", err)
	}

	leaveIdx := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "company_id", Value: 1}, {Key: "request_number", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("uniq_request_number_per_company"),
		},
		{
			Keys: bson.D{{Key: "employee_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "company_id", Value: 1}, {Key: "branch_id", Value: 1}, {Key: "status", Value: 1}},
		},
	}
	if _, err := GetCollection(LeaveRequestCollection).Indexes().CreateMany(ctx, leaveIdx); err != nil {
		log.Fatalf("Gagal membuat indeks leave_requests: %v", err)
	}

	counterIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "company_id", Value: 1}, {Key: "year", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_counter_company_year"),
	}
	if _, err := GetCollection(CounterCollection).Indexes().CreateOne(ctx, counterIdx); err != nil {
		log.Fatalf("Gagal membuat indeks counters: %v", err)
	}

	userIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := GetCollection(UserCollection).Indexes().CreateOne(ctx, userIdx); err != nil {
		log.Fatalf("Gagal membuat indeks users: %v", err)
	}

	notifIdx := mongo.IndexModel{
		Keys: bson.D{{Key: "employee_id", Value: 1}, {Key: "created_at", Value: -1}},
	}
	if _, err := GetCollection(NotificationCollection).Indexes().CreateOne(ctx, notifIdx); err != nil {
		log.Fatalf("Gagal membuat indeks notifications: %v", err)
	}

	qrIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := GetCollection(QRCodeCollection).Indexes().CreateOne(ctx, qrIdx); err != nil {
		log.Fatalf("Gagal membuat indeks qr_codes: %v", err)
	}

	log.Println("Indeks database siap.")
}

func DisconnectDB() {
	if MongoConn != nil {
		if err := MongoConn.Disconnect(context.Background()); err != nil {
			log.Fatalf("Error disconnecting from MongoDB: %v", err)
		}
		log.Println("Disconnect from MongoDB")
	}
}
