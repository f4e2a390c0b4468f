package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Jenis notifikasi hasil resolusi
const (
	NotificationKindKoreksi = "koreksi_sesi"
	NotificationKindCuti    = "pengajuan_cuti"
)

type Notification struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	EmployeeID primitive.ObjectID `json:"employee_id" bson:"employee_id,omitempty"`
	Kind       string             `json:"kind" bson:"kind,omitempty"`
	Title      string             `json:"title" bson:"title,omitempty"`
	Message    string             `json:"message" bson:"message,omitempty"`
	IsRead     bool               `json:"is_read" bson:"is_read"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at,omitempty"`
}
