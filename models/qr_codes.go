package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QRCode harian per cabang untuk clock-in/clock-out lewat kios.
type QRCode struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Code      string             `json:"code" bson:"code,omitempty"`
	CompanyID primitive.ObjectID `json:"company_id" bson:"company_id,omitempty"`
	BranchID  primitive.ObjectID `json:"branch_id" bson:"branch_id,omitempty"`
	Date      string             `json:"date" bson:"date,omitempty"`
	ExpiresAt time.Time          `json:"expires_at" bson:"expires_at,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at,omitempty"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at,omitempty"`
}

type QRCodeScanPayload struct {
	QRCodeValue string `json:"qr_code_value" validate:"required"`
}
