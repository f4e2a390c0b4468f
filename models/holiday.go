package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Holiday struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// HolidayRule adalah hari libur perusahaan yang berulang, disimpan sebagai
// string RRULE (RFC 5545) dan diekspansi saat frontend meminta kalender.
type HolidayRule struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CompanyID      primitive.ObjectID `json:"company_id" bson:"company_id,omitempty"`
	Name           string             `json:"name" bson:"name,omitempty"`
	StartDate      string             `json:"start_date" bson:"start_date,omitempty"`
	RecurrenceRule string             `json:"recurrence_rule" bson:"recurrence_rule,omitempty"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at,omitempty"`
}

type HolidayRuleCreatePayload struct {
	Name           string `json:"name" validate:"required,min=3,max=100"`
	StartDate      string `json:"start_date" validate:"required,datetime=2006-01-02"`
	RecurrenceRule string `json:"recurrence_rule" validate:"required"`
}
