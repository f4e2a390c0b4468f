package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Counter adalah pencacah atomik untuk penomoran pengajuan per
// (perusahaan, tahun). Increment dilakukan lewat $inc + upsert, bukan
// count()+1, supaya tidak ada nomor ganda saat pengajuan bersamaan.
type Counter struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CompanyID primitive.ObjectID `json:"company_id" bson:"company_id"`
	Year      int                `json:"year" bson:"year"`
	Seq       int64              `json:"seq" bson:"seq"`
}
