package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Remark is a comment on exactly one task, stored as a Mongo document.
// The optional attachment lives in a GridFS bucket; FileID references it.
type Remark struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TaskID    uint               `bson:"task_id" json:"task_id"`
	Comment   string             `bson:"comment" json:"comment"`
	CreatedBy uint               `bson:"created_by" json:"created_by"`
	Role      string             `bson:"role" json:"role"`
	FileID    string             `bson:"file_id,omitempty" json:"file_id,omitempty"`
	FileName  string             `bson:"file_name,omitempty" json:"file_name,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time         `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}
