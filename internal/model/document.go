package model

import (
	"time"

	"gorm.io/datatypes"
)

// Document is one record of the key-path document store. The path is a
// slash-joined key (e.g. "interviews/<candidate>/<session>/questions/q1")
// and the value is an arbitrary JSON object.
type Document struct {
	Path      string         `gorm:"primarykey" json:"path"`
	Value     datatypes.JSON `json:"value"`
	UpdatedAt time.Time      `json:"updated_at"`
}
