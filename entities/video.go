package entities

import (
	"github.com/google/uuid"
	"time"
)

type Video struct {
	ID           uuid.UUID `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	FileSize     int64     `json:"file_size"`
	Description  string    `json:"description"`
	EventName    string    `json:"event_name"`
	UploadedAt   time.Time `json:"uploaded_at" gorm:"autoCreateTime"`
}

func (Video) TableName() string {
	return "videos"
}
