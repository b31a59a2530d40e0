package dto

import "github.com/google/uuid"

type UploadURLRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

type UploadURLResponse struct {
	UploadUrl string `json:"uploadUrl"`
	Filename  string `json:"filename"`
}

type DownloadURLResponse struct {
	DownloadUrl string `json:"downloadUrl"`
}

type CreateVideoRequest struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	FileSize     int64  `json:"file_size"`
	Description  string `json:"description"`
	EventName    string `json:"event_name"`
}

type VideoUploadedMessage struct {
	VideoId    uuid.UUID `json:"videoId"`
	ObjectName string    `json:"objectName"`
}
