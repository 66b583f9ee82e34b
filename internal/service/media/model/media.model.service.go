package model

import "time"

// Media is the stored record of one validated upload.
type Media struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Field        string    `json:"field"`
	Folder       string    `gorm:"index" json:"folder"`
	OriginalName string    `json:"originalName"`
	StoredName   string    `json:"storedName"`
	Bucket       string    `json:"bucket"`
	Object       string    `gorm:"size:1024;not null" json:"object"`
	MimeType     string    `json:"mimeType"`
	Size         int64     `json:"size"`
	Checksum     string    `json:"checksum"`
	Processed    bool      `json:"processed"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// MediaUploadedEvent is the payload published to the media.uploaded queue
// once a record is stored. The worker consumes it, marks the record
// processed and fans out the realtime notification.
type MediaUploadedEvent struct {
	MediaID  string `json:"mediaId" validate:"required"`
	Folder   string `json:"folder" validate:"required"`
	Bucket   string `json:"bucket" validate:"required"`
	Object   string `json:"object" validate:"required"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
	Silent   bool   `json:"silent"`
}

// MediaProcessedNotice is what subscribers on the media/<folder> topic
// receive once the worker has finished with an upload.
type MediaProcessedNotice struct {
	MediaID string `json:"mediaId"`
	Folder  string `json:"folder"`
	Object  string `json:"object"`
}
