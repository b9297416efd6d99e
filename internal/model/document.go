package model

import "time"

// Document is the metadata of an uploaded file.
// The file itself lives in object storage under FilePath.
type Document struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Description *string   `json:"description,omitempty"`
	FilePath    string    `json:"filePath"`
	FileSize    int64     `json:"fileSize"`
	FileType    string    `json:"fileType"`
	Tags        []string  `json:"tags"`
	UploadDate  time.Time `json:"uploadDate"`
	UploadedBy  *int64    `json:"uploadedBy,omitempty"`
}

// DocumentInput carries the fields a caller supplies when registering an uploaded file.
type DocumentInput struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Category    string   `json:"category" validate:"required,max=100"`
	Description *string  `json:"description,omitempty"`
	FilePath    string   `json:"filePath" validate:"required"`
	FileSize    int64    `json:"fileSize" validate:"gte=0"`
	FileType    string   `json:"fileType" validate:"required"`
	Tags        []string `json:"tags" validate:"dive,required"`
	UploadedBy  *int64   `json:"uploadedBy,omitempty"`
}
