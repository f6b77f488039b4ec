package models

import (
	"strings"
	"time"
)

// MediaType classifies an uploaded media item.
type MediaType string

const (
	MediaImage    MediaType = "image"
	MediaVideo    MediaType = "video"
	MediaDocument MediaType = "document"
)

// Media is the metadata of an uploaded file.
type Media struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	URL          string    `json:"url"`
	ObjectKey    string    `json:"-"`
	MimeType     string    `json:"mimeType"`
	Type         MediaType `json:"type"`
	Size         int64     `json:"size"`
	Width        *int      `json:"width,omitempty"`
	Height       *int      `json:"height,omitempty"`
	Duration     *float64  `json:"duration,omitempty"`
	UploaderID   string    `json:"uploaderId"`
	Folder       string    `json:"folder"`
	Tags         []string  `json:"tags"`
	Alt          Localized `json:"alt"`
	Caption      Localized `json:"caption"`
	IsPublic     bool      `json:"isPublic"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// MediaTypeFromMIME derives the media type of a MIME type.
func MediaTypeFromMIME(mime string) MediaType {
	mime = strings.ToLower(mime)
	switch {
	case strings.HasPrefix(mime, "video/"):
		return MediaVideo
	case strings.Contains(mime, "pdf"), strings.Contains(mime, "document"), strings.Contains(mime, "msword"):
		return MediaDocument
	default:
		return MediaImage
	}
}

// MediaInput registers an uploaded object. URL is set by the upload path or,
// for objects hosted elsewhere, supplied by the caller.
type MediaInput struct {
	URL          string     `json:"url"`
	Filename     string     `json:"filename"`
	OriginalName string     `json:"originalName"`
	ObjectKey    string     `json:"objectKey"`
	MimeType     string     `json:"mimeType"`
	Type         MediaType  `json:"type"`
	Size         int64      `json:"size"`
	Width        *int       `json:"width"`
	Height       *int       `json:"height"`
	Duration     *float64   `json:"duration"`
	Folder       string     `json:"folder"`
	Tags         []string   `json:"tags"`
	Alt          *Localized `json:"alt"`
	Caption      *Localized `json:"caption"`
	IsPublic     *bool      `json:"isPublic"`
}

// MediaUpdate carries the metadata fields an owner may change.
type MediaUpdate struct {
	Alt      *Localized `json:"alt"`
	Caption  *Localized `json:"caption"`
	Tags     []string   `json:"tags"`
	Folder   *string    `json:"folder"`
	IsPublic *bool      `json:"isPublic"`
}

// MediaQuery holds the client-requested media list filters.
type MediaQuery struct {
	Type       string
	Folder     string
	UploadedBy string
	Search     string
	Page       string
	Limit      string
	Sort       string
}

// MediaStats summarises stored media.
type MediaStats struct {
	TotalMedia    int      `json:"totalMedia"`
	ImageCount    int      `json:"imageCount"`
	VideoCount    int      `json:"videoCount"`
	DocumentCount int      `json:"documentCount"`
	TotalSize     int64    `json:"totalSize"`
	RecentUploads []*Media `json:"recentUploads"`
}
