package analytics

import (
	"time"

	"github.com/news-portal-api/internal/models"
)

// RecentUploadsLimit is the number of recent uploads in a media summary.
const RecentUploadsLimit = 5

const bytesPerMB = 1024 * 1024

// MediaCounts are media item counts per type.
type MediaCounts struct {
	Image    int `json:"image"`
	Video    int `json:"video"`
	Document int `json:"document"`
}

// RecentUpload is a compact media projection.
type RecentUpload struct {
	ID         string           `json:"id"`
	Filename   string           `json:"filename"`
	Type       models.MediaType `json:"type"`
	UploadedAt time.Time        `json:"uploadedAt"`
}

// MediaSummary is the media usage report.
type MediaSummary struct {
	Counts        MediaCounts    `json:"counts"`
	StorageMB     float64        `json:"storageMb"`
	RecentUploads []RecentUpload `json:"recentUploads"`
}

// MediaUsage builds the media usage report from per-type counts, the summed
// size in bytes and the most recent uploads (newest first).
func MediaUsage(counts map[models.MediaType]int, totalBytes int64, recent []*models.Media) MediaSummary {
	out := MediaSummary{
		Counts: MediaCounts{
			Image:    counts[models.MediaImage],
			Video:    counts[models.MediaVideo],
			Document: counts[models.MediaDocument],
		},
		StorageMB:     round(float64(totalBytes)/bytesPerMB, 2),
		RecentUploads: make([]RecentUpload, 0, RecentUploadsLimit),
	}

	for i, m := range recent {
		if i == RecentUploadsLimit {
			break
		}
		out.RecentUploads = append(out.RecentUploads, RecentUpload{
			ID:         m.ID,
			Filename:   m.Filename,
			Type:       m.Type,
			UploadedAt: m.CreatedAt,
		})
	}
	return out
}
