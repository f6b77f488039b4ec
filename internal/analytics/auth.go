package analytics

import (
	"time"

	"github.com/news-portal-api/internal/models"
)

// AuthSummary is the authentication activity report. FailedLogins and
// PasswordResets are not tracked and are always 0.
type AuthSummary struct {
	Logins         int                 `json:"logins"`
	FailedLogins   int                 `json:"failedLogins"`
	PasswordResets int                 `json:"passwordResets"`
	ByRole         map[models.Role]int `json:"byRole"`
}

// AuthStats counts, among active users, those who logged in at or after
// windowStart, and groups all active users by role.
func AuthStats(users []*models.User, windowStart time.Time) AuthSummary {
	out := AuthSummary{ByRole: make(map[models.Role]int)}
	for _, u := range users {
		if !u.IsActive {
			continue
		}
		out.ByRole[u.Role]++
		if u.LastLogin != nil && !u.LastLogin.Before(windowStart) {
			out.Logins++
		}
	}
	return out
}
