package domain

import (
	"time"

	channelDomain "github.com/reshetovitsme/channel-mirror/internal/modules/channel/domain"
)

// Status is a point-in-time view of the mirror, served on the status endpoint
type Status struct {
	State            State                          `json:"state"`
	CycleID          string                         `json:"cycle_id,omitempty"`
	Source           *channelDomain.ChannelIdentity `json:"source,omitempty"`
	Target           *channelDomain.ChannelIdentity `json:"target,omitempty"`
	Restarts         int64                          `json:"restarts"`
	LastError        string                         `json:"last_error,omitempty"`
	LastErrorAt      *time.Time                     `json:"last_error_at,omitempty"`
	PendingAlbums    int                            `json:"pending_albums"`
	PermissionStreak int64                          `json:"permission_streak"`
	StartedAt        time.Time                      `json:"started_at"`
}
