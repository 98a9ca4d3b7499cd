package repository

import (
	"github.com/reshetovitsme/channel-mirror/internal/modules/relay/domain"
)

// Repository defines the interface for the relay activity journal
type Repository interface {
	SaveActivity(activity *domain.Activity) error
	GetRecentActivity(limit int) ([]*domain.Activity, error)
}
