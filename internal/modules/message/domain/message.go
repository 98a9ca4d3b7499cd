package domain

import (
	"fmt"

	"github.com/go-telegram/bot/models"
)

// InboundEvent is a channel post (new or edited) seen on the event stream.
// It lives only for the duration of dispatch, or until its album is flushed.
type InboundEvent struct {
	Kind            EventKind
	ChannelID       int64
	ChannelUsername string
	MessageID       int
	EditDate        int
	MediaGroupID    string
	Caption         string
	CaptionEntities []models.MessageEntity
	Payload         PayloadKind
	// MediaRef is the platform file handle of the attached media, if any.
	MediaRef string
}

// IsGrouped reports whether the event belongs to an album.
func (e InboundEvent) IsGrouped() bool {
	return e.MediaGroupID != ""
}

// DedupKey identifies one delivery of a post. Every edit gets its own key.
func (e InboundEvent) DedupKey() string {
	return fmt.Sprintf("%s:%d:%d:%d", e.Kind, e.ChannelID, e.MessageID, e.EditDate)
}
