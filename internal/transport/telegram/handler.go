package telegram

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	messageDomain "github.com/reshetovitsme/channel-mirror/internal/modules/message/domain"
)

// AllowedUpdates are the only update types the mirror subscribes to
var AllowedUpdates = bot.AllowedUpdates{"channel_post", "edited_channel_post"}

// Dispatcher receives classified channel posts
type Dispatcher interface {
	Dispatch(ctx context.Context, event messageDomain.InboundEvent)
}

// Handler turns Telegram updates into inbound events
type Handler struct {
	dispatcher Dispatcher
}

// New creates a new Telegram handler
func New(dispatcher Dispatcher) *Handler {
	return &Handler{dispatcher: dispatcher}
}

// HandleUpdate processes incoming updates
func (h *Handler) HandleUpdate(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update == nil {
		return
	}

	switch {
	case update.ChannelPost != nil:
		h.dispatch(ctx, messageDomain.EventKindNewPost, update.ChannelPost)
	case update.EditedChannelPost != nil:
		h.dispatch(ctx, messageDomain.EventKindEditedPost, update.EditedChannelPost)
	}
}

func (h *Handler) dispatch(ctx context.Context, kind messageDomain.EventKind, msg *models.Message) {
	event := ToEvent(kind, msg)
	slog.Debug("Channel post received",
		"kind", event.Kind,
		"channel_id", event.ChannelID,
		"message_id", event.MessageID,
		"media_group_id", event.MediaGroupID,
		"payload", event.Payload,
	)
	h.dispatcher.Dispatch(ctx, event)
}

// ToEvent converts a channel post into an InboundEvent
func ToEvent(kind messageDomain.EventKind, msg *models.Message) messageDomain.InboundEvent {
	payload, mediaRef := extractMedia(msg)
	return messageDomain.InboundEvent{
		Kind:            kind,
		ChannelID:       msg.Chat.ID,
		ChannelUsername: msg.Chat.Username,
		MessageID:       msg.ID,
		EditDate:        msg.EditDate,
		MediaGroupID:    msg.MediaGroupID,
		Caption:         msg.Caption,
		CaptionEntities: msg.CaptionEntities,
		Payload:         payload,
		MediaRef:        mediaRef,
	}
}

func extractMedia(msg *models.Message) (messageDomain.PayloadKind, string) {
	switch {
	case len(msg.Photo) > 0:
		// sizes are ordered smallest first
		return messageDomain.PayloadKindPhoto, msg.Photo[len(msg.Photo)-1].FileID
	case msg.Video != nil:
		return messageDomain.PayloadKindVideo, msg.Video.FileID
	case msg.Animation != nil:
		return messageDomain.PayloadKindAnimation, msg.Animation.FileID
	case msg.Document != nil:
		return messageDomain.PayloadKindDocument, msg.Document.FileID
	case msg.Audio != nil:
		return messageDomain.PayloadKindAudio, msg.Audio.FileID
	case msg.Text != "":
		return messageDomain.PayloadKindText, ""
	default:
		return messageDomain.PayloadKindOther, ""
	}
}
