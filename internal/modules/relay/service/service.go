package service

import (
	"context"
	stderrors "errors"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	channelDomain "github.com/reshetovitsme/channel-mirror/internal/modules/channel/domain"
	messageDomain "github.com/reshetovitsme/channel-mirror/internal/modules/message/domain"
	"github.com/reshetovitsme/channel-mirror/internal/modules/relay/domain"
	"github.com/reshetovitsme/channel-mirror/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// Sender is the part of the platform client used to publish into the target
type Sender interface {
	CopyMessage(ctx context.Context, params *bot.CopyMessageParams) (*models.MessageID, error)
	ForwardMessage(ctx context.Context, params *bot.ForwardMessageParams) (*models.Message, error)
	SendMediaGroup(ctx context.Context, params *bot.SendMediaGroupParams) ([]*models.Message, error)
}

// Descriptions the platform uses when the bot lost its rights in a chat.
// They arrive as bad requests, not as forbidden.
var permissionDescriptions = []string{
	"chat not found",
	"not enough rights",
	"have no rights",
	"chat_write_forbidden",
	"chat_admin_required",
	"need administrator rights",
}

// Service performs relay operations. It holds no mirror state besides a
// counter of consecutive permission failures.
type Service struct {
	sender           Sender
	permissionStreak atomic.Int64
}

// New creates a new relay service
func New(sender Sender) *Service {
	return &Service{sender: sender}
}

// SetSender sets the platform client
func (s *Service) SetSender(sender Sender) {
	s.sender = sender
}

// PermissionStreak returns the number of consecutive permission failures
func (s *Service) PermissionStreak() int64 {
	return s.permissionStreak.Load()
}

// RelaySingle copies a message without attribution. Only when the copy is
// refused for the payload kind does it fall back to a plain forward.
func (s *Service) RelaySingle(ctx context.Context, source, target channelDomain.ChannelIdentity, messageID int) domain.Result {
	result := domain.Result{SourceMessageIDs: []int{messageID}}
	log := slog.With("source_id", source.ID, "target_id", target.ID, "message_id", messageID)

	copied, err := s.sender.CopyMessage(ctx, &bot.CopyMessageParams{
		ChatID:     target.ID,
		FromChatID: source.ID,
		MessageID:  messageID,
	})
	if err == nil {
		s.permissionStreak.Store(0)
		result.Outcome = domain.OutcomeCopied
		if copied != nil {
			result.TargetMessageIDs = []int{copied.ID}
		}
		log.Info("Message copied")
		return result
	}

	copyErr := Classify(err)
	if !stderrors.Is(copyErr, errors.ErrPayloadUnsupported) {
		return s.fail(log, result, copyErr, "Copy failed")
	}

	log.Warn("Copy unsupported for this message, forwarding instead", "error", err)
	forwarded, err := s.sender.ForwardMessage(ctx, &bot.ForwardMessageParams{
		ChatID:     target.ID,
		FromChatID: source.ID,
		MessageID:  messageID,
	})
	if err != nil {
		return s.fail(log, result, oops.With("copy_error", copyErr.Error()).Wrap(Classify(err)), "Copy and forward both failed")
	}

	s.permissionStreak.Store(0)
	result.Outcome = domain.OutcomeForwarded
	if forwarded != nil {
		result.TargetMessageIDs = []int{forwarded.ID}
	}
	log.Info("Message forwarded")
	return result
}

// RelayGroup publishes a drained album as one grouped post. Items of a kind
// that cannot be part of a media group are dropped; when nothing is left no
// call is made.
func (s *Service) RelayGroup(ctx context.Context, target channelDomain.ChannelIdentity, items []messageDomain.InboundEvent) domain.Result {
	result := domain.Result{
		SourceMessageIDs: lo.Map(items, func(item messageDomain.InboundEvent, _ int) int { return item.MessageID }),
	}
	groupID := ""
	if len(items) > 0 {
		groupID = items[0].MediaGroupID
	}
	log := slog.With("target_id", target.ID, "media_group_id", groupID, "items", len(items))

	media := BuildGroupMedia(items)
	if len(media) == 0 {
		result.Outcome = domain.OutcomeSkipped
		result.Err = oops.With("media_group_id", groupID).Wrapf(errors.ErrPayloadUnsupported, "no groupable items")
		log.Warn("Album has no groupable items, skipping")
		return result
	}

	sent, err := s.sender.SendMediaGroup(ctx, &bot.SendMediaGroupParams{
		ChatID: target.ID,
		Media:  media,
	})
	if err != nil {
		return s.fail(log, result, Classify(err), "Album send failed")
	}

	s.permissionStreak.Store(0)
	result.Outcome = domain.OutcomeGrouped
	result.TargetMessageIDs = lo.FilterMap(sent, func(m *models.Message, _ int) (int, bool) {
		if m == nil {
			return 0, false
		}
		return m.ID, true
	})
	log.Info("Album sent", "sent", len(media))
	return result
}

// BuildGroupMedia maps buffered items to their grouped-media representation.
// The caption of the first buffered item goes on the first mapped item only,
// matching how the platform renders an album.
func BuildGroupMedia(items []messageDomain.InboundEvent) []models.InputMedia {
	if len(items) == 0 {
		return nil
	}
	caption := items[0].Caption
	entities := items[0].CaptionEntities

	media := lo.FilterMap(items, func(item messageDomain.InboundEvent, _ int) (models.InputMedia, bool) {
		if item.MediaRef == "" {
			return nil, false
		}
		switch item.Payload {
		case messageDomain.PayloadKindPhoto:
			return &models.InputMediaPhoto{Media: item.MediaRef}, true
		case messageDomain.PayloadKindVideo:
			return &models.InputMediaVideo{Media: item.MediaRef}, true
		case messageDomain.PayloadKindDocument:
			return &models.InputMediaDocument{Media: item.MediaRef}, true
		case messageDomain.PayloadKindAudio:
			return &models.InputMediaAudio{Media: item.MediaRef}, true
		default:
			return nil, false
		}
	})

	if len(media) > 0 && caption != "" {
		switch first := media[0].(type) {
		case *models.InputMediaPhoto:
			first.Caption, first.CaptionEntities = caption, entities
		case *models.InputMediaVideo:
			first.Caption, first.CaptionEntities = caption, entities
		case *models.InputMediaDocument:
			first.Caption, first.CaptionEntities = caption, entities
		case *models.InputMediaAudio:
			first.Caption, first.CaptionEntities = caption, entities
		}
	}
	return media
}

// Classify maps a platform error onto the relay taxonomy. Errors that fit
// no category are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case stderrors.Is(err, bot.ErrorForbidden), stderrors.Is(err, bot.ErrorUnauthorized):
		return stderrors.Join(errors.ErrPermission, err)
	case stderrors.Is(err, bot.ErrorBadRequest):
		description := strings.ToLower(err.Error())
		if lo.SomeBy(permissionDescriptions, func(d string) bool { return strings.Contains(description, d) }) {
			return stderrors.Join(errors.ErrPermission, err)
		}
		return stderrors.Join(errors.ErrPayloadUnsupported, err)
	default:
		return err
	}
}

func (s *Service) fail(log *slog.Logger, result domain.Result, err error, msg string) domain.Result {
	result.Err = err
	result.Outcome = domain.OutcomeFailed

	switch {
	case stderrors.Is(err, errors.ErrPermission):
		streak := s.permissionStreak.Add(1)
		result.Outcome = domain.OutcomeSkipped
		log.Error(msg+": bot lost access to a channel", "error", err, "consecutive_permission_errors", streak)
	case stderrors.Is(err, errors.ErrPayloadUnsupported):
		result.Outcome = domain.OutcomeSkipped
		log.Warn(msg+": payload unsupported", "error", err)
	default:
		log.Error(msg, "error", err)
	}
	return result
}
