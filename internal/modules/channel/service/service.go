package service

import (
	"context"
	stderrors "errors"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/reshetovitsme/channel-mirror/internal/modules/channel/domain"
	"github.com/reshetovitsme/channel-mirror/internal/shared/errors"
	"github.com/samber/oops"
)

// ChatLookup is the part of the platform client the resolver needs
type ChatLookup interface {
	GetChat(ctx context.Context, params *bot.GetChatParams) (*models.ChatFullInfo, error)
}

var (
	numericReference = regexp.MustCompile(`^-?\d+$`)
	privateLink      = regexp.MustCompile(`^(?:https?://)?(?:t|telegram)\.me/c/(\d+)(?:/.*)?$`)
	handlePattern    = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{4,31}$`)
)

var urlPrefixes = []string{
	"https://t.me/",
	"http://t.me/",
	"t.me/",
	"https://telegram.me/",
	"http://telegram.me/",
	"telegram.me/",
	"tg://resolve?domain=",
}

// Service resolves human-supplied channel references into channel identities
type Service struct {
	lookup ChatLookup
}

// New creates a new channel resolution service
func New(lookup ChatLookup) *Service {
	return &Service{lookup: lookup}
}

// SetLookup sets the platform client used for handle lookups
func (s *Service) SetLookup(lookup ChatLookup) {
	s.lookup = lookup
}

// Resolve turns a numeric id, @handle or t.me link into a ChannelIdentity.
// Numeric ids and private links never touch the network.
func (s *Service) Resolve(ctx context.Context, reference string) (domain.ChannelIdentity, error) {
	raw := reference
	reference = strings.TrimSpace(reference)

	if numericReference.MatchString(reference) {
		id, err := strconv.ParseInt(reference, 10, 64)
		if err != nil || id == 0 {
			return domain.ChannelIdentity{}, oops.With("reference", raw).Wrap(errors.ErrInvalidReference)
		}
		return domain.ChannelIdentity{ID: id, Reference: raw}, nil
	}

	if m := privateLink.FindStringSubmatch(reference); m != nil {
		id, err := strconv.ParseInt("-100"+m[1], 10, 64)
		if err != nil {
			return domain.ChannelIdentity{}, oops.With("reference", raw).Wrap(errors.ErrInvalidReference)
		}
		return domain.ChannelIdentity{ID: id, Reference: raw}, nil
	}

	handle, ok := NormalizeHandle(reference)
	if !ok {
		return domain.ChannelIdentity{}, oops.
			With("reference", raw).
			Hint("use a numeric id like -1001234567890, @handle or https://t.me/handle").
			Wrap(errors.ErrInvalidReference)
	}

	if s.lookup == nil {
		return domain.ChannelIdentity{}, oops.With("reference", raw).Wrapf(errors.ErrTransientConnection, "platform client not initialized")
	}

	chat, err := s.lookup.GetChat(ctx, &bot.GetChatParams{ChatID: "@" + handle})
	if err != nil {
		return domain.ChannelIdentity{}, oops.
			With("reference", raw, "handle", handle).
			Hint("make sure the bot is an administrator of the channel").
			Wrap(classifyLookupError(err))
	}
	if chat == nil || chat.ID == 0 || chat.Type != "channel" {
		return domain.ChannelIdentity{}, oops.
			With("reference", raw, "handle", handle).
			Wrapf(errors.ErrInvalidReference, "@%s is not a channel", handle)
	}

	slog.Debug("Channel reference resolved", "reference", raw, "channel_id", chat.ID)

	return domain.ChannelIdentity{
		ID:        chat.ID,
		Reference: raw,
		Username:  chat.Username,
		Title:     chat.Title,
	}, nil
}

// ResolvePair resolves the source and target references of one mirror cycle
func (s *Service) ResolvePair(ctx context.Context, source, target string) (domain.ChannelIdentity, domain.ChannelIdentity, error) {
	src, err := s.Resolve(ctx, source)
	if err != nil {
		return domain.ChannelIdentity{}, domain.ChannelIdentity{}, oops.With("role", "source").Wrap(err)
	}
	dst, err := s.Resolve(ctx, target)
	if err != nil {
		return domain.ChannelIdentity{}, domain.ChannelIdentity{}, oops.With("role", "target").Wrap(err)
	}
	return src, dst, nil
}

// NormalizeHandle strips URL prefixes, trailing paths and the @ marker from
// a handle reference. It reports false when what remains is not a valid handle.
func NormalizeHandle(reference string) (string, bool) {
	handle := strings.TrimSpace(reference)
	lower := strings.ToLower(handle)
	for _, prefix := range urlPrefixes {
		if strings.HasPrefix(lower, prefix) {
			handle = handle[len(prefix):]
			break
		}
	}
	if i := strings.IndexAny(handle, "/?&#"); i >= 0 {
		handle = handle[:i]
	}
	handle = strings.TrimPrefix(handle, "@")

	if !handlePattern.MatchString(handle) {
		return "", false
	}
	return handle, true
}

// classifyLookupError maps a getChat failure onto the resolution taxonomy.
func classifyLookupError(err error) error {
	switch {
	case stderrors.Is(err, bot.ErrorForbidden), stderrors.Is(err, bot.ErrorUnauthorized):
		return stderrors.Join(errors.ErrAccessDenied, err)
	case stderrors.Is(err, bot.ErrorBadRequest), stderrors.Is(err, bot.ErrorNotFound):
		return stderrors.Join(errors.ErrInvalidReference, err)
	default:
		return stderrors.Join(errors.ErrTransientConnection, err)
	}
}

