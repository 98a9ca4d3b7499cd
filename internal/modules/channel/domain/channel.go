package domain

import (
	"strconv"
	"strings"
)

// ChannelIdentity is a resolved channel: the canonical numeric id plus the
// reference it was resolved from.
type ChannelIdentity struct {
	ID        int64  `json:"id"`
	Reference string `json:"reference"`
	Username  string `json:"username,omitempty"`
	Title     string `json:"title,omitempty"`
}

// IsZero reports whether the identity has not been resolved.
func (c ChannelIdentity) IsZero() bool {
	return c.ID == 0
}

// Matches reports whether a chat seen on the event stream is this channel.
// The username comparison covers channels configured by handle whose posts
// arrive before the id is known to match.
func (c ChannelIdentity) Matches(chatID int64, username string) bool {
	if c.ID != 0 && chatID == c.ID {
		return true
	}
	if c.Username == "" || username == "" {
		return false
	}
	return strings.EqualFold(c.Username, username)
}

func (c ChannelIdentity) String() string {
	if c.Username != "" {
		return "@" + c.Username + " (" + strconv.FormatInt(c.ID, 10) + ")"
	}
	return strconv.FormatInt(c.ID, 10)
}
