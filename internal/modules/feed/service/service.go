package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"github.com/reshetovitsme/channel-mirror/internal/modules/relay/domain"
	relayRepo "github.com/reshetovitsme/channel-mirror/internal/modules/relay/repository"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// DefaultLimit is the number of journal entries rendered into a feed
const DefaultLimit = 50

// Service renders the relay activity journal as an RSS feed
type Service struct {
	journal relayRepo.Repository
}

// New creates a new feed service
func New(journal relayRepo.Repository) *Service {
	return &Service{journal: journal}
}

// GenerateFeed builds a feed of the most recent relay attempts
func (s *Service) GenerateFeed(baseURL string, limit int) (*feeds.Feed, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	activities, err := s.journal.GetRecentActivity(limit)
	if err != nil {
		return nil, oops.With("context", "failed to get relay activity").Wrap(err)
	}

	updated := time.Now()
	if len(activities) > 0 {
		updated = activities[0].At
	}

	feed := &feeds.Feed{
		Title:       "Channel mirror activity",
		Link:        &feeds.Link{Href: baseURL + "/activity.rss"},
		Description: "Recent relay attempts of the channel mirror",
		Updated:     updated,
		Items: lo.Map(activities, func(a *domain.Activity, _ int) *feeds.Item {
			return activityToFeedItem(a, baseURL)
		}),
	}
	return feed, nil
}

func activityToFeedItem(a *domain.Activity, baseURL string) *feeds.Item {
	title := fmt.Sprintf("%s %s: %s", a.Operation, formatIDs(a.SourceMessageIDs), a.Outcome)

	var description strings.Builder
	fmt.Fprintf(&description, "Source channel: %d\n", a.SourceChannelID)
	fmt.Fprintf(&description, "Target channel: %d\n", a.TargetChannelID)
	if a.MediaGroupID != "" {
		fmt.Fprintf(&description, "Media group: %s\n", a.MediaGroupID)
	}
	if len(a.TargetMessageIDs) > 0 {
		fmt.Fprintf(&description, "Published as: %s\n", formatIDs(a.TargetMessageIDs))
	}
	if a.Error != "" {
		fmt.Fprintf(&description, "Error: %s\n", a.Error)
	}

	return &feeds.Item{
		Title:       title,
		Link:        &feeds.Link{Href: baseURL + "/status"},
		Description: description.String(),
		Created:     a.At,
		Id:          a.ID,
	}
}

func formatIDs(ids []int) string {
	if len(ids) == 0 {
		return "-"
	}
	return "#" + strings.Join(lo.Map(ids, func(id int, _ int) string {
		return fmt.Sprint(id)
	}), ",#")
}
