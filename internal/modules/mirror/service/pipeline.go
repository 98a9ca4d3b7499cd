package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	albumService "github.com/reshetovitsme/channel-mirror/internal/modules/album/service"
	channelDomain "github.com/reshetovitsme/channel-mirror/internal/modules/channel/domain"
	messageDomain "github.com/reshetovitsme/channel-mirror/internal/modules/message/domain"
	relayDomain "github.com/reshetovitsme/channel-mirror/internal/modules/relay/domain"
	relayRepo "github.com/reshetovitsme/channel-mirror/internal/modules/relay/repository"
	"github.com/reshetovitsme/channel-mirror/internal/shared/metrics"
	"github.com/samber/oops"
)

// Relayer publishes into the target channel
type Relayer interface {
	RelaySingle(ctx context.Context, source, target channelDomain.ChannelIdentity, messageID int) relayDomain.Result
	RelayGroup(ctx context.Context, target channelDomain.ChannelIdentity, items []messageDomain.InboundEvent) relayDomain.Result
}

// Pipeline routes inbound events: it filters on the source identity, drops
// redelivered updates, buffers albums and relays everything else.
type Pipeline struct {
	relayer    Relayer
	aggregator *albumService.Service
	journal    relayRepo.Repository
	metrics    *metrics.Metrics
	editPolicy channelDomain.EditPolicy
	seen       *lru.Cache[string, time.Time]

	mu     sync.RWMutex
	source channelDomain.ChannelIdentity
	target channelDomain.ChannelIdentity
}

// NewPipeline creates a pipeline. The aggregator's emitter is pointed at the
// pipeline so flushed albums go to the current target.
func NewPipeline(
	relayer Relayer,
	aggregator *albumService.Service,
	journal relayRepo.Repository,
	m *metrics.Metrics,
	editPolicy channelDomain.EditPolicy,
	dedupSize int,
) (*Pipeline, error) {
	if dedupSize <= 0 {
		dedupSize = 1024
	}
	seen, err := lru.New[string, time.Time](dedupSize)
	if err != nil {
		return nil, oops.With("dedup_size", dedupSize).Wrap(err)
	}
	if !editPolicy.IsValid() {
		editPolicy = channelDomain.EditPolicyCopy
	}

	p := &Pipeline{
		relayer:    relayer,
		aggregator: aggregator,
		journal:    journal,
		metrics:    m,
		editPolicy: editPolicy,
		seen:       seen,
	}
	aggregator.SetEmitter(p.relayAlbum)
	return p, nil
}

// Bind publishes the identities resolved for the current cycle
func (p *Pipeline) Bind(source, target channelDomain.ChannelIdentity) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.source = source
	p.target = target
}

// Identities returns the currently bound source and target
func (p *Pipeline) Identities() (channelDomain.ChannelIdentity, channelDomain.ChannelIdentity) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.source, p.target
}

// PendingAlbums returns the number of albums still collecting items
func (p *Pipeline) PendingAlbums() int {
	return p.aggregator.Pending()
}

// Dispatch handles one inbound event. Relay failures are contained here.
func (p *Pipeline) Dispatch(ctx context.Context, event messageDomain.InboundEvent) {
	source, target := p.Identities()
	if source.IsZero() || target.IsZero() {
		p.metrics.ObserveDrop("unbound")
		slog.Debug("Event before identities were resolved, dropping", "channel_id", event.ChannelID, "message_id", event.MessageID)
		return
	}

	if !source.Matches(event.ChannelID, event.ChannelUsername) {
		p.metrics.ObserveDrop("foreign_channel")
		return
	}

	if _, seen, _ := p.seen.PeekOrAdd(event.DedupKey(), time.Now()); seen {
		p.metrics.ObserveDrop("duplicate")
		slog.Debug("Duplicate update, dropping", "message_id", event.MessageID)
		return
	}

	if event.Kind == messageDomain.EventKindEditedPost {
		if p.editPolicy == channelDomain.EditPolicyIgnore {
			p.metrics.ObserveDrop("edit_ignored")
			return
		}
		result := p.relayer.RelaySingle(ctx, source, target, event.MessageID)
		p.record(relayDomain.OperationEdit, source, target, "", result)
		return
	}

	if event.IsGrouped() {
		if !p.aggregator.Add(event) {
			p.metrics.ObserveDrop("aggregator_closed")
		}
		return
	}

	result := p.relayer.RelaySingle(ctx, source, target, event.MessageID)
	p.record(relayDomain.OperationSingle, source, target, "", result)
}

// Close flushes buffered albums and stops the aggregator
func (p *Pipeline) Close(ctx context.Context) {
	p.aggregator.Close(ctx)
}

func (p *Pipeline) relayAlbum(ctx context.Context, groupID string, items []messageDomain.InboundEvent) {
	source, target := p.Identities()
	p.metrics.ObserveAlbum(len(items))
	result := p.relayer.RelayGroup(ctx, target, items)
	p.record(relayDomain.OperationGroup, source, target, groupID, result)
}

func (p *Pipeline) record(op relayDomain.Operation, source, target channelDomain.ChannelIdentity, groupID string, result relayDomain.Result) {
	p.metrics.ObserveRelay(op.String(), result.Outcome.String())

	if p.journal == nil {
		return
	}
	activity := &relayDomain.Activity{
		ID:               uuid.NewString(),
		At:               time.Now(),
		Operation:        op,
		Outcome:          result.Outcome,
		SourceChannelID:  source.ID,
		TargetChannelID:  target.ID,
		SourceMessageIDs: result.SourceMessageIDs,
		TargetMessageIDs: result.TargetMessageIDs,
		MediaGroupID:     groupID,
	}
	if result.Err != nil {
		activity.Error = result.Err.Error()
	}
	if err := p.journal.SaveActivity(activity); err != nil {
		slog.Error("Failed to record relay activity", "error", err)
	}
}
