package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	messageDomain "github.com/reshetovitsme/channel-mirror/internal/modules/message/domain"
)

// DefaultWindow is how long an album stays open after its first item arrives
const DefaultWindow = 800 * time.Millisecond

// EmitFunc receives a drained album, items in arrival order
type EmitFunc func(ctx context.Context, groupID string, items []messageDomain.InboundEvent)

// Service buffers grouped posts until their debounce window closes.
//
// The buffer and the timer table share one mutex: appending, draining and
// rescheduling all happen under it, so a drained group can never be sent
// twice and an item appended concurrently with a drain either lands in the
// drained batch or starts a new group. Emits run outside the lock.
type Service struct {
	window  time.Duration
	emit    EmitFunc
	buffer  map[string][]messageDomain.InboundEvent
	pending map[string]*time.Timer
	closed  bool
	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates an aggregator that hands completed albums to emit
func New(window time.Duration, emit EmitFunc) *Service {
	if window <= 0 {
		window = DefaultWindow
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		window:  window,
		emit:    emit,
		buffer:  make(map[string][]messageDomain.InboundEvent),
		pending: make(map[string]*time.Timer),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// SetEmitter replaces the callback receiving flushed albums
func (s *Service) SetEmitter(emit EmitFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emit = emit
}

// Add buffers a grouped event. The first event of a group schedules its flush.
// It reports false when the event was rejected because the aggregator is closed
// or the event carries no group id.
func (s *Service) Add(event messageDomain.InboundEvent) bool {
	groupID := event.MediaGroupID
	if groupID == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	s.buffer[groupID] = append(s.buffer[groupID], event)
	if _, scheduled := s.pending[groupID]; !scheduled {
		s.pending[groupID] = time.AfterFunc(s.window, func() {
			s.flushAndEmit(s.ctx, groupID)
		})
		slog.Debug("Album opened", "media_group_id", groupID, "window", s.window)
	}
	return true
}

// Flush drains the group and returns its items. Draining a group that is
// absent or already drained returns nil.
func (s *Service) Flush(groupID string) []messageDomain.InboundEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drainLocked(groupID)
}

// Pending returns the number of albums waiting for their window to close
func (s *Service) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buffer)
}

// Close stops all timers, emits every album still buffered and waits for
// in-flight emits to finish. Later Add calls are rejected. When ctx is done
// first, emits started by the debounce timers are cancelled and Close
// returns without waiting for them.
func (s *Service) Close(ctx context.Context) {
	stop := context.AfterFunc(ctx, s.cancel)
	defer stop()

	s.mu.Lock()
	alreadyClosed := s.closed
	s.closed = true
	groupIDs := make([]string, 0, len(s.buffer))
	for groupID := range s.buffer {
		groupIDs = append(groupIDs, groupID)
	}
	s.mu.Unlock()

	if !alreadyClosed {
		for _, groupID := range groupIDs {
			s.flushAndEmit(ctx, groupID)
		}
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		slog.Warn("Album flush interrupted by shutdown deadline", "error", ctx.Err())
	}
	s.cancel()
}

func (s *Service) flushAndEmit(ctx context.Context, groupID string) {
	s.mu.Lock()
	items := s.drainLocked(groupID)
	emit := s.emit
	if len(items) > 0 {
		s.wg.Add(1)
	}
	s.mu.Unlock()

	if len(items) == 0 {
		return
	}
	defer s.wg.Done()

	slog.Debug("Album closed", "media_group_id", groupID, "items", len(items))
	if emit != nil {
		emit(ctx, groupID, items)
	}
}

func (s *Service) drainLocked(groupID string) []messageDomain.InboundEvent {
	if timer, ok := s.pending[groupID]; ok {
		timer.Stop()
		delete(s.pending, groupID)
	}
	items, ok := s.buffer[groupID]
	if !ok {
		return nil
	}
	delete(s.buffer, groupID)
	return items
}
