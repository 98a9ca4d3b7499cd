package service

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	channelDomain "github.com/reshetovitsme/channel-mirror/internal/modules/channel/domain"
	"github.com/reshetovitsme/channel-mirror/internal/modules/mirror/domain"
	"github.com/reshetovitsme/channel-mirror/internal/shared/errors"
	"github.com/reshetovitsme/channel-mirror/internal/shared/metrics"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// Resolver resolves the configured channel references
type Resolver interface {
	ResolvePair(ctx context.Context, source, target string) (channelDomain.ChannelIdentity, channelDomain.ChannelIdentity, error)
}

// Listener is the inbound event stream. Start blocks until ctx is done.
type Listener interface {
	Start(ctx context.Context)
}

// PermissionReporter exposes how many relays in a row failed on permissions
type PermissionReporter interface {
	PermissionStreak() int64
}

// Options configures the supervisor
type Options struct {
	SourceReference   string
	TargetReference   string
	TransientCooldown time.Duration
	ConfigCooldown    time.Duration
}

// Supervisor keeps the mirror running: it resolves identities, holds the
// single event-stream subscription and restarts both after failures.
type Supervisor struct {
	opts        Options
	resolver    Resolver
	pipeline    *Pipeline
	metrics     *metrics.Metrics
	permissions PermissionReporter
	streamErrs  chan error
	restarts    atomic.Int64
	running     atomic.Bool
	startedAt   time.Time

	listenerMu sync.Mutex
	listener   Listener

	mu        sync.RWMutex
	state     domain.State
	cycleID   string
	lastErr   error
	lastErrAt time.Time
}

// NewSupervisor creates a new supervisor in the idle state
func NewSupervisor(opts Options, resolver Resolver, pipeline *Pipeline, m *metrics.Metrics) *Supervisor {
	if opts.TransientCooldown <= 0 {
		opts.TransientCooldown = 5 * time.Second
	}
	if opts.ConfigCooldown <= 0 {
		opts.ConfigCooldown = 30 * time.Second
	}
	return &Supervisor{
		opts:       opts,
		resolver:   resolver,
		pipeline:   pipeline,
		metrics:    m,
		streamErrs: make(chan error, 1),
		state:      domain.StateIdle,
		startedAt:  time.Now(),
	}
}

// SetListener sets the event stream the supervisor subscribes to
func (s *Supervisor) SetListener(listener Listener) {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	s.listener = listener
}

// SetPermissionReporter wires the relay's permission failure streak into Status
func (s *Supervisor) SetPermissionReporter(reporter PermissionReporter) {
	s.permissions = reporter
}

// ReportStreamError is the error callback of the event stream. Only the
// first error of a listening period is kept; it ends that period.
func (s *Supervisor) ReportStreamError(err error) {
	if err == nil || stderrors.Is(err, context.Canceled) {
		return
	}
	select {
	case s.streamErrs <- err:
	default:
	}
}

// Run drives the Resolving -> Listening -> Backoff cycle until ctx is done.
// It never returns on recoverable failures.
func (s *Supervisor) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return oops.Errorf("supervisor is already running")
	}
	defer s.running.Store(false)

	for {
		cycleID := uuid.NewString()
		log := slog.With("cycle_id", cycleID)
		s.mu.Lock()
		s.cycleID = cycleID
		s.mu.Unlock()

		s.setState(domain.StateResolving)
		source, target, err := s.resolver.ResolvePair(ctx, s.opts.SourceReference, s.opts.TargetReference)
		if err != nil {
			if ctx.Err() != nil {
				return s.stop()
			}
			s.recordError(err)
			cooldown := s.opts.TransientCooldown
			reason := "resolve_transient"
			if errors.IsConfigurationFailure(err) {
				cooldown = s.opts.ConfigCooldown
				reason = "resolve_configuration"
				log.Error("Channel resolution failed, check the channel references and that the bot is an administrator",
					"error", err, "retry_in", cooldown)
			} else {
				log.Warn("Channel resolution failed", "error", err, "retry_in", cooldown)
			}
			s.restarts.Add(1)
			s.metrics.ObserveRestart(reason)
			if !s.backoff(ctx, cooldown) {
				return s.stop()
			}
			continue
		}

		s.pipeline.Bind(source, target)
		log.Info("Mirroring channel", "source", source.String(), "target", target.String())

		s.setState(domain.StateListening)
		err = s.listen(ctx)
		if ctx.Err() != nil {
			return s.stop()
		}

		s.recordError(err)
		s.restarts.Add(1)
		s.metrics.ObserveRestart("stream")
		log.Warn("Event stream failed, restarting", "error", err, "retry_in", s.opts.TransientCooldown)
		if !s.backoff(ctx, s.opts.TransientCooldown) {
			return s.stop()
		}
	}
}

// Status returns a snapshot of the supervisor
func (s *Supervisor) Status() domain.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := domain.Status{
		State:         s.state,
		CycleID:       s.cycleID,
		Restarts:      s.restarts.Load(),
		PendingAlbums: s.pipeline.PendingAlbums(),
		StartedAt:     s.startedAt,
	}
	source, target := s.pipeline.Identities()
	if !source.IsZero() {
		status.Source = &source
	}
	if !target.IsZero() {
		status.Target = &target
	}
	if s.lastErr != nil {
		status.LastError = s.lastErr.Error()
		status.LastErrorAt = lo.ToPtr(s.lastErrAt)
	}
	if s.permissions != nil {
		status.PermissionStreak = s.permissions.PermissionStreak()
	}
	return status
}

// State returns the current lifecycle state
func (s *Supervisor) State() domain.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// listen holds exactly one subscription until it fails or ctx is done. It
// does not return before the subscription has stopped.
func (s *Supervisor) listen(ctx context.Context) error {
	s.listenerMu.Lock()
	listener := s.listener
	s.listenerMu.Unlock()
	if listener == nil {
		return oops.Wrapf(errors.ErrTransientConnection, "event stream not initialized")
	}

	// drop errors left over from the previous subscription
	select {
	case <-s.streamErrs:
	default:
	}

	listenCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- oops.Recover(func() {
			listener.Start(listenCtx)
		})
	}()

	var err error
	select {
	case <-ctx.Done():
		cancel()
		<-done
		return ctx.Err()
	case err = <-s.streamErrs:
		err = stderrors.Join(errors.ErrTransientConnection, err)
	case err = <-done:
		if err == nil {
			err = errors.ErrStreamClosed
		}
		return err
	}

	cancel()
	if panicErr := <-done; panicErr != nil {
		err = stderrors.Join(err, panicErr)
	}
	return err
}

func (s *Supervisor) backoff(ctx context.Context, cooldown time.Duration) bool {
	s.setState(domain.StateBackoff)
	timer := time.NewTimer(cooldown)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (s *Supervisor) stop() error {
	s.setState(domain.StateStopped)
	slog.Info("Mirror supervisor stopped")
	return nil
}

func (s *Supervisor) setState(state domain.State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	s.metrics.SetState(state.String(), domain.StateNames())
}

func (s *Supervisor) recordError(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
	s.lastErrAt = time.Now()
}
