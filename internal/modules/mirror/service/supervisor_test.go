package service

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	albumService "github.com/reshetovitsme/channel-mirror/internal/modules/album/service"
	channelDomain "github.com/reshetovitsme/channel-mirror/internal/modules/channel/domain"
	"github.com/reshetovitsme/channel-mirror/internal/modules/mirror/domain"
	"github.com/reshetovitsme/channel-mirror/internal/shared/errors"
	"github.com/reshetovitsme/channel-mirror/internal/shared/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	mu    sync.Mutex
	errs  []error
	calls []time.Time
}

func (f *fakeResolver) ResolvePair(_ context.Context, _, _ string) (channelDomain.ChannelIdentity, channelDomain.ChannelIdentity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, time.Now())
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return channelDomain.ChannelIdentity{}, channelDomain.ChannelIdentity{}, err
	}
	return sourceChannel, targetChannel, nil
}

func (f *fakeResolver) callTimes() []time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Time(nil), f.calls...)
}

type fakeListener struct {
	starts     atomic.Int32
	active     atomic.Int32
	maxActive  atomic.Int32
	panicFirst bool
	returnNow  bool
}

func (f *fakeListener) Start(ctx context.Context) {
	n := f.active.Add(1)
	defer f.active.Add(-1)
	for {
		peak := f.maxActive.Load()
		if n <= peak || f.maxActive.CompareAndSwap(peak, n) {
			break
		}
	}

	if f.starts.Add(1) == 1 {
		if f.panicFirst {
			panic("listener exploded")
		}
		if f.returnNow {
			return
		}
	}
	<-ctx.Done()
}

type fixedStreak int64

func (f fixedStreak) PermissionStreak() int64 { return int64(f) }

func newTestSupervisor(t *testing.T, resolver Resolver, listener Listener, opts Options) *Supervisor {
	t.Helper()
	p, err := NewPipeline(&fakeRelayer{}, albumService.New(time.Hour, nil), nil, nil, channelDomain.EditPolicyCopy, 16)
	require.NoError(t, err)

	s := NewSupervisor(opts, resolver, p, metrics.New())
	if listener != nil {
		s.SetListener(listener)
	}
	return s
}

func runSupervisor(t *testing.T, s *Supervisor) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestSupervisor_ConfigurationFailureRetriesAfterConfigCooldown(t *testing.T) {
	resolver := &fakeResolver{errs: []error{stderrors.Join(errors.ErrInvalidReference, stderrors.New("chat not found"))}}
	listener := &fakeListener{}
	s := newTestSupervisor(t, resolver, listener, Options{
		TransientCooldown: time.Millisecond,
		ConfigCooldown:    60 * time.Millisecond,
	})

	runSupervisor(t, s)

	require.Eventually(t, func() bool { return s.State() == domain.StateBackoff }, time.Second, time.Millisecond)
	status := s.Status()
	assert.Contains(t, status.LastError, "chat not found")
	assert.NotNil(t, status.LastErrorAt)

	require.Eventually(t, func() bool { return listener.starts.Load() == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, domain.StateListening, s.State())

	calls := resolver.callTimes()
	require.Len(t, calls, 2)
	assert.GreaterOrEqual(t, calls[1].Sub(calls[0]), 60*time.Millisecond)
	assert.Equal(t, int64(1), s.Status().Restarts)
}

func TestSupervisor_TransientFailureUsesShortCooldown(t *testing.T) {
	resolver := &fakeResolver{errs: []error{
		stderrors.Join(errors.ErrTransientConnection, stderrors.New("timeout")),
		stderrors.Join(errors.ErrTransientConnection, stderrors.New("timeout")),
	}}
	listener := &fakeListener{}
	s := newTestSupervisor(t, resolver, listener, Options{
		TransientCooldown: 5 * time.Millisecond,
		ConfigCooldown:    time.Hour,
	})

	runSupervisor(t, s)

	require.Eventually(t, func() bool { return listener.starts.Load() == 1 }, time.Second, time.Millisecond)
	assert.Len(t, resolver.callTimes(), 3)
}

func TestSupervisor_StreamErrorRestartsWithSingleSubscription(t *testing.T) {
	resolver := &fakeResolver{}
	listener := &fakeListener{}
	s := newTestSupervisor(t, resolver, listener, Options{
		TransientCooldown: 5 * time.Millisecond,
		ConfigCooldown:    time.Hour,
	})

	runSupervisor(t, s)

	require.Eventually(t, func() bool { return listener.starts.Load() == 1 }, time.Second, time.Millisecond)
	s.ReportStreamError(stderrors.New("connection reset"))

	require.Eventually(t, func() bool { return listener.starts.Load() == 2 }, time.Second, time.Millisecond)
	s.ReportStreamError(stderrors.New("connection reset again"))

	require.Eventually(t, func() bool { return listener.starts.Load() == 3 }, time.Second, time.Millisecond)

	assert.Equal(t, int32(1), listener.maxActive.Load())
	assert.Len(t, resolver.callTimes(), 3)
	assert.GreaterOrEqual(t, s.Status().Restarts, int64(2))
	assert.Contains(t, s.Status().LastError, "connection reset again")
}

func TestSupervisor_IgnoresCancellationAndNilStreamErrors(t *testing.T) {
	s := newTestSupervisor(t, &fakeResolver{}, nil, Options{})

	s.ReportStreamError(nil)
	s.ReportStreamError(context.Canceled)

	assert.Empty(t, s.streamErrs)
}

func TestSupervisor_ListenerPanicIsRecovered(t *testing.T) {
	listener := &fakeListener{panicFirst: true}
	s := newTestSupervisor(t, &fakeResolver{}, listener, Options{
		TransientCooldown: time.Millisecond,
		ConfigCooldown:    time.Hour,
	})

	runSupervisor(t, s)

	require.Eventually(t, func() bool {
		return listener.starts.Load() == 2 && s.State() == domain.StateListening
	}, time.Second, time.Millisecond)
	assert.Contains(t, s.Status().LastError, "listener exploded")
}

func TestSupervisor_ClosedStreamRestarts(t *testing.T) {
	listener := &fakeListener{returnNow: true}
	s := newTestSupervisor(t, &fakeResolver{}, listener, Options{
		TransientCooldown: time.Millisecond,
		ConfigCooldown:    time.Hour,
	})

	runSupervisor(t, s)

	require.Eventually(t, func() bool { return listener.starts.Load() == 2 }, time.Second, time.Millisecond)
	assert.Contains(t, s.Status().LastError, errors.ErrStreamClosed.Error())
}

func TestSupervisor_CancelStops(t *testing.T) {
	listener := &fakeListener{}
	s := newTestSupervisor(t, &fakeResolver{}, listener, Options{})
	s.SetPermissionReporter(fixedStreak(3))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	require.Eventually(t, func() bool { return listener.starts.Load() == 1 }, time.Second, time.Millisecond)

	status := s.Status()
	require.NotNil(t, status.Source)
	require.NotNil(t, status.Target)
	assert.Equal(t, sourceChannel.ID, status.Source.ID)
	assert.Equal(t, targetChannel.ID, status.Target.ID)
	assert.Equal(t, int64(3), status.PermissionStreak)
	assert.NotEmpty(t, status.CycleID)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("supervisor did not stop")
	}
	assert.Equal(t, domain.StateStopped, s.State())
	assert.Equal(t, int32(0), listener.active.Load())
}

func TestSupervisor_CancelDuringBackoffStops(t *testing.T) {
	resolver := &fakeResolver{errs: []error{errors.ErrAccessDenied}}
	s := newTestSupervisor(t, resolver, &fakeListener{}, Options{ConfigCooldown: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return s.State() == domain.StateBackoff }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("supervisor did not stop")
	}
	assert.Equal(t, domain.StateStopped, s.State())
}

func TestSupervisor_RunTwiceIsRejected(t *testing.T) {
	listener := &fakeListener{}
	s := newTestSupervisor(t, &fakeResolver{}, listener, Options{})

	runSupervisor(t, s)
	require.Eventually(t, func() bool { return listener.starts.Load() == 1 }, time.Second, time.Millisecond)

	assert.Error(t, s.Run(context.Background()))
}
