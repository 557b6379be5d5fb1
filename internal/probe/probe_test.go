package probe

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventgo/internal/apiclient"
	"eventgo/internal/service"
)

type fakeDoer struct {
	mu    sync.Mutex
	calls []apiclient.Request
	resp  *apiclient.Response
	err   error
}

func (f *fakeDoer) Do(_ context.Context, r apiclient.Request) (*apiclient.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r)
	return f.resp, f.err
}

func (f *fakeDoer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeReporter struct {
	mu      sync.Mutex
	results []bool
}

func (r *fakeReporter) ObserveProbe(ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, ok)
}

func TestNewValidatesSchedule(t *testing.T) {
	_, err := New(&fakeDoer{}, Options{})
	assert.Error(t, err)

	_, err = New(&fakeDoer{}, Options{Schedule: "every now and then"})
	assert.Error(t, err)

	_, err = New(nil, Options{Schedule: "*/5 * * * *"})
	assert.Error(t, err)

	m, err := New(&fakeDoer{}, Options{Schedule: "*/5 * * * *", Location: time.UTC})
	require.NoError(t, err)
	next := m.Next(time.Date(2025, 5, 1, 10, 2, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 5, 1, 10, 5, 0, 0, time.UTC), next)
}

func TestCheckReachable(t *testing.T) {
	doer := &fakeDoer{resp: &apiclient.Response{Status: 200}}
	rep := &fakeReporter{}
	m, err := New(doer, Options{Schedule: "@every 1h", Path: "/events", Reporter: rep})
	require.NoError(t, err)

	assert.Zero(t, m.Status().Checks)
	st := m.Check(context.Background())

	assert.True(t, st.Reachable)
	assert.Equal(t, 200, st.StatusCode)
	assert.Equal(t, 1, m.Status().Checks)
	assert.Equal(t, "/events", doer.calls[0].Path)
	assert.Equal(t, []bool{true}, rep.results)
}

func TestCheckErrorStatusStillReachable(t *testing.T) {
	doer := &fakeDoer{err: &apiclient.ResponseError{Status: 503}}
	m, err := New(doer, Options{Schedule: "@every 1h"})
	require.NoError(t, err)

	st := m.Check(context.Background())
	assert.True(t, st.Reachable)
	assert.Equal(t, 503, st.StatusCode)
	assert.Empty(t, st.Error)
}

func TestCheckUnreachableRecordsNormalizedError(t *testing.T) {
	doer := &fakeDoer{err: &apiclient.NoResponseError{Method: "GET", Err: errors.New("dial tcp: connection refused")}}
	rep := &fakeReporter{}
	m, err := New(doer, Options{Schedule: "@every 1h", Reporter: rep})
	require.NoError(t, err)

	m.Check(context.Background())
	st := m.Check(context.Background())

	assert.False(t, st.Reachable)
	assert.Equal(t, service.NoResponseMessage, st.Error)
	assert.Equal(t, 2, m.Status().Checks)
	assert.Equal(t, []bool{false, false}, rep.results)
}

func TestStartRunsImmediatelyAndStops(t *testing.T) {
	doer := &fakeDoer{resp: &apiclient.Response{Status: 204}}
	m, err := New(doer, Options{Schedule: "@every 1h"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, m.Start(ctx))
	assert.Error(t, m.Start(ctx), "second start must fail")

	assert.Eventually(t, func() bool { return doer.count() == 1 }, 2*time.Second, 10*time.Millisecond)
	m.Stop()
	m.Stop()
}

// blockingDoer holds every request until its context ends.
type blockingDoer struct {
	started  chan struct{}
	returned chan error
}

func (b *blockingDoer) Do(ctx context.Context, _ apiclient.Request) (*apiclient.Response, error) {
	b.started <- struct{}{}
	<-ctx.Done()
	b.returned <- ctx.Err()
	return nil, ctx.Err()
}

func TestStopWaitsForFirstCheck(t *testing.T) {
	doer := &blockingDoer{started: make(chan struct{}, 1), returned: make(chan error, 1)}
	m, err := New(doer, Options{Schedule: "@every 1h"})
	require.NoError(t, err)

	require.NoError(t, m.Start(context.Background()))
	select {
	case <-doer.started:
	case <-time.After(2 * time.Second):
		t.Fatal("first check did not start")
	}

	stopped := make(chan struct{})
	go func() {
		m.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("stop did not return")
	}

	// Stop returned only after the check saw the cancellation.
	select {
	case err := <-doer.returned:
		assert.ErrorIs(t, err, context.Canceled)
	default:
		t.Fatal("check still running after stop")
	}
	assert.Equal(t, 1, m.Status().Checks)
}

func TestRestartAfterStop(t *testing.T) {
	doer := &fakeDoer{resp: &apiclient.Response{Status: 200}}
	m, err := New(doer, Options{Schedule: "@every 1h"})
	require.NoError(t, err)

	require.NoError(t, m.Start(context.Background()))
	m.Stop()
	require.Equal(t, 1, doer.count())

	require.NoError(t, m.Start(context.Background()))
	defer m.Stop()
	assert.Eventually(t, func() bool { return doer.count() == 2 }, 2*time.Second, 10*time.Millisecond)

	// The first run's watcher must leave the second run alone.
	time.Sleep(50 * time.Millisecond)
	m.cronMu.Lock()
	running := m.cron != nil
	m.cronMu.Unlock()
	assert.True(t, running)
}
