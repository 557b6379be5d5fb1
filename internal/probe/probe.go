// Package probe periodically checks that the EventGo backend answers.
package probe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"eventgo/internal/apiclient"
	appLog "eventgo/internal/log"
	"eventgo/internal/service"
)

// Reporter receives every probe result.
type Reporter interface {
	ObserveProbe(reachable bool)
}

// Status is the outcome of the most recent check.
type Status struct {
	Reachable  bool          `json:"reachable"`
	StatusCode int           `json:"status_code,omitempty"`
	Latency    time.Duration `json:"latency_ns"`
	CheckedAt  time.Time     `json:"checked_at"`
	Error      string        `json:"error,omitempty"`
	Checks     int           `json:"checks"`
}

// Options configures a Monitor.
type Options struct {
	// Schedule is a standard 5-field cron expression, e.g. "*/5 * * * *".
	Schedule string
	// Path is requested relative to the backend base URL.
	Path     string
	Timeout  time.Duration
	Location *time.Location
	Reporter Reporter
}

// Monitor runs the backend probe on a cron schedule and keeps the last
// status.
type Monitor struct {
	doer     service.Doer
	opts     Options
	schedule cron.Schedule

	mu     sync.RWMutex
	status Status

	cronMu sync.Mutex
	cron   *cron.Cron
	cancel context.CancelFunc
	// first tracks the check Start runs before the schedule takes over.
	first sync.WaitGroup
}

// New validates the options and returns an idle monitor.
func New(doer service.Doer, opts Options) (*Monitor, error) {
	if doer == nil {
		return nil, errors.New("probe: nil transport")
	}
	if opts.Schedule == "" {
		return nil, errors.New("probe: empty schedule")
	}
	sched, err := cron.ParseStandard(opts.Schedule)
	if err != nil {
		return nil, fmt.Errorf("probe: parse schedule %q: %w", opts.Schedule, err)
	}
	if opts.Path == "" {
		opts.Path = "/"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Monitor{doer: doer, opts: opts, schedule: sched}, nil
}

// Check probes the backend once. Any HTTP answer, error statuses included,
// counts as reachable.
func (m *Monitor) Check(ctx context.Context) Status {
	ctx, cancel := context.WithTimeout(ctx, m.opts.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := m.doer.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: m.opts.Path})
	st := Status{Latency: time.Since(start), CheckedAt: start}

	var respErr *apiclient.ResponseError
	switch {
	case err == nil:
		st.Reachable = true
		st.StatusCode = resp.Status
	case errors.As(err, &respErr):
		st.Reachable = true
		st.StatusCode = respErr.Status
	default:
		st.Error = service.Normalize(err).Error()
	}

	m.mu.Lock()
	st.Checks = m.status.Checks + 1
	m.status = st
	m.mu.Unlock()

	if m.opts.Reporter != nil {
		m.opts.Reporter.ObserveProbe(st.Reachable)
	}
	if st.Reachable {
		appLog.Debug("backend probe ok", "status", st.StatusCode, "latency", st.Latency)
	} else {
		appLog.Error("backend probe failed", err, "path", m.opts.Path)
	}
	return st
}

// Status returns the last recorded status. Checks is zero until the first
// probe ran.
func (m *Monitor) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Next reports when the schedule fires next after t.
func (m *Monitor) Next(t time.Time) time.Time {
	return m.schedule.Next(t.In(m.opts.Location))
}

// Start runs one check immediately, then follows the schedule until ctx is
// cancelled or Stop is called.
func (m *Monitor) Start(ctx context.Context) error {
	m.cronMu.Lock()
	defer m.cronMu.Unlock()
	if m.cron != nil {
		return errors.New("probe: already started")
	}

	runCtx, cancel := context.WithCancel(ctx)
	c := cron.New(cron.WithLocation(m.opts.Location))
	c.Schedule(m.schedule, cron.FuncJob(func() {
		m.Check(runCtx)
	}))
	m.cron = c
	m.cancel = cancel

	m.first.Add(1)
	go func() {
		defer m.first.Done()
		m.Check(runCtx)
	}()
	c.Start()
	appLog.Info("backend probe scheduled", "schedule", m.opts.Schedule, "path", m.opts.Path)

	// Ends with Stop as well, which cancels runCtx.
	go func() {
		<-runCtx.Done()
		m.stop(c)
	}()
	return nil
}

// Stop halts the schedule, cancels checks in flight and waits for them to
// return.
func (m *Monitor) Stop() { m.stop(nil) }

// stop ends the current run. A non-nil only limits it to that run.
func (m *Monitor) stop(only *cron.Cron) {
	m.cronMu.Lock()
	c, cancel := m.cron, m.cancel
	if c == nil || (only != nil && c != only) {
		m.cronMu.Unlock()
		return
	}
	m.cron, m.cancel = nil, nil
	m.cronMu.Unlock()

	cancel()
	<-c.Stop().Done()
	m.first.Wait()
}
