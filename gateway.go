package main

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"i4.energy/across/fonagw/fona"
)

// SendRequest is the JSON payload accepted over HTTP and MQTT.
type SendRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"` // optional caller-supplied id
}

// JobState is the delivery state of a queued message.
type JobState string

const (
	JobQueued JobState = "queued"
	JobSent   JobState = "sent"
	JobFailed JobState = "failed"
)

// JobStatus is the externally visible status of a queued message.
type JobStatus struct {
	ID       string    `json:"id"`
	To       string    `json:"to"`
	State    JobState  `json:"state"`
	Attempts int       `json:"attempts"`
	Error    string    `json:"error,omitempty"`
	Updated  time.Time `json:"updated"`
}

type job struct {
	req      SendRequest
	attempts int
}

// Gateway queues send requests and delivers them through the modem
// session. All session access is serialized through the single Run
// goroutine; the session itself is not safe for concurrent use.
type Gateway struct {
	logger  *slog.Logger
	session *fona.Session
	config  *Config

	jobs   chan job
	status *xsync.MapOf[string, JobStatus]
	limit  *Rate
}

func NewGateway(config *Config, session *fona.Session, logger *slog.Logger) *Gateway {
	return &Gateway{
		logger:  logger,
		session: session,
		config:  config,
		jobs:    make(chan job, 1024),
		status:  xsync.NewMapOf[string, JobStatus](),
		limit:   NewRate(config.RatePerMin),
	}
}

// Enqueue queues a send request and returns its job id.
func (g *Gateway) Enqueue(req SendRequest) string {
	if req.ID == "" {
		h := sha1.Sum(fmt.Appendf(nil, "%s|%s|%d", req.To, req.Message, time.Now().UnixNano()))
		req.ID = hex.EncodeToString(h[:8])
	}
	g.setStatus(req.ID, req.To, JobQueued, 0, "")
	g.jobs <- job{req: req}
	return req.ID
}

// Status reports the delivery status of a previously queued message.
func (g *Gateway) Status(id string) (JobStatus, bool) {
	return g.status.Load(id)
}

// SessionState exposes the modem session state for health reporting.
func (g *Gateway) SessionState() fona.State {
	return g.session.State()
}

// Run processes queued messages until the context is cancelled.
func (g *Gateway) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-g.jobs:
			if !g.limit.Allow() {
				time.Sleep(2 * time.Second)
				g.requeue(ctx, j)
				continue
			}
			g.deliver(ctx, j)
		}
	}
}

func (g *Gateway) deliver(ctx context.Context, j job) {
	j.attempts++

	sent, err := g.session.Send(j.req.To, j.req.Message)
	switch {
	case err != nil:
		// Fatal protocol error: the session is terminal. Tear it down
		// and bring up a fresh link before retrying.
		g.logger.Error("session entered error state", "error", err, "id", j.req.ID)
		g.reestablish()
		g.retryOrFail(ctx, j, err.Error())
	case !sent:
		g.retryOrFail(ctx, j, g.session.LastError())
	default:
		g.setStatus(j.req.ID, j.req.To, JobSent, j.attempts, "")
		g.logger.Info("sms sent", "id", j.req.ID, "to", j.req.To)
	}
}

func (g *Gateway) retryOrFail(ctx context.Context, j job, reason string) {
	if j.attempts >= g.config.MaxRetries {
		g.setStatus(j.req.ID, j.req.To, JobFailed, j.attempts, reason)
		g.logger.Error("send permanently failed", "id", j.req.ID, "to", j.req.To, "reason", reason)
		return
	}

	backoff := time.Duration(800+rand.IntN(600)) * time.Millisecond
	g.logger.Warn("send failed, retrying", "id", j.req.ID, "reason", reason, "backoff", backoff)
	time.Sleep(backoff)

	g.setStatus(j.req.ID, j.req.To, JobQueued, j.attempts, reason)
	g.requeue(ctx, j)
}

func (g *Gateway) requeue(ctx context.Context, j job) {
	select {
	case g.jobs <- j:
	case <-ctx.Done():
	}
}

// reestablish is the only recovery from a terminal session error:
// explicit teardown followed by a fresh open/connect cycle.
func (g *Gateway) reestablish() {
	if err := g.session.Close(); err != nil {
		g.logger.Warn("close after fatal error", "error", err)
	}
	if err := g.session.Establish(); err != nil {
		g.logger.Error("failed to re-establish modem session",
			"error", err,
			"state", g.session.State(),
			"last_error", g.session.LastError())
	}
}

func (g *Gateway) setStatus(id, to string, state JobState, attempts int, reason string) {
	g.status.Store(id, JobStatus{
		ID:       id,
		To:       to,
		State:    state,
		Attempts: attempts,
		Error:    reason,
		Updated:  time.Now(),
	})
}

// Rate is a sliding one-minute window rate limiter.
type Rate struct {
	mu  sync.Mutex
	cap int
	win []time.Time
}

func NewRate(nPerMin int) *Rate { return &Rate{cap: nPerMin} }

func (r *Rate) Allow() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	cut := now.Add(-1 * time.Minute)
	var kept []time.Time
	for _, t := range r.win {
		if t.After(cut) {
			kept = append(kept, t)
		}
	}
	r.win = kept

	if len(r.win) >= r.cap {
		return false
	}
	r.win = append(r.win, now)
	return true
}
