package session

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/kbukum/transcriptkit/accumulator"
	"github.com/kbukum/transcriptkit/errors"
	"github.com/kbukum/transcriptkit/logger"
	"github.com/kbukum/transcriptkit/observability"
)

// Registry manages named accumulator sessions. Safe for concurrent use;
// the per-session single-writer contract still applies to each
// accumulator individually.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*accumulator.Accumulator

	cfg  accumulator.Config
	log  *logger.Logger
	opts []accumulator.Option
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the registry logger. Defaults to the registered
// "session" component logger.
func WithLogger(l *logger.Logger) RegistryOption {
	return func(r *Registry) { r.log = l }
}

// WithAccumulatorOptions forwards options to every accumulator the
// registry constructs, e.g. shared metric instruments.
func WithAccumulatorOptions(opts ...accumulator.Option) RegistryOption {
	return func(r *Registry) { r.opts = opts }
}

// NewRegistry creates a registry whose sessions are built from cfg.
func NewRegistry(cfg accumulator.Config, opts ...RegistryOption) *Registry {
	r := &Registry{
		sessions: make(map[string]*accumulator.Accumulator),
		cfg:      cfg,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.Get("session")
	}
	return r
}

// Open creates a new session. An empty id is assigned a fresh UUID.
// Opening an existing id is an ALREADY_EXISTS error; sessions are
// explicit, never silently recreated.
func (r *Registry) Open(ctx context.Context, id string) (*accumulator.Accumulator, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanSessionOpen)
	defer span.End()

	if id == "" {
		id = uuid.NewString()
	}
	observability.SetSpanAttribute(ctx, observability.AttrSessionID, id)

	acc, err := accumulator.New(r.cfg, r.accOptions(id)...)
	if err != nil {
		observability.SetSpanError(ctx, err)
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; ok {
		err := errors.AlreadyExists("session", id)
		observability.SetSpanError(ctx, err)
		return nil, err
	}
	r.sessions[id] = acc
	r.log.Info("session opened", logger.Fields(logger.FieldSessionID, id))
	return acc, nil
}

// Get returns the session for id, if open.
func (r *Registry) Get(id string) (*accumulator.Accumulator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	acc, ok := r.sessions[id]
	return acc, ok
}

// Reset clears a session's state in place, keeping it open.
func (r *Registry) Reset(ctx context.Context, id string) error {
	ctx, span := observability.StartSpan(ctx, observability.SpanSessionReset)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrSessionID, id)

	acc, ok := r.Get(id)
	if !ok {
		err := errors.NotFound("session", id)
		observability.SetSpanError(ctx, err)
		return err
	}
	acc.Reset()
	return nil
}

// Close tears a session down: state is cleared and the id released.
func (r *Registry) Close(ctx context.Context, id string) error {
	ctx, span := observability.StartSpan(ctx, observability.SpanSessionClose)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrSessionID, id)

	r.mu.Lock()
	acc, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	if !ok {
		err := errors.NotFound("session", id)
		observability.SetSpanError(ctx, err)
		return err
	}
	acc.Reset()
	r.log.Info("session closed", logger.Fields(logger.FieldSessionID, id))
	return nil
}

// List returns the open session ids, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) accOptions(id string) []accumulator.Option {
	opts := []accumulator.Option{
		accumulator.WithLogger(r.log.WithComponent("accumulator").WithSession(id)),
	}
	return append(opts, r.opts...)
}
