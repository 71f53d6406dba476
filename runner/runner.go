package runner

import (
	"context"
	"fmt"
	"sync"

	"github.com/voxmesh/voxmesh/artifact"
	"github.com/voxmesh/voxmesh/core"
	"github.com/voxmesh/voxmesh/logging"
	"github.com/voxmesh/voxmesh/memory"
	"github.com/voxmesh/voxmesh/session"
)

// stateKeyActiveAgent remembers which persona the conversation last reached so
// follow-up turns resume with it instead of the root persona.
const stateKeyActiveAgent = "active_agent"

// handoffHistoryWindow is the number of trailing conversational messages the
// target persona sees on its first request after a transfer.
const handoffHistoryWindow = 6

// greeter is implemented by personas that speak an entry line when they take
// over the session.
type greeter interface {
	GreetingInstruction(runCtx *core.RunContext) (string, bool, error)
}

// Options holds dependency and configuration overrides passed to New().
type Options struct {
	// EventBufferSize sets channel buffering for events.
	EventBufferSize int
	// MaxModelCalls limits the number of model calls per run. Zero means
	// unlimited.
	MaxModelCalls int
	// MaxHandoffs bounds persona transfers within a single run so two
	// personas bouncing a caller back and forth cannot loop forever.
	MaxHandoffs int
	// UserDataFactory builds the shared per-session user data container.
	// The same container is reused for every run of a session.
	UserDataFactory func(sessionID string) any
	// Session management services.
	SessionStore core.SessionStore
	// Artifact management services.
	ArtifactStore core.ArtifactStore
	// Memory management services.
	MemoryStore core.MemoryStore
	// UsageRecorder receives tool call and handoff counters. Nil disables
	// collection.
	UsageRecorder core.UsageRecorder
	// Logging services.
	Logger logging.Logger
}

// Runner coordinates persona execution for one agent tree: it resolves the
// active persona, creates run contexts, streams events, applies side effects,
// persists history and orchestrates handoffs. Public methods are safe for
// concurrent use.
type Runner struct {
	root core.Agent

	eventBufferSize int
	maxModelCalls   int
	maxHandoffs     int
	userDataFactory func(sessionID string) any

	sessionStore  core.SessionStore
	artifactStore core.ArtifactStore
	memoryStore   core.MemoryStore
	usageRecorder core.UsageRecorder
	logger        logging.Logger

	activeRuns map[string]context.CancelFunc
	userData   map[string]any
	mu         sync.Mutex
}

// New constructs a Runner for the given root persona with optional overrides.
func New(root core.Agent, optFns ...func(o *Options)) *Runner {
	opts := Options{
		EventBufferSize: 100,
		MaxModelCalls:   100,
		MaxHandoffs:     10,
		SessionStore:    session.NewInMemoryStore(),
		ArtifactStore:   artifact.NewInMemoryStore(),
		MemoryStore:     memory.NewInMemoryStore(),
		Logger:          logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Runner{
		root:            root,
		eventBufferSize: opts.EventBufferSize,
		maxModelCalls:   opts.MaxModelCalls,
		maxHandoffs:     opts.MaxHandoffs,
		userDataFactory: opts.UserDataFactory,
		sessionStore:    opts.SessionStore,
		artifactStore:   opts.ArtifactStore,
		memoryStore:     opts.MemoryStore,
		usageRecorder:   opts.UsageRecorder,
		logger:          opts.Logger,
		activeRuns:      make(map[string]context.CancelFunc),
		userData:        make(map[string]any),
	}
}

// WithStores overrides the persistence backends in one call.
func WithStores(sessions core.SessionStore, artifacts core.ArtifactStore, memories core.MemoryStore) func(o *Options) {
	return func(o *Options) {
		if sessions != nil {
			o.SessionStore = sessions
		}
		if artifacts != nil {
			o.ArtifactStore = artifacts
		}
		if memories != nil {
			o.MemoryStore = memories
		}
	}
}

// WithLogger overrides the runner's logger.
func WithLogger(logger logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = logger }
}

// WithUserDataFactory sets the builder for per-session shared user data.
func WithUserDataFactory(factory func(sessionID string) any) func(o *Options) {
	return func(o *Options) { o.UserDataFactory = factory }
}

// WithMaxModelCalls bounds model calls per run.
func WithMaxModelCalls(n int) func(o *Options) {
	return func(o *Options) { o.MaxModelCalls = n }
}

// WithUsageRecorder feeds tool call and handoff counters to the recorder.
func WithUsageRecorder(rec core.UsageRecorder) func(o *Options) {
	return func(o *Options) { o.UsageRecorder = rec }
}

// SessionStore exposes the configured session backend.
func (r *Runner) SessionStore() core.SessionStore { return r.sessionStore }

// UserData returns the shared user data container for the session, building it
// on first use when a factory is configured.
func (r *Runner) UserData(sessionID string) any {
	if r.userDataFactory == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if data, ok := r.userData[sessionID]; ok {
		return data
	}
	data := r.userDataFactory(sessionID)
	r.userData[sessionID] = data
	return data
}

// Run starts an asynchronous run for the session with the given user turn.
// It returns the run id, an ordered event stream (closed on completion) and a
// terminal error channel (at most one error, then closed).
func (r *Runner) Run(
	ctx context.Context,
	sessionID string,
	userContent core.Content,
) (string, <-chan core.Event, <-chan error, error) {
	sess, err := r.sessionStore.Get(sessionID)
	if err != nil {
		return "", nil, nil, fmt.Errorf("failed to get session: %w", err)
	}

	runID := core.NewID()
	firstTurn := len(sess.GetEvents()) == 0

	eventsCh := make(chan core.Event, r.eventBufferSize)
	errorsCh := make(chan error, 1)
	agentEmit := make(chan core.Event, r.eventBufferSize)
	resumeCh := make(chan struct{}, 1)

	ctx, cancel := context.WithCancel(ctx)
	r.mu.Lock()
	r.activeRuns[runID] = cancel
	r.mu.Unlock()

	active := r.resolveActiveAgent(sess)

	runCtx := core.NewRunContext(ctx, core.RunContextConfig{
		SessionID:     sessionID,
		RunID:         runID,
		Agent:         core.AgentInfo{Name: active.Name(), Type: "persona"},
		UserContent:   userContent,
		UserData:      r.UserData(sessionID),
		MaxModelCalls: r.maxModelCalls,
		Emit:          agentEmit,
		Resume:        resumeCh,
		Session:       sess,
		SessionStore:  r.sessionStore,
		ArtifactStore: r.artifactStore,
		MemoryStore:   r.memoryStore,
		Usage:         r.usageRecorder,
		Logger:        r.logger,
	})

	userEvent := core.NewUserContentEvent(runID, &userContent)
	if err := r.sessionStore.AppendEvent(sessionID, userEvent); err != nil {
		cancel()
		r.mu.Lock()
		delete(r.activeRuns, runID)
		r.mu.Unlock()
		return "", nil, nil, fmt.Errorf("failed to append user event: %w", err)
	}

	go func() {
		defer func() {
			close(agentEmit)
			r.mu.Lock()
			delete(r.activeRuns, runID)
			r.mu.Unlock()
		}()

		if err := r.runWithHandoffs(runCtx, active, firstTurn); err != nil {
			select {
			case <-runCtx.Done():
				return
			case errorsCh <- fmt.Errorf("agent execution failed: %w", err):
			}
		}
	}()

	go func() {
		defer func() { close(eventsCh); close(errorsCh) }()

		r.processEvents(runCtx, sessionID, agentEmit, resumeCh, eventsCh, errorsCh)
	}()

	return runID, eventsCh, errorsCh, nil
}

// Cancel requests cooperative termination of an in-flight run.
func (r *Runner) Cancel(runID string) error {
	r.mu.Lock()
	cancel, exists := r.activeRuns[runID]
	r.mu.Unlock()

	if !exists {
		return fmt.Errorf("run %s not found", runID)
	}

	cancel()

	return nil
}

// resolveActiveAgent returns the persona the session last reached, falling
// back to the root persona.
func (r *Runner) resolveActiveAgent(sess *core.Session) core.Agent {
	if sess != nil {
		if name, ok := sess.GetState(stateKeyActiveAgent); ok {
			if nameStr, ok := name.(string); ok && nameStr != "" {
				if found := r.findAgent(nameStr); found != nil {
					return found
				}
				r.logger.Warn("runner.active_agent.unknown", "agent", nameStr)
			}
		}
	}
	return r.root
}

// findAgent looks the name up in the agent tree, root included.
func (r *Runner) findAgent(name string) core.Agent {
	if r.root.Name() == name {
		return r.root
	}
	return r.root.FindAgent(name)
}

// runWithHandoffs executes the active persona and, whenever the turn ends
// with a transfer action, resolves the target and continues the turn with it.
// The model call limiter is shared across hops.
func (r *Runner) runWithHandoffs(runCtx *core.RunContext, active core.Agent, firstTurn bool) error {
	if firstTurn {
		r.applyGreeting(runCtx, active)
	}

	for hop := 0; ; hop++ {
		if hop > r.maxHandoffs {
			return fmt.Errorf("handoff limit reached after %d transfers", r.maxHandoffs)
		}

		if err := r.runAgent(runCtx, active); err != nil {
			return err
		}

		target, err := r.pendingTransfer(runCtx, active)
		if err != nil {
			return err
		}
		if target == nil {
			return nil
		}

		r.logger.Info("runner.handoff",
			"session_id", runCtx.SessionID,
			"from", active.Name(),
			"to", target.Name(),
		)
		if runCtx.Usage != nil {
			runCtx.Usage.RecordHandoff()
		}

		if err := r.sessionStore.ApplyDelta(runCtx.SessionID, map[string]any{
			stateKeyActiveAgent: target.Name(),
		}); err != nil {
			return fmt.Errorf("failed to persist active agent: %w", err)
		}

		runCtx = runCtx.WithAgent(core.AgentInfo{Name: target.Name(), Type: "persona"})
		r.applyGreeting(runCtx, target)
		runCtx.HandoffWindow = handoffHistoryWindow
		active = target
	}
}

// applyGreeting stages the persona's entry instruction (if any) on the run
// context so its first turn introduces the persona.
func (r *Runner) applyGreeting(runCtx *core.RunContext, agent core.Agent) {
	g, ok := agent.(greeter)
	if !ok {
		return
	}

	text, has, err := g.GreetingInstruction(runCtx)
	if err != nil {
		r.logger.Warn("runner.greeting.resolve_failed", "agent", agent.Name(), "error", err)
		return
	}
	if has {
		runCtx.Greeting = text
	}
}

// pendingTransfer reloads the session and inspects the last event for a
// transfer action. Flows stop emitting after a control action and wait for
// resume on every non-partial event, so by the time the agent returns the
// action has been persisted.
func (r *Runner) pendingTransfer(runCtx *core.RunContext, active core.Agent) (core.Agent, error) {
	sess, err := r.sessionStore.Get(runCtx.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload session: %w", err)
	}

	events := sess.GetEvents()
	if len(events) == 0 {
		return nil, nil
	}

	last := events[len(events)-1]
	if last.Actions.TransferToAgent == nil || *last.Actions.TransferToAgent == "" {
		return nil, nil
	}

	name := *last.Actions.TransferToAgent
	target := r.findAgent(name)
	if target == nil {
		return nil, fmt.Errorf("transfer target %q not found", name)
	}
	if target == active {
		return nil, nil
	}

	return target, nil
}

func (r *Runner) runAgent(runCtx *core.RunContext, agent core.Agent) error {
	if err := agent.Start(runCtx); err != nil {
		return err
	}

	defer func() {
		if err := agent.Stop(runCtx); err != nil {
			r.logger.Warn("runner.agent.stop_failed", "agent", agent.Name(), "error", err)
		}
	}()

	return agent.Run(runCtx)
}

func (r *Runner) processEvents(
	runCtx *core.RunContext,
	sessionID string,
	agentEmit <-chan core.Event,
	resumeCh chan<- struct{},
	eventsCh chan<- core.Event,
	errorsCh chan<- error,
) {
	for {
		select {
		case <-runCtx.Done():
			return
		case ev, ok := <-agentEmit:
			if !ok {
				return
			}
			if err := r.applyEventActions(sessionID, ev); err != nil {
				select {
				case <-runCtx.Done():
					return
				case errorsCh <- fmt.Errorf("failed to process event actions: %w", err):
				}
				return
			}
			if !ev.IsPartial() {
				if err := r.sessionStore.AppendEvent(sessionID, ev); err != nil {
					select {
					case <-runCtx.Done():
						return
					case errorsCh <- fmt.Errorf("failed to append event to session: %w", err):
					}
					return
				}
			}
			select {
			case <-runCtx.Done():
				return
			case eventsCh <- ev:
				r.logger.Debug("runner.event.delivered", "event_id", ev.ID, "session_id", sessionID)
			}
			if !ev.IsPartial() {
				select {
				case <-runCtx.Done():
					return
				case resumeCh <- struct{}{}:
				default:
				}
			}
		}
	}
}

func (r *Runner) applyEventActions(sessionID string, ev core.Event) error {
	if len(ev.Actions.StateDelta) > 0 {
		if err := r.sessionStore.ApplyDelta(sessionID, ev.Actions.StateDelta); err != nil {
			return fmt.Errorf("failed to apply state delta: %w", err)
		}
	}

	if len(ev.Actions.ArtifactDelta) > 0 {
		r.logger.Debug("runner.event.artifacts", "session_id", sessionID, "count", len(ev.Actions.ArtifactDelta))
	}

	if ev.Actions.Escalate != nil && *ev.Actions.Escalate {
		r.logger.Info("runner.event.escalate", "session_id", sessionID, "author", ev.Author)
	}

	if ev.Actions.EndSession != nil && *ev.Actions.EndSession {
		r.logger.Info("runner.event.end_session", "session_id", sessionID, "author", ev.Author)
	}

	return nil
}
