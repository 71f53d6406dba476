// Package worker hosts voice agent processes. An application supplies an
// entrypoint that wires personas to a live platform session; the worker owns
// everything around it: configuration, logging, token minting, the websocket
// connection, signal handling and shutdown callbacks. The CLI exposes a `dev`
// command (text logs, debug level) and a `start` command for production.
package worker

import (
	"context"
	"fmt"
	"sync"

	"github.com/voxmesh/voxmesh/config"
	"github.com/voxmesh/voxmesh/logging"
	"github.com/voxmesh/voxmesh/realtime"
)

// EntrypointFunc is the application body run for each job.
type EntrypointFunc func(job *JobContext) error

// PrewarmFunc runs once at process start, before any job, to load slow
// resources (model warmup, inventories).
type PrewarmFunc func(cfg *config.Config) error

// Options configure a worker process.
type Options struct {
	// AgentName identifies the worker; it becomes the CLI binary's Use
	// string and the platform participant identity prefix.
	AgentName string
	// Entrypoint is required.
	Entrypoint EntrypointFunc
	// Prewarm is optional.
	Prewarm PrewarmFunc
}

// JobContext carries everything an entrypoint needs for one live session.
type JobContext struct {
	ctx     context.Context
	room    string
	session *realtime.LiveSession
	logger  *logging.VoxLogger
	cfg     *config.Config

	mu        sync.Mutex
	callbacks []func()
}

// NewJobContext assembles a job context. Exposed for tests and custom hosts;
// the CLI builds one per connection.
func NewJobContext(ctx context.Context, room string, session *realtime.LiveSession, logger *logging.VoxLogger, cfg *config.Config) *JobContext {
	if logger == nil {
		logger = logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
	}
	return &JobContext{
		ctx:     ctx,
		room:    room,
		session: session,
		logger:  logger.WithFields(map[string]any{"room": room}),
		cfg:     cfg,
	}
}

// Context returns the job's cancellation context.
func (j *JobContext) Context() context.Context { return j.ctx }

// Room returns the platform room this job serves.
func (j *JobContext) Room() string { return j.room }

// Session returns the live platform session, nil when running detached.
func (j *JobContext) Session() *realtime.LiveSession { return j.session }

// Logger returns the job-scoped logger with room fields bound.
func (j *JobContext) Logger() *logging.VoxLogger { return j.logger }

// Config returns the worker configuration.
func (j *JobContext) Config() *config.Config { return j.cfg }

// AddShutdownCallback registers a function run when the job ends. Callbacks
// run in reverse registration order, like defers.
func (j *JobContext) AddShutdownCallback(fn func()) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.callbacks = append(j.callbacks, fn)
}

// Shutdown runs the registered callbacks and closes the session.
func (j *JobContext) Shutdown() {
	j.mu.Lock()
	callbacks := j.callbacks
	j.callbacks = nil
	j.mu.Unlock()

	for i := len(callbacks) - 1; i >= 0; i-- {
		callbacks[i]()
	}

	if j.session != nil {
		if err := j.session.Close(); err != nil {
			j.logger.Warn("worker.session.close_failed", "error", err)
		}
	}
}

// WaitForParticipant blocks until a participant joins the room, the platform
// ends the session or the context is cancelled. Non-join events received
// while waiting are discarded.
func (j *JobContext) WaitForParticipant(ctx context.Context) (realtime.ParticipantJoinedEvent, error) {
	if j.session == nil {
		return realtime.ParticipantJoinedEvent{}, fmt.Errorf("no live session attached")
	}

	for {
		select {
		case <-ctx.Done():
			return realtime.ParticipantJoinedEvent{}, ctx.Err()
		case ev, ok := <-j.session.Events():
			if !ok {
				return realtime.ParticipantJoinedEvent{}, fmt.Errorf("session closed while waiting for participant")
			}
			switch e := ev.(type) {
			case realtime.ParticipantJoinedEvent:
				j.logger.Info("worker.participant.joined", "identity", e.Identity)
				return e, nil
			case realtime.SessionEndedEvent:
				return realtime.ParticipantJoinedEvent{}, fmt.Errorf("session ended: %s", e.Reason)
			}
		}
	}
}

// RunJob dials the platform, builds a job context and runs the entrypoint.
// It always runs shutdown callbacks, even when the entrypoint fails.
func RunJob(ctx context.Context, cfg *config.Config, logger *logging.VoxLogger, room string, opts Options) error {
	if opts.Entrypoint == nil {
		return fmt.Errorf("entrypoint is required")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if logger == nil {
		logger = logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
	}

	identity := opts.AgentName
	if identity == "" {
		identity = "voxmesh-agent"
	}

	token, err := realtime.NewAccessToken(cfg.Platform.APIKey, cfg.Platform.APISecret).
		SetIdentity(identity).
		SetGrant(realtime.RoomGrant{
			Room:         room,
			RoomJoin:     true,
			CanPublish:   true,
			CanSubscribe: true,
			AgentRole:    "assistant",
		}).
		ToJWT()
	if err != nil {
		return fmt.Errorf("failed to mint access token: %w", err)
	}

	session, err := realtime.Dial(ctx, cfg.Platform.URL, realtime.DialOptions{
		Room:     room,
		Identity: identity,
		Token:    token,
	})
	if err != nil {
		return fmt.Errorf("failed to join platform: %w", err)
	}

	job := NewJobContext(ctx, room, session, logger, cfg)
	defer job.Shutdown()

	logger.Info("worker.job.start", "room", room, "identity", identity)

	if err := opts.Entrypoint(job); err != nil {
		return fmt.Errorf("entrypoint failed: %w", err)
	}

	return nil
}
