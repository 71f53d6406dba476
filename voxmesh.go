// Package voxmesh provides a high-level façade over the runner and service
// abstractions (sessions, artifacts, memory & logging) for building voice
// persona applications. Most applications interact with this package by:
//  1. Creating a VoxMesh via New() with a root persona (optionally overriding
//     default in-memory services)
//  2. Driving turns asynchronously (Run) or synchronously (RunSync / Respond)
//  3. Attaching the conversation to a live platform session (ServeLive)
//
// The façade delegates orchestration to runner.Runner while keeping setup and
// usage ergonomics concise. All defaults are safe for local development and
// testing; production deployments typically supply a Redis session store and
// a structured logger.
package voxmesh

import (
	"bytes"
	"context"
	"fmt"

	"github.com/voxmesh/voxmesh/artifact"
	"github.com/voxmesh/voxmesh/core"
	"github.com/voxmesh/voxmesh/logging"
	"github.com/voxmesh/voxmesh/memory"
	"github.com/voxmesh/voxmesh/realtime"
	"github.com/voxmesh/voxmesh/runner"
	"github.com/voxmesh/voxmesh/session"
	"github.com/voxmesh/voxmesh/speech"
)

// Options configures the VoxMesh instance.
type Options struct {
	// Stores (default to in-memory implementations if not provided).
	SessionStore  core.SessionStore
	ArtifactStore core.ArtifactStore
	MemoryStore   core.MemoryStore

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger

	// UserDataFactory builds the shared per-session user data container that
	// persona tools type-assert to their concrete struct.
	UserDataFactory func(sessionID string) any

	// Synthesizer enables local speech synthesis: replies are rendered to
	// audio and shipped to the room as frames. When nil, ServeLive delegates
	// synthesis to the platform via say frames.
	Synthesizer speech.Synthesizer

	// Recognizer enables local transcription of user_audio frames for rooms
	// where the platform does not transcribe. When nil, such frames are
	// ignored and turns are driven by platform transcripts only.
	Recognizer speech.Recognizer

	// UsageRecorder receives model, tool and handoff counters. Nil disables
	// collection.
	UsageRecorder core.UsageRecorder

	// MaxModelCalls bounds model invocations per turn across handoffs.
	MaxModelCalls int
}

// VoxMesh is the high-level façade aggregating the runner and its services.
type VoxMesh struct {
	root       core.Agent
	runner     *runner.Runner
	logger     logging.Logger
	synth      speech.Synthesizer
	recognizer speech.Recognizer
}

// New creates a new VoxMesh for the given root persona with optional
// overrides. Any unset service is initialized with an in-memory implementation.
func New(root core.Agent, optFns ...func(o *Options)) *VoxMesh {
	opts := Options{
		SessionStore:  session.NewInMemoryStore(),
		ArtifactStore: artifact.NewInMemoryStore(),
		MemoryStore:   memory.NewInMemoryStore(),
		Logger:        logging.NoOpLogger{},
		MaxModelCalls: 100,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	r := runner.New(root,
		runner.WithStores(opts.SessionStore, opts.ArtifactStore, opts.MemoryStore),
		runner.WithLogger(opts.Logger),
		runner.WithMaxModelCalls(opts.MaxModelCalls),
		runner.WithUserDataFactory(opts.UserDataFactory),
		runner.WithUsageRecorder(opts.UsageRecorder),
	)

	return &VoxMesh{
		root:       root,
		runner:     r,
		logger:     opts.Logger,
		synth:      opts.Synthesizer,
		recognizer: opts.Recognizer,
	}
}

// Runner exposes the underlying runner for advanced use.
func (m *VoxMesh) Runner() *runner.Runner { return m.runner }

// Run starts an asynchronous turn returning event & error channels.
func (m *VoxMesh) Run(ctx context.Context, sessionID string, userContent core.Content) (string, <-chan core.Event, <-chan error, error) {
	return m.runner.Run(ctx, sessionID, userContent)
}

// RunSync is a synchronous helper that drains the async channels, accumulates
// events and returns them once the turn completes.
func (m *VoxMesh) RunSync(ctx context.Context, sessionID string, userContent core.Content) ([]core.Event, error) {
	_, eventsCh, errorsCh, err := m.runner.Run(ctx, sessionID, userContent)
	if err != nil {
		return nil, err
	}

	var events []core.Event
	for ev := range eventsCh {
		events = append(events, ev)
	}

	for err := range errorsCh {
		if err != nil {
			return events, err
		}
	}

	return events, nil
}

// TurnResult is the spoken outcome of one conversational turn.
type TurnResult struct {
	// Author is the persona that produced the final reply.
	Author string
	// Text is the reply to synthesize and speak.
	Text string
	// Voice is the synthesizer voice of the replying persona ("" means the
	// session default).
	Voice string
	// EndSession is set when a tool requested a graceful session end.
	EndSession bool
	// Escalated is set when a tool requested escalation.
	Escalated bool
}

// Respond runs one turn for the given user utterance and reduces the event
// stream to the final speakable reply.
func (m *VoxMesh) Respond(ctx context.Context, sessionID, text string) (TurnResult, error) {
	content := core.Content{Role: "user", Parts: []core.Part{core.TextPart{Text: text}}}

	events, err := m.RunSync(ctx, sessionID, content)
	if err != nil {
		return TurnResult{}, err
	}

	var res TurnResult
	for _, ev := range events {
		if ev.ErrorMessage != nil {
			return res, fmt.Errorf("turn failed: %s", *ev.ErrorMessage)
		}
		if ev.Actions.EndSession != nil && *ev.Actions.EndSession {
			res.EndSession = true
		}
		if ev.Actions.Escalate != nil && *ev.Actions.Escalate {
			res.Escalated = true
		}
		if ev.IsPartial() || ev.Content == nil || ev.Content.Role != "assistant" {
			continue
		}
		if t := ev.Content.Text(); t != "" {
			res.Author = ev.Author
			res.Text = t
		}
	}

	res.Voice = m.voiceFor(res.Author)

	return res, nil
}

// voicer is implemented by personas that carry a synthesizer voice.
type voicer interface {
	Voice() string
}

func (m *VoxMesh) voiceFor(author string) string {
	if author == "" {
		return ""
	}

	a := m.root
	if a.Name() != author {
		a = a.FindAgent(author)
	}
	if a == nil {
		return ""
	}

	if v, ok := a.(voicer); ok {
		return v.Voice()
	}

	return ""
}

// audioFrameSize bounds one outbound audio frame payload.
const audioFrameSize = 32 * 1024

// liveConn is the outbound surface of a live session used to deliver replies.
type liveConn interface {
	Say(text, voice string) error
	SendAudioFrame(frame realtime.AudioFrame) error
	EndSession() error
}

// speak delivers the reply to the room, either as a say frame for platform
// synthesis or as locally rendered audio frames when a Synthesizer is set.
func (m *VoxMesh) speak(ctx context.Context, live liveConn, res TurnResult) error {
	if m.synth == nil {
		return live.Say(res.Text, res.Voice)
	}

	audio, err := m.synth.Synthesize(ctx, res.Text, res.Voice)
	if err != nil {
		return fmt.Errorf("synthesize reply: %w", err)
	}

	for seq := int64(0); len(audio) > 0; seq++ {
		n := audioFrameSize
		if n > len(audio) {
			n = len(audio)
		}
		if err := live.SendAudioFrame(realtime.AudioFrame{Seq: seq, Data: audio[:n]}); err != nil {
			return fmt.Errorf("send audio frame %d: %w", seq, err)
		}
		audio = audio[n:]
	}

	return nil
}

// ServeLive attaches the conversation to a live platform session: each final
// user transcript (or, with a Recognizer configured, each user audio clip)
// drives one turn and the reply is spoken back with the replying persona's
// voice. It returns when the platform ends the session, a tool ends it, or
// the context is cancelled.
func (m *VoxMesh) ServeLive(ctx context.Context, sessionID string, live *realtime.LiveSession) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-live.Events():
			if !ok {
				return live.Err()
			}

			done, err := m.serveEvent(ctx, sessionID, live, ev)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		}
	}
}

// serveEvent handles one inbound platform event. It reports done when the
// session should end.
func (m *VoxMesh) serveEvent(ctx context.Context, sessionID string, conn liveConn, ev realtime.Event) (bool, error) {
	switch e := ev.(type) {
	case realtime.UserTranscriptEvent:
		if !e.Final {
			return false, nil
		}
		return m.serveTurn(ctx, sessionID, conn, e.Text)

	case realtime.UserAudioEvent:
		if m.recognizer == nil {
			return false, nil
		}
		text, err := m.recognizer.Transcribe(ctx, bytes.NewReader(e.Data), e.Filename())
		if err != nil {
			m.logger.Error("voxmesh.transcription.failed", "session_id", sessionID, "error", err)
			return false, nil
		}
		if text == "" {
			return false, nil
		}
		return m.serveTurn(ctx, sessionID, conn, text)

	case realtime.SessionEndedEvent:
		m.logger.Info("voxmesh.session.ended", "session_id", sessionID, "reason", e.Reason)
		return true, nil

	case realtime.ErrorEvent:
		m.logger.Warn("voxmesh.platform.error", "session_id", sessionID, "code", e.Code, "message", e.Message)
	}

	return false, nil
}

// serveTurn runs one conversational turn for the utterance and delivers the
// reply to the room.
func (m *VoxMesh) serveTurn(ctx context.Context, sessionID string, conn liveConn, text string) (bool, error) {
	res, err := m.Respond(ctx, sessionID, text)
	if err != nil {
		m.logger.Error("voxmesh.turn.failed", "session_id", sessionID, "error", err)
		return false, nil
	}

	if res.Text != "" {
		if err := m.speak(ctx, conn, res); err != nil {
			return false, fmt.Errorf("failed to speak reply: %w", err)
		}
	}

	if res.EndSession {
		m.logger.Info("voxmesh.session.ending", "session_id", sessionID)
		if err := conn.EndSession(); err != nil {
			return false, fmt.Errorf("failed to end session: %w", err)
		}
		return true, nil
	}

	return false, nil
}
