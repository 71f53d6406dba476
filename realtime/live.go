// Package realtime is the client for the external realtime voice platform.
// It mints access tokens, dials the platform websocket and exchanges typed
// frames: inbound participant/speech/transcript events drive the personas,
// outbound say/audio frames carry their replies. Audio capture, VAD and turn
// detection happen on the platform side; this package only frames and routes.
package realtime

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const defaultConnectTimeout = 15 * time.Second

// Event is a typed frame received from the platform.
type Event interface {
	eventType() string
}

// HelloAckEvent confirms the session is established.
type HelloAckEvent struct {
	SessionID string `json:"session_id"`
	Room      string `json:"room"`
}

func (HelloAckEvent) eventType() string { return "hello_ack" }

// ParticipantJoinedEvent signals a participant entering the room.
type ParticipantJoinedEvent struct {
	Identity string `json:"identity"`
	Name     string `json:"name"`
}

func (ParticipantJoinedEvent) eventType() string { return "participant_joined" }

// ParticipantLeftEvent signals a participant leaving the room.
type ParticipantLeftEvent struct {
	Identity string `json:"identity"`
}

func (ParticipantLeftEvent) eventType() string { return "participant_left" }

// SpeechStartedEvent is the platform's VAD reporting speech onset.
type SpeechStartedEvent struct {
	Participant string `json:"participant"`
	TimestampMS int64  `json:"timestamp_ms"`
}

func (SpeechStartedEvent) eventType() string { return "speech_started" }

// SpeechStoppedEvent is the platform's VAD reporting speech end.
type SpeechStoppedEvent struct {
	Participant string `json:"participant"`
	TimestampMS int64  `json:"timestamp_ms"`
}

func (SpeechStoppedEvent) eventType() string { return "speech_stopped" }

// UserTranscriptEvent carries a transcript of caller speech. Final is false
// for partial hypotheses that may still change.
type UserTranscriptEvent struct {
	Participant string `json:"participant"`
	Text        string `json:"text"`
	Final       bool   `json:"final"`
}

func (UserTranscriptEvent) eventType() string { return "user_transcript" }

// UserAudioEvent carries one recorded clip of caller speech for rooms where
// the platform does not transcribe. Data is the decoded audio payload.
type UserAudioEvent struct {
	Participant string
	Format      string
	Data        []byte
}

func (UserAudioEvent) eventType() string { return "user_audio" }

// Filename returns a container-format hint for transcription APIs.
func (e UserAudioEvent) Filename() string {
	if e.Format == "" {
		return "turn.wav"
	}
	return "turn." + e.Format
}

// TurnEndedEvent is the platform's turn detector committing the caller's turn.
type TurnEndedEvent struct {
	Participant string `json:"participant"`
}

func (TurnEndedEvent) eventType() string { return "turn_ended" }

// SessionEndedEvent signals the platform closed the session.
type SessionEndedEvent struct {
	Reason string `json:"reason"`
}

func (SessionEndedEvent) eventType() string { return "session_ended" }

// ErrorEvent carries a platform-side error.
type ErrorEvent struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (ErrorEvent) eventType() string { return "error" }

// UnknownEvent preserves frames this client version does not understand.
type UnknownEvent struct {
	Type string
	Raw  json.RawMessage
}

func (e UnknownEvent) eventType() string { return e.Type }

// AudioFrame is one outbound chunk of caller-bound audio.
type AudioFrame struct {
	TrackID string
	Seq     int64
	Data    []byte
}

type clientHello struct {
	Type            string `json:"type"`
	ProtocolVersion int    `json:"protocol_version"`
	Token           string `json:"token"`
	Room            string `json:"room"`
	Identity        string `json:"identity"`
}

type clientAudioFrame struct {
	Type    string `json:"type"`
	TrackID string `json:"track_id,omitempty"`
	Seq     int64  `json:"seq"`
	DataB64 string `json:"data_b64"`
}

type clientSay struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"`
}

type clientControl struct {
	Type string `json:"type"`
	Op   string `json:"op"`
}

// DialOptions configure Dial.
type DialOptions struct {
	Room     string
	Identity string
	Token    string
	// EventBuffer sets the capacity of the Events channel.
	EventBuffer int
}

// LiveSession is an established websocket session with the platform.
type LiveSession struct {
	conn *websocket.Conn

	sessionID string
	room      string

	events chan Event
	done   chan struct{}

	writeMu   sync.Mutex
	closeOnce sync.Once
	closed    atomic.Bool

	errMu sync.Mutex
	err   error
}

// Dial connects to the platform, performs the hello handshake and starts the
// read loop. serverURL accepts http(s) or ws(s) schemes.
func Dial(ctx context.Context, serverURL string, opts DialOptions) (*LiveSession, error) {
	wsURL, err := websocketURL(serverURL)
	if err != nil {
		return nil, err
	}
	if opts.Token == "" {
		return nil, fmt.Errorf("access token is required")
	}
	if opts.EventBuffer <= 0 {
		opts.EventBuffer = 256
	}

	dialCtx := ctx
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, defaultConnectTimeout)
		defer cancel()
	}

	headers := make(http.Header)
	headers.Set("Authorization", "Bearer "+opts.Token)

	conn, resp, err := websocket.DefaultDialer.DialContext(dialCtx, wsURL, headers)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket dial failed (status %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("websocket dial failed: %w", err)
	}

	hello := clientHello{
		Type:            "hello",
		ProtocolVersion: 1,
		Token:           opts.Token,
		Room:            opts.Room,
		Identity:        opts.Identity,
	}
	if err := conn.WriteJSON(hello); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("send hello: %w", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(defaultConnectTimeout))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("read hello_ack: %w", err)
	}
	_ = conn.SetReadDeadline(time.Time{})

	first, err := decodeFrame(payload)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	switch e := first.(type) {
	case HelloAckEvent:
		s := &LiveSession{
			conn:      conn,
			sessionID: e.SessionID,
			room:      e.Room,
			events:    make(chan Event, opts.EventBuffer),
			done:      make(chan struct{}),
		}
		go s.readLoop()
		return s, nil
	case ErrorEvent:
		_ = conn.Close()
		return nil, fmt.Errorf("platform rejected session: %s (%s)", e.Message, e.Code)
	default:
		_ = conn.Close()
		return nil, fmt.Errorf("unexpected first frame %q", first.eventType())
	}
}

// SessionID returns the platform-assigned session identifier.
func (s *LiveSession) SessionID() string { return s.sessionID }

// Room returns the room this session is bound to.
func (s *LiveSession) Room() string { return s.room }

// Events yields inbound platform events. The channel closes when the session ends.
func (s *LiveSession) Events() <-chan Event { return s.events }

// Say asks the platform to synthesize and play text in the given voice.
func (s *LiveSession) Say(text, voice string) error {
	return s.sendJSON(clientSay{Type: "say", Text: text, Voice: voice})
}

// SendAudioFrame ships one chunk of pre-rendered audio to the room.
func (s *LiveSession) SendAudioFrame(frame AudioFrame) error {
	return s.sendJSON(clientAudioFrame{
		Type:    "audio_frame",
		TrackID: frame.TrackID,
		Seq:     frame.Seq,
		DataB64: base64.StdEncoding.EncodeToString(frame.Data),
	})
}

// Interrupt stops the currently playing agent speech.
func (s *LiveSession) Interrupt() error { return s.sendControl("interrupt") }

// CancelTurn aborts the in-flight agent turn.
func (s *LiveSession) CancelTurn() error { return s.sendControl("cancel_turn") }

// EndSession requests a graceful session shutdown.
func (s *LiveSession) EndSession() error { return s.sendControl("end_session") }

func (s *LiveSession) sendControl(op string) error {
	return s.sendJSON(clientControl{Type: "control", Op: op})
}

func (s *LiveSession) sendJSON(v any) error {
	if s.closed.Load() {
		return fmt.Errorf("live session is closed")
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(v)
}

// Close terminates the session and waits for the read loop to drain.
func (s *LiveSession) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.writeMu.Lock()
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(2*time.Second))
		s.writeMu.Unlock()
		_ = s.conn.Close()
	})
	<-s.done
	return nil
}

// Err returns the terminal session error, if any. Blocks until the session ends.
func (s *LiveSession) Err() error {
	<-s.done
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}

func (s *LiveSession) setErr(err error) {
	if err == nil {
		return
	}
	s.errMu.Lock()
	defer s.errMu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

func (s *LiveSession) readLoop() {
	defer close(s.done)
	defer close(s.events)

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) || s.closed.Load() {
				return
			}
			s.setErr(err)
			return
		}

		event, err := decodeFrame(data)
		if err != nil {
			s.setErr(err)
			return
		}

		s.emit(event)

		switch e := event.(type) {
		case ErrorEvent:
			s.setErr(fmt.Errorf("platform error: %s (%s)", e.Message, e.Code))
		case SessionEndedEvent:
			return
		}
	}
}

func (s *LiveSession) emit(event Event) {
	select {
	case s.events <- event:
	default:
		// Drop rather than stall the read loop when the consumer lags.
	}
}

func decodeFrame(data []byte) (Event, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decode frame envelope: %w", err)
	}

	decode := func(v Event) (Event, error) {
		if err := json.Unmarshal(data, v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", envelope.Type, err)
		}
		return v, nil
	}

	switch envelope.Type {
	case "hello_ack":
		var e HelloAckEvent
		if _, err := decode(&e); err != nil {
			return nil, err
		}
		return e, nil
	case "participant_joined":
		var e ParticipantJoinedEvent
		if _, err := decode(&e); err != nil {
			return nil, err
		}
		return e, nil
	case "participant_left":
		var e ParticipantLeftEvent
		if _, err := decode(&e); err != nil {
			return nil, err
		}
		return e, nil
	case "speech_started":
		var e SpeechStartedEvent
		if _, err := decode(&e); err != nil {
			return nil, err
		}
		return e, nil
	case "speech_stopped":
		var e SpeechStoppedEvent
		if _, err := decode(&e); err != nil {
			return nil, err
		}
		return e, nil
	case "user_transcript":
		var e UserTranscriptEvent
		if _, err := decode(&e); err != nil {
			return nil, err
		}
		return e, nil
	case "user_audio":
		var frame struct {
			Participant string `json:"participant"`
			Format      string `json:"format"`
			DataB64     string `json:"data_b64"`
		}
		if err := json.Unmarshal(data, &frame); err != nil {
			return nil, fmt.Errorf("decode user_audio: %w", err)
		}
		payload, err := base64.StdEncoding.DecodeString(frame.DataB64)
		if err != nil {
			return nil, fmt.Errorf("decode user_audio payload: %w", err)
		}
		return UserAudioEvent{Participant: frame.Participant, Format: frame.Format, Data: payload}, nil
	case "turn_ended":
		var e TurnEndedEvent
		if _, err := decode(&e); err != nil {
			return nil, err
		}
		return e, nil
	case "session_ended":
		var e SessionEndedEvent
		if _, err := decode(&e); err != nil {
			return nil, err
		}
		return e, nil
	case "error":
		var e ErrorEvent
		if _, err := decode(&e); err != nil {
			return nil, err
		}
		return e, nil
	case "":
		return nil, fmt.Errorf("frame missing type")
	default:
		return UnknownEvent{Type: envelope.Type, Raw: append(json.RawMessage(nil), data...)}, nil
	}
}

func websocketURL(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server url: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("server url must use http(s) or ws(s) scheme")
	}
	return u.String(), nil
}
