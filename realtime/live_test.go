package realtime

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePlatform runs an in-process websocket endpoint speaking the platform
// protocol: it acks the hello, replays scripted frames and records everything
// the client sends.
type fakePlatform struct {
	t        *testing.T
	server   *httptest.Server
	frames   []any
	received chan map[string]any
}

func newFakePlatform(t *testing.T, frames ...any) *fakePlatform {
	t.Helper()

	p := &fakePlatform{t: t, frames: frames, received: make(chan map[string]any, 32)}

	upgrader := websocket.Upgrader{}
	p.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		var hello map[string]any
		require.NoError(t, conn.ReadJSON(&hello))
		assert.Equal(t, "hello", hello["type"])
		p.received <- hello

		require.NoError(t, conn.WriteJSON(map[string]any{
			"type":       "hello_ack",
			"session_id": "sess-1",
			"room":       hello["room"],
		}))

		for _, frame := range p.frames {
			require.NoError(t, conn.WriteJSON(frame))
		}

		for {
			var msg map[string]any
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			p.received <- msg
		}
	}))
	t.Cleanup(p.server.Close)

	return p
}

func dialFake(t *testing.T, p *fakePlatform) *LiveSession {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sess, err := Dial(ctx, p.server.URL, DialOptions{
		Room:     "room-1",
		Identity: "agent",
		Token:    "test-token",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Close() })
	return sess
}

func nextFrame(t *testing.T, p *fakePlatform) map[string]any {
	t.Helper()
	select {
	case msg := <-p.received:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for client frame")
		return nil
	}
}

func TestDialHandshake(t *testing.T) {
	p := newFakePlatform(t)
	sess := dialFake(t, p)

	assert.Equal(t, "sess-1", sess.SessionID())
	assert.Equal(t, "room-1", sess.Room())

	hello := nextFrame(t, p)
	assert.Equal(t, "test-token", hello["token"])
	assert.Equal(t, "agent", hello["identity"])
}

func TestSessionDecodesPlatformEvents(t *testing.T) {
	p := newFakePlatform(t,
		map[string]any{"type": "participant_joined", "identity": "caller-1", "name": "Jesse"},
		map[string]any{"type": "speech_started", "participant": "caller-1", "timestamp_ms": 1200},
		map[string]any{"type": "user_transcript", "participant": "caller-1", "text": "hello there", "final": true},
		map[string]any{"type": "turn_ended", "participant": "caller-1"},
		map[string]any{"type": "mystery_frame", "payload": "?"},
		map[string]any{"type": "session_ended", "reason": "caller hung up"},
	)
	sess := dialFake(t, p)

	var events []Event
	for ev := range sess.Events() {
		events = append(events, ev)
	}
	require.Len(t, events, 6)

	joined, ok := events[0].(ParticipantJoinedEvent)
	require.True(t, ok)
	assert.Equal(t, "caller-1", joined.Identity)

	started, ok := events[1].(SpeechStartedEvent)
	require.True(t, ok)
	assert.EqualValues(t, 1200, started.TimestampMS)

	transcript, ok := events[2].(UserTranscriptEvent)
	require.True(t, ok)
	assert.Equal(t, "hello there", transcript.Text)
	assert.True(t, transcript.Final)

	_, ok = events[3].(TurnEndedEvent)
	require.True(t, ok)

	unknown, ok := events[4].(UnknownEvent)
	require.True(t, ok)
	assert.Equal(t, "mystery_frame", unknown.Type)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(unknown.Raw, &raw))
	assert.Equal(t, "?", raw["payload"])

	ended, ok := events[5].(SessionEndedEvent)
	require.True(t, ok)
	assert.Equal(t, "caller hung up", ended.Reason)

	assert.NoError(t, sess.Err())
}

func TestSessionDecodesUserAudio(t *testing.T) {
	p := newFakePlatform(t,
		map[string]any{
			"type":        "user_audio",
			"participant": "caller-1",
			"format":      "wav",
			"data_b64":    base64.StdEncoding.EncodeToString([]byte("pcm-bytes")),
		},
		map[string]any{"type": "session_ended", "reason": "done"},
	)
	sess := dialFake(t, p)

	var events []Event
	for ev := range sess.Events() {
		events = append(events, ev)
	}
	require.Len(t, events, 2)

	audio, ok := events[0].(UserAudioEvent)
	require.True(t, ok)
	assert.Equal(t, "caller-1", audio.Participant)
	assert.Equal(t, []byte("pcm-bytes"), audio.Data)
	assert.Equal(t, "turn.wav", audio.Filename())
}

func TestSessionOutboundFrames(t *testing.T) {
	p := newFakePlatform(t)
	sess := dialFake(t, p)
	nextFrame(t, p) // hello

	require.NoError(t, sess.Say("Welcome to our office!", "alloy"))
	say := nextFrame(t, p)
	assert.Equal(t, "say", say["type"])
	assert.Equal(t, "Welcome to our office!", say["text"])
	assert.Equal(t, "alloy", say["voice"])

	require.NoError(t, sess.SendAudioFrame(AudioFrame{TrackID: "tts-1", Seq: 7, Data: []byte{1, 2, 3}}))
	frame := nextFrame(t, p)
	assert.Equal(t, "audio_frame", frame["type"])
	assert.Equal(t, "tts-1", frame["track_id"])
	assert.EqualValues(t, 7, frame["seq"])
	assert.Equal(t, "AQID", frame["data_b64"])

	require.NoError(t, sess.Interrupt())
	control := nextFrame(t, p)
	assert.Equal(t, "control", control["type"])
	assert.Equal(t, "interrupt", control["op"])
}

func TestSessionSendAfterCloseFails(t *testing.T) {
	p := newFakePlatform(t)
	sess := dialFake(t, p)

	require.NoError(t, sess.Close())
	assert.Error(t, sess.Say("too late", ""))
}

func TestDialRequiresToken(t *testing.T) {
	_, err := Dial(context.Background(), "ws://localhost:1", DialOptions{})
	assert.Error(t, err)
}
