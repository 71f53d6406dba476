// Package openai adapts the OpenAI audio APIs to the speech package
// contracts: whisper transcription for recognition and the TTS endpoint for
// synthesis with per-persona voices.
package openai

import (
	"context"
	"fmt"
	"io"

	"github.com/openai/openai-go"
)

// Options configure the OpenAI speech adapters.
type Options struct {
	// TranscriptionModel selects the STT model, default whisper-1.
	TranscriptionModel openai.AudioModel
	// SpeechModel selects the TTS model, default tts-1.
	SpeechModel openai.SpeechModel
	// DefaultVoice is used when the persona has no voice configured.
	DefaultVoice string
	// ResponseFormat is the synthesized audio container, default mp3.
	ResponseFormat openai.AudioSpeechNewParamsResponseFormat
}

func defaultOptions() Options {
	return Options{
		TranscriptionModel: openai.AudioModelWhisper1,
		SpeechModel:        openai.SpeechModelTTS1,
		DefaultVoice:       "alloy",
		ResponseFormat:     openai.AudioSpeechNewParamsResponseFormatMP3,
	}
}

// Recognizer implements speech.Recognizer on the OpenAI transcription API.
type Recognizer struct {
	client *openai.Client
	opts   Options
}

// NewRecognizer builds a Recognizer reading OPENAI_API_KEY from the environment.
func NewRecognizer(optFns ...func(o *Options)) *Recognizer {
	client := openai.NewClient()
	return NewRecognizerFromClient(&client, optFns...)
}

// NewRecognizerFromClient builds a Recognizer on an existing client.
func NewRecognizerFromClient(client *openai.Client, optFns ...func(o *Options)) *Recognizer {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Recognizer{client: client, opts: opts}
}

// Transcribe sends the audio clip to the transcription endpoint and returns
// the recognized text.
func (r *Recognizer) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	if filename == "" {
		filename = "audio.wav"
	}

	resp, err := r.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model: r.opts.TranscriptionModel,
		File:  openai.File(audio, filename, "application/octet-stream"),
	})
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}

	return resp.Text, nil
}

// Synthesizer implements speech.Synthesizer on the OpenAI TTS API.
type Synthesizer struct {
	client *openai.Client
	opts   Options
}

// NewSynthesizer builds a Synthesizer reading OPENAI_API_KEY from the environment.
func NewSynthesizer(optFns ...func(o *Options)) *Synthesizer {
	client := openai.NewClient()
	return NewSynthesizerFromClient(&client, optFns...)
}

// NewSynthesizerFromClient builds a Synthesizer on an existing client.
func NewSynthesizerFromClient(client *openai.Client, optFns ...func(o *Options)) *Synthesizer {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Synthesizer{client: client, opts: opts}
}

// WithDefaultVoice sets the fallback voice for personas without one.
func WithDefaultVoice(voice string) func(o *Options) {
	return func(o *Options) { o.DefaultVoice = voice }
}

// WithSpeechModel overrides the TTS model.
func WithSpeechModel(m openai.SpeechModel) func(o *Options) {
	return func(o *Options) { o.SpeechModel = m }
}

// WithTranscriptionModel overrides the STT model.
func WithTranscriptionModel(m openai.AudioModel) func(o *Options) {
	return func(o *Options) { o.TranscriptionModel = m }
}

// Synthesize renders text in the requested voice and returns the encoded audio.
func (s *Synthesizer) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if voice == "" {
		voice = s.opts.DefaultVoice
	}

	resp, err := s.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          s.opts.SpeechModel,
		Input:          text,
		Voice:          openai.AudioSpeechNewParamsVoice(voice),
		ResponseFormat: s.opts.ResponseFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("speech synthesis failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read synthesized audio: %w", err)
	}

	return data, nil
}
