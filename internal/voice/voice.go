// Package voice turns a captured audio clip into either a raw transcript
// or a structured content command, via a transcribe-then-extract pipeline.
package voice

import (
	"context"
	"errors"
)

var (
	// ErrDeviceUnavailable is returned when the audio capture device
	// cannot be acquired.
	ErrDeviceUnavailable = errors.New("audio capture device unavailable")

	// ErrEmptyClip is returned when a submitted clip holds no audio.
	ErrEmptyClip = errors.New("audio clip is empty")

	// ErrEmptyTranscript is returned when transcription yields nothing
	// but whitespace; extraction is never attempted.
	ErrEmptyTranscript = errors.New("no speech detected")

	// ErrNotRecording is returned when stop is called outside Recording.
	ErrNotRecording = errors.New("not recording")

	// ErrBusy is returned when start is called while an attempt is
	// already past Recording.
	ErrBusy = errors.New("pipeline busy")
)

// Transcriber converts one recorded audio clip to text. No partial or
// streaming transcription: the clip is submitted whole.
type Transcriber interface {
	Name() string
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

// Device is an exclusively-owned audio capture handle. Read blocks until a
// chunk is available and returns io.EOF once the device has been closed.
type Device interface {
	Read() ([]byte, error)
	// Close stops every track and releases the device.
	Close() error
}

// DeviceOpener acquires the capture device. It fails when the microphone
// is unavailable or permission is denied.
type DeviceOpener func() (Device, error)

// State is the pipeline's position in one capture attempt.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateTranscribing
	StateExtracting
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateTranscribing:
		return "transcribing"
	case StateExtracting:
		return "extracting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
