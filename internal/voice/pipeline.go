package voice

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/writewise/content-engine/internal/ai"
	"github.com/writewise/content-engine/internal/settings"
	"github.com/writewise/content-engine/internal/types"
)

// extractionInstruction asks the model for the five command fields as one
// JSON object. The defaults are stated inside the instruction so the model
// and the decoder agree on them.
const extractionInstruction = `You are a voice command interpreter for a content writing assistant. The user has spoken a request for content to be generated. Extract the request into a single JSON object with exactly these fields and respond with nothing else:
{"topic": "", "contentType": "", "tone": "", "keywords": "", "additionalInfo": ""}
If the transcript does not specify a field, use these defaults: "contentType" defaults to "blog-post", "tone" defaults to "professional", and every other field defaults to the empty string.`

const clipFilename = "recording.wav"

// Pipeline drives one voice capture attempt through the states
// Idle, Recording, Transcribing, Extracting, Done and Failed. It owns the
// capture device exclusively from Recording entry until release. Failed is
// terminal for an attempt; the next Start begins a fresh one.
type Pipeline struct {
	transcriber Transcriber
	providers   *ai.Registry
	settings    *settings.Manager
	logger      *logrus.Logger
	openDevice  DeviceOpener

	mu     sync.Mutex
	state  State
	device Device
	chunks [][]byte
}

// Option configures the pipeline.
type Option func(*Pipeline)

// WithDeviceOpener wires an audio capture device for Start/Stop recording.
// Without one, Start reports the device unavailable and callers must submit
// pre-captured clips instead.
func WithDeviceOpener(open DeviceOpener) Option {
	return func(p *Pipeline) { p.openDevice = open }
}

// NewPipeline creates a pipeline in the Idle state.
func NewPipeline(transcriber Transcriber, providers *ai.Registry, mgr *settings.Manager, logger *logrus.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		transcriber: transcriber,
		providers:   providers,
		settings:    mgr,
		logger:      logger,
		state:       StateIdle,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State returns the pipeline's current state.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Start acquires the capture device and begins buffering audio chunks.
// When acquisition fails the state stays Idle and recording never started.
// Start while already recording is a no-op.
func (p *Pipeline) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case StateRecording:
		return nil
	case StateTranscribing, StateExtracting:
		return ErrBusy
	}

	if p.openDevice == nil {
		p.state = StateIdle
		return ErrDeviceUnavailable
	}
	dev, err := p.openDevice()
	if err != nil {
		p.state = StateIdle
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	p.device = dev
	p.chunks = nil
	p.state = StateRecording
	go p.capture(dev)
	return nil
}

// capture drains the device until it is closed.
func (p *Pipeline) capture(dev Device) {
	for {
		chunk, err := dev.Read()
		if err != nil {
			return
		}
		if len(chunk) == 0 {
			continue
		}
		p.mu.Lock()
		if p.device == dev {
			p.chunks = append(p.chunks, chunk)
		}
		p.mu.Unlock()
	}
}

// Cancel abandons the current attempt, releasing the device if held, and
// returns to Idle.
func (p *Pipeline) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.releaseDeviceLocked()
	p.chunks = nil
	p.state = StateIdle
}

// StopTranscript stops recording, transcribes the buffered clip and
// returns the transcript alone. No extraction step.
func (p *Pipeline) StopTranscript(ctx context.Context) (string, error) {
	clip, err := p.stopRecording()
	if err != nil {
		return "", err
	}
	return p.finishTranscript(ctx, clip)
}

// StopCommand stops recording, transcribes the buffered clip and extracts
// a structured command from the transcript.
func (p *Pipeline) StopCommand(ctx context.Context) (types.ExtractedVoiceCommand, error) {
	clip, err := p.stopRecording()
	if err != nil {
		return types.ExtractedVoiceCommand{}, err
	}
	return p.finishCommand(ctx, clip)
}

// SubmitTranscript runs a pre-captured clip through transcription only.
func (p *Pipeline) SubmitTranscript(ctx context.Context, clip []byte) (string, error) {
	if err := p.accept(clip); err != nil {
		return "", err
	}
	return p.finishTranscript(ctx, clip)
}

// SubmitCommand runs a pre-captured clip through transcription and
// extraction.
func (p *Pipeline) SubmitCommand(ctx context.Context, clip []byte) (types.ExtractedVoiceCommand, error) {
	if err := p.accept(clip); err != nil {
		return types.ExtractedVoiceCommand{}, err
	}
	return p.finishCommand(ctx, clip)
}

// stopRecording concatenates the buffered chunks into one clip and releases
// the device. The device is released on this path no matter what follows.
func (p *Pipeline) stopRecording() ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateRecording {
		return nil, ErrNotRecording
	}
	p.releaseDeviceLocked()
	clip := bytes.Join(p.chunks, nil)
	p.chunks = nil
	p.state = StateTranscribing
	return clip, nil
}

func (p *Pipeline) releaseDeviceLocked() {
	if p.device == nil {
		return
	}
	if err := p.device.Close(); err != nil && p.logger != nil {
		p.logger.WithError(err).Warn("closing capture device failed")
	}
	p.device = nil
}

func (p *Pipeline) accept(clip []byte) error {
	if len(clip) == 0 {
		return ErrEmptyClip
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	switch p.state {
	case StateRecording, StateTranscribing, StateExtracting:
		return ErrBusy
	}
	p.state = StateTranscribing
	return nil
}

func (p *Pipeline) finishTranscript(ctx context.Context, clip []byte) (string, error) {
	text, err := p.transcribe(ctx, clip)
	if err != nil {
		return "", err
	}
	p.setState(StateDone)
	return text, nil
}

func (p *Pipeline) finishCommand(ctx context.Context, clip []byte) (types.ExtractedVoiceCommand, error) {
	text, err := p.transcribe(ctx, clip)
	if err != nil {
		return types.ExtractedVoiceCommand{}, err
	}

	p.setState(StateExtracting)
	cfg := p.settings.Current()
	req := ai.GenerationRequest{
		Provider:       cfg.Provider,
		Model:          cfg.Model,
		NewUserText:    text,
		SystemPreamble: extractionInstruction,
	}
	if cfg.UseCustomKey {
		req.APIKeyOverride = cfg.APIKey
	}

	res, err := p.providers.Generate(ctx, req)
	if err != nil {
		p.setState(StateFailed)
		return types.ExtractedVoiceCommand{}, fmt.Errorf("extract command: %w", err)
	}

	cmd, parsed := DecodeCommand(res.Text, text)
	if !parsed && p.logger != nil {
		p.logger.WithField("provider", cfg.Provider).Debug("extraction output was not valid JSON; using transcript as topic")
	}
	p.setState(StateDone)
	return cmd, nil
}

// transcribe submits the clip whole and enforces the non-empty rule. An
// empty or whitespace-only transcript fails the attempt before extraction.
func (p *Pipeline) transcribe(ctx context.Context, clip []byte) (string, error) {
	text, err := p.transcriber.Transcribe(ctx, clip, clipFilename)
	if err != nil {
		p.setState(StateFailed)
		return "", fmt.Errorf("transcribe clip: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		p.setState(StateFailed)
		return "", ErrEmptyTranscript
	}
	return text, nil
}

func (p *Pipeline) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}
