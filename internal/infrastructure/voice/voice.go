// Package voice implements the voice gateway over pluggable speech engines.
// The core never sees audio data; this package segments utterances and
// hands transcribed text to the registered callback.
package voice

import (
	"errors"
	"sync"
	"time"

	"github.com/mwiatr/verba/internal/ports"
)

// Engine converts between audio and text. Real speech backends implement
// this; tests use a scripted stand-in.
type Engine interface {
	Transcribe(audio []byte) (string, error)
	Synthesize(text string) ([]byte, error)
}

// Device is the audio hardware abstraction. ReadChunk blocks until a chunk
// of samples is available.
type Device interface {
	ReadChunk() ([]byte, int16, error)
	Play(audio []byte) error
}

const (
	utteranceQueueSize = 8
	joinTimeout        = 3 * time.Second
)

// Gateway segments captured audio on trailing silence and transcribes each
// utterance. Start and Stop are idempotent.
type Gateway struct {
	engine Engine
	device Device

	silenceThreshold int16
	silenceChunks    int

	mu        sync.Mutex
	listening bool
	stop      chan struct{}
	done      chan struct{}
	callback  func(string)
}

// NewGateway builds a gateway. silenceChunks is the number of consecutive
// quiet chunks that ends an utterance.
func NewGateway(engine Engine, device Device, silenceThreshold int16, silenceChunks int) *Gateway {
	if silenceChunks < 1 {
		silenceChunks = 1
	}
	return &Gateway{
		engine:           engine,
		device:           device,
		silenceThreshold: silenceThreshold,
		silenceChunks:    silenceChunks,
	}
}

// Speak synthesizes text and plays it, blocking until playback finishes.
func (g *Gateway) Speak(text string) error {
	audio, err := g.engine.Synthesize(text)
	if err != nil {
		return err
	}
	return g.device.Play(audio)
}

// Listen captures a single utterance within timeout. The second return is
// false when the deadline passed without speech.
func (g *Gateway) Listen(timeout time.Duration) (string, bool) {
	results := make(chan string, 1)
	if err := g.StartListening(func(text string) {
		select {
		case results <- text:
		default:
		}
	}); err != nil {
		return "", false
	}
	defer g.StopListening()

	select {
	case text := <-results:
		return text, true
	case <-time.After(timeout):
		return "", false
	}
}

// StartListening spawns the capture worker. Starting an already listening
// gateway only swaps the callback.
func (g *Gateway) StartListening(callback func(string)) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.listening {
		g.callback = callback
		return nil
	}
	g.callback = callback
	g.stop = make(chan struct{})
	g.done = make(chan struct{})
	g.listening = true
	go g.captureLoop(g.stop, g.done)
	return nil
}

// StopListening signals the worker and waits for it to exit, bounded by the
// join timeout. Stopping an idle gateway is a no-op.
func (g *Gateway) StopListening() error {
	g.mu.Lock()
	if !g.listening {
		g.mu.Unlock()
		return nil
	}
	g.listening = false
	close(g.stop)
	done := g.done
	g.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-time.After(joinTimeout):
		return errors.New("listener did not stop in time")
	}
}

// captureLoop reads chunks, tracks trailing silence and emits transcribed
// utterances through a bounded queue so a slow callback cannot stall capture.
func (g *Gateway) captureLoop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	utterances := make(chan []byte, utteranceQueueSize)
	var dispatch sync.WaitGroup
	dispatch.Add(1)
	go func() {
		defer dispatch.Done()
		for audio := range utterances {
			text, err := g.engine.Transcribe(audio)
			if err != nil || text == "" {
				continue
			}
			g.notify(text)
		}
	}()
	defer dispatch.Wait()
	defer close(utterances)

	var buffer []byte
	silent := 0
	for {
		select {
		case <-stop:
			return
		default:
		}

		chunk, volume, err := g.device.ReadChunk()
		if err != nil {
			return
		}

		if volume < g.silenceThreshold {
			silent++
		} else {
			silent = 0
		}
		buffer = append(buffer, chunk...)

		if silent >= g.silenceChunks && len(buffer) > 0 {
			segment := buffer
			buffer = nil
			silent = 0
			select {
			case utterances <- segment:
			default:
				// Queue full, drop this segment.
			}
		}
	}
}

func (g *Gateway) notify(text string) {
	g.mu.Lock()
	cb := g.callback
	g.mu.Unlock()
	if cb != nil {
		cb(text)
	}
}

var _ ports.VoiceGateway = (*Gateway)(nil)
