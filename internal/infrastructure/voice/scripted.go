package voice

import (
	"sync"
	"time"

	"github.com/mwiatr/verba/internal/ports"
)

// ScriptedGateway is a voice gateway without audio: Speak records, Listen
// replays queued utterances. Used in tests and as the fallback when no
// speech engine is configured.
type ScriptedGateway struct {
	mu       sync.Mutex
	spoken   []string
	queue    chan string
	callback func(string)
	stop     chan struct{}
}

// NewScriptedGateway builds an empty scripted gateway.
func NewScriptedGateway() *ScriptedGateway {
	return &ScriptedGateway{queue: make(chan string, 16)}
}

// Say queues a user utterance for delivery.
func (g *ScriptedGateway) Say(text string) {
	g.queue <- text
}

// Spoken returns everything passed to Speak, in order.
func (g *ScriptedGateway) Spoken() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.spoken...)
}

// Speak records the text.
func (g *ScriptedGateway) Speak(text string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.spoken = append(g.spoken, text)
	return nil
}

// Listen pops the next queued utterance or times out.
func (g *ScriptedGateway) Listen(timeout time.Duration) (string, bool) {
	select {
	case text := <-g.queue:
		return text, true
	case <-time.After(timeout):
		return "", false
	}
}

// StartListening delivers queued utterances to callback until stopped.
func (g *ScriptedGateway) StartListening(callback func(string)) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.callback = callback
	g.stop = make(chan struct{})
	stop := g.stop
	go func() {
		for {
			select {
			case text := <-g.queue:
				callback(text)
			case <-stop:
				return
			}
		}
	}()
	return nil
}

// StopListening halts delivery.
func (g *ScriptedGateway) StopListening() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.stop != nil {
		close(g.stop)
		g.stop = nil
	}
	return nil
}

var _ ports.VoiceGateway = (*ScriptedGateway)(nil)
