// Package announce turns feedback text into spoken cues without repeating
// the same line every frame.
package announce

import (
	"context"
	"sync"
	"time"

	"github.com/sampathk123/RepWise/internal/log"
)

// DefaultCooldown is the minimum gap before the same text is spoken again.
const DefaultCooldown = 3 * time.Second

// Announcer decides whether a feedback line should be spoken and hands it to
// a Speaker in the background. It is safe for concurrent use.
type Announcer struct {
	mu       sync.Mutex
	speaker  Speaker
	cooldown time.Duration
	now      func() time.Time
	enabled  bool

	lastText string
	lastAt   time.Time
}

// Option configures an Announcer.
type Option func(*Announcer)

// WithCooldown sets the repeat cooldown. Negative values are ignored.
func WithCooldown(d time.Duration) Option {
	return func(a *Announcer) {
		if d >= 0 {
			a.cooldown = d
		}
	}
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(a *Announcer) {
		a.now = now
	}
}

// New creates an enabled Announcer that speaks through speaker.
func New(speaker Speaker, opts ...Option) *Announcer {
	a := &Announcer{
		speaker:  speaker,
		cooldown: DefaultCooldown,
		now:      time.Now,
		enabled:  true,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Announce dispatches text when force is set, when it differs from the last
// dispatched text, or when the cooldown has elapsed since that dispatch.
// It reports whether the text was dispatched. Speech itself runs in its own
// goroutine, so the order in which rapid announcements are heard is not fixed.
func (a *Announcer) Announce(text string, force bool) bool {
	if text == "" {
		return false
	}

	a.mu.Lock()
	if !a.enabled || a.speaker == nil {
		a.mu.Unlock()
		return false
	}

	now := a.now()
	if !force && text == a.lastText && now.Sub(a.lastAt) < a.cooldown {
		a.mu.Unlock()
		return false
	}

	a.lastText = text
	a.lastAt = now
	speaker := a.speaker
	a.mu.Unlock()

	go func() {
		if err := speaker.Speak(context.Background(), text); err != nil {
			log.Warn("speech failed", "text", text, "error", err)
		}
	}()

	return true
}

// SetEnabled turns dispatching on or off.
func (a *Announcer) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// Enabled reports whether the announcer dispatches speech.
func (a *Announcer) Enabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.enabled
}

// Cooldown returns the configured repeat cooldown.
func (a *Announcer) Cooldown() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cooldown
}

// SetCooldown changes the repeat cooldown. Negative values are ignored.
func (a *Announcer) SetCooldown(d time.Duration) {
	if d < 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cooldown = d
}

// Last returns the most recently dispatched text and when it was dispatched.
func (a *Announcer) Last() (string, time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastText, a.lastAt
}
