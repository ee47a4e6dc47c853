package exercise

import (
	"sync"
	"time"

	"github.com/sampathk123/RepWise/internal/angle"
	"github.com/sampathk123/RepWise/internal/announce"
	"github.com/sampathk123/RepWise/internal/log"
	"github.com/sampathk123/RepWise/internal/pose"
)

// DefaultMinVisibility is the landmark visibility below which a joint is
// treated as missing.
const DefaultMinVisibility = 0.5

// Session carries one user's exercise state across frames. Each connection
// (or the live loop) owns one. Methods are safe for concurrent use so that
// resets can arrive from outside the frame loop.
type Session struct {
	mu            sync.Mutex
	id            string
	createdAt     time.Time
	registry      *Registry
	active        Exercise
	state         State
	smoother      *angle.Smoother
	minVisibility float64
	announcer     *announce.Announcer
}

// Option configures a Session.
type Option func(*Session)

// WithMinVisibility sets the landmark visibility threshold.
func WithMinVisibility(v float64) Option {
	return func(s *Session) {
		if v >= 0 && v <= 1 {
			s.minVisibility = v
		}
	}
}

// WithAnnouncer attaches the announcer that speaks this session's cues.
func WithAnnouncer(a *announce.Announcer) Option {
	return func(s *Session) {
		s.announcer = a
	}
}

// WithWindow sets the smoothing window size.
func WithWindow(n int) Option {
	return func(s *Session) {
		s.smoother = angle.NewSmoother(n)
	}
}

// WithExercise preselects the active exercise.
func WithExercise(name string) Option {
	return func(s *Session) {
		if ex, ok := s.registry.Lookup(name); ok {
			s.activate(ex)
		}
	}
}

// NewSession creates a session. A nil registry means DefaultRegistry.
func NewSession(id string, registry *Registry, opts ...Option) *Session {
	if registry == nil {
		registry = DefaultRegistry()
	}
	s := &Session{
		id:            id,
		createdAt:     time.Now(),
		registry:      registry,
		smoother:      angle.NewSmoother(angle.DefaultWindow),
		minVisibility: DefaultMinVisibility,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Outcome is what one processed frame produced.
type Outcome struct {
	// Exercise is the resolved exercise, nil when the name was unknown.
	Exercise Exercise
	// State is the session state after the frame.
	State State
	// Feedback is the line to display for this frame.
	Feedback string
	Cues     []Cue
	Hints    Hints
	// Angles are the smoothed angles, empty when nothing was measured.
	Angles Angles
}

// Process runs one detected pose through the named exercise.
//
// An unknown name yields FeedbackNoExercise and leaves the session untouched.
// A pose missing any measured joint yields the exercise's reposition text,
// also without touching state.
func (s *Session) Process(p *pose.Pose, name string) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	ex, ok := s.registry.Lookup(name)
	if !ok {
		return Outcome{State: s.state, Feedback: FeedbackNoExercise}
	}
	s.activate(ex)

	raw, ok := measure(p, ex.Angles(), s.minVisibility)
	if !ok {
		return Outcome{Exercise: ex, State: s.state, Feedback: ex.Reposition()}
	}

	smoothed := make(Angles, len(raw))
	for ch, v := range raw {
		smoothed[ch] = s.smoother.Smooth(ch, v)
	}

	tr := ex.Step(s.state, smoothed)
	s.state = tr.State

	return Outcome{
		Exercise: ex,
		State:    s.state,
		Feedback: s.state.Feedback,
		Cues:     tr.Cues,
		Hints:    tr.Hints,
		Angles:   smoothed,
	}
}

// Select makes the named exercise active without processing a frame.
func (s *Session) Select(name string) (Exercise, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ex, ok := s.registry.Lookup(name)
	if !ok {
		return nil, false
	}
	s.activate(ex)
	return ex, true
}

// Reset zeroes the rep count, returns to the active exercise's initial phase,
// clears the feedback and discards smoothing history. It is idempotent.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = State{}
	if s.active != nil {
		s.state.Phase = s.active.InitialPhase()
	}
	s.smoother.Reset()

	log.Debug("session reset", "session", s.id)
}

// activate switches exercises. Reps carry over; the phase is reset when it is
// not meaningful for the new exercise; smoothing history is discarded.
func (s *Session) activate(ex Exercise) {
	if s.active != nil && s.active.Name() == ex.Name() {
		return
	}

	if len(ex.Phases()) > 0 && !hasPhase(ex, s.state.Phase) {
		s.state.Phase = ex.InitialPhase()
	}
	s.state.BackWarning = false
	s.smoother.Reset()

	if s.active != nil {
		log.Debug("exercise switched", "session", s.id, "from", s.active.Name(), "to", ex.Name())
	}
	s.active = ex
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// State returns a copy of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Exercise returns the active exercise, or nil before the first selection.
func (s *Session) Exercise() Exercise {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Announcer returns the attached announcer, which may be nil.
func (s *Session) Announcer() *announce.Announcer {
	return s.announcer
}

// Info is a snapshot of a session for listing.
type Info struct {
	ID        string    `json:"id"`
	Exercise  string    `json:"exercise"`
	Reps      int       `json:"reps"`
	Phase     Phase     `json:"phase"`
	Feedback  string    `json:"feedback"`
	CreatedAt time.Time `json:"created_at"`
}

// Info returns a snapshot of the session.
func (s *Session) Info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()

	info := Info{
		ID:        s.id,
		Reps:      s.state.Reps,
		Phase:     s.state.Phase,
		Feedback:  s.state.Feedback,
		CreatedAt: s.createdAt,
	}
	if s.active != nil {
		info.Exercise = s.active.Name()
	}
	return info
}

// measure computes the raw angle for each spec. It fails when any joint is
// not visible. Poses with depth use the 3D cosine angle; flat poses use the
// planar angle.
func measure(p *pose.Pose, specs []AngleSpec, minVisibility float64) (Angles, bool) {
	out := make(Angles, len(specs))
	for _, spec := range specs {
		if !p.Visible(spec.A, minVisibility) || !p.Visible(spec.B, minVisibility) || !p.Visible(spec.C, minVisibility) {
			return nil, false
		}

		a, b, c := p.Vector(spec.A), p.Vector(spec.B), p.Vector(spec.C)
		if p.HasDepth {
			out[spec.Channel] = angle.Between(a, b, c)
		} else {
			out[spec.Channel] = angle.Planar(a, b, c)
		}
	}
	return out, true
}
