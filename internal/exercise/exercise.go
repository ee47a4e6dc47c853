// Package exercise implements the per-exercise repetition state machines and
// the session that carries their state between frames.
package exercise

import (
	"math"

	"github.com/sampathk123/RepWise/internal/angle"
	"github.com/sampathk123/RepWise/internal/pose"
)

// Phase is the position an exercise is currently in.
type Phase string

// Phases used by the implemented exercises.
const (
	Extended Phase = "extended"
	Curled   Phase = "curled"
	Up       Phase = "up"
	Down     Phase = "down"

	// Waiting is reported while nobody is in frame. It is never stored.
	Waiting Phase = "waiting"
)

// State is the bookkeeping carried from one frame to the next.
type State struct {
	Reps     int    `json:"reps"`
	Phase    Phase  `json:"phase"`
	Feedback string `json:"feedback"`

	// BackWarning is set while the torso check is failing.
	BackWarning bool `json:"back_warning"`
}

// Angles holds the smoothed joint angles of one frame, keyed by channel.
type Angles map[angle.Channel]float64

// AngleSpec names the three joints whose angle at B feeds a channel.
type AngleSpec struct {
	Channel angle.Channel
	A, B, C pose.Joint
}

// Cue is a line of feedback that should be spoken. Force marks notable
// transitions that bypass the announcer's repeat cooldown.
type Cue struct {
	Text  string
	Force bool
}

// Transition is the result of feeding one frame's angles to an exercise.
type Transition struct {
	State State
	Cues  []Cue
	Hints Hints
}

// Exercise is a rep counting state machine for one movement.
type Exercise interface {
	// Name is the canonical identifier, e.g. "bicep_curl".
	Name() string
	// Title is the display name, e.g. "Bicep Curl".
	Title() string
	// InitialPhase is the phase a fresh or reset session starts in.
	InitialPhase() Phase
	// Phases lists every phase the machine can be in. Empty for stubs.
	Phases() []Phase
	// Angles lists the joint angles measured each frame.
	Angles() []AngleSpec
	// Reposition is shown when a measured joint is not visible.
	Reposition() string
	// Step advances the machine by one frame.
	Step(prev State, angles Angles) Transition
}

// Tone colors a drawing hint.
type Tone int

const (
	Good Tone = iota
	Bad
	Warning
)

// String returns the tone name.
func (t Tone) String() string {
	switch t {
	case Good:
		return "good"
	case Bad:
		return "bad"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Segment is a line drawn between two joints.
type Segment struct {
	From, To pose.Joint
	Tone     Tone
}

// Marker is a filled circle drawn on a joint.
type Marker struct {
	At     pose.Joint
	Tone   Tone
	Radius int
}

// Label is text drawn beside a joint.
type Label struct {
	At   pose.Joint
	Text string
}

// Hints describe how a frame should be annotated for the current step.
type Hints struct {
	Segments []Segment
	Markers  []Marker
	Labels   []Label
	Angles   map[angle.Channel]int
}

func roundAngles(angles Angles) map[angle.Channel]int {
	out := make(map[angle.Channel]int, len(angles))
	for ch, v := range angles {
		out[ch] = int(math.Round(v))
	}
	return out
}

func hasPhase(ex Exercise, p Phase) bool {
	for _, candidate := range ex.Phases() {
		if candidate == p {
			return true
		}
	}
	return false
}
