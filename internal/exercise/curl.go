package exercise

import (
	"fmt"

	"github.com/sampathk123/RepWise/internal/angle"
	"github.com/sampathk123/RepWise/internal/pose"
)

// Bicep curl thresholds in degrees.
const (
	CurlFlexed   = 50.0
	CurlExtended = 140.0
)

// Feedback lines for the bicep curl.
const (
	FeedbackGoodCurl     = "Good curl!"
	FeedbackCurlRep      = "Rep complete!"
	FeedbackCurlYourArm  = "Curl your arm!"
	FeedbackKeepGoing    = "Keep going..."
	FeedbackCurlPosition = "Position yourself so your full arm is visible"
)

// BicepCurl counts right-arm curls from the elbow angle.
type BicepCurl struct{}

func (BicepCurl) Name() string        { return "bicep_curl" }
func (BicepCurl) Title() string       { return "Bicep Curl" }
func (BicepCurl) InitialPhase() Phase { return Extended }
func (BicepCurl) Phases() []Phase     { return []Phase{Extended, Curled} }
func (BicepCurl) Reposition() string  { return FeedbackCurlPosition }

func (BicepCurl) Angles() []AngleSpec {
	return []AngleSpec{
		{Channel: angle.Elbow, A: pose.RightShoulder, B: pose.RightElbow, C: pose.RightWrist},
	}
}

// Step applies the curl rules. A rep is counted on the way back out of the
// curled phase.
func (BicepCurl) Step(prev State, angles Angles) Transition {
	elbow := angles[angle.Elbow]
	next := prev
	tone := Good
	var cues []Cue

	switch {
	case elbow < CurlFlexed:
		if prev.Phase != Curled {
			next.Phase = Curled
			cues = append(cues, Cue{Text: FeedbackGoodCurl, Force: true})
		}
		next.Feedback = FeedbackGoodCurl

	case elbow > CurlExtended && prev.Phase == Curled:
		next.Phase = Extended
		next.Reps++
		next.Feedback = FeedbackCurlRep
		cues = append(cues, Cue{Text: FeedbackCurlRep, Force: true})

	case elbow > CurlExtended:
		next.Feedback = FeedbackCurlYourArm
		cues = debounced(cues, prev, next.Feedback)

	default:
		next.Feedback = FeedbackKeepGoing
		cues = debounced(cues, prev, next.Feedback)
		tone = Warning
	}

	return Transition{
		State: next,
		Cues:  cues,
		Hints: Hints{
			Segments: []Segment{
				{From: pose.RightShoulder, To: pose.RightElbow, Tone: tone},
				{From: pose.RightElbow, To: pose.RightWrist, Tone: tone},
			},
			Markers: []Marker{{At: pose.RightElbow, Tone: tone, Radius: 12}},
			Labels:  []Label{{At: pose.RightElbow, Text: fmt.Sprintf("Angle: %.0f", elbow)}},
			Angles:  roundAngles(angles),
		},
	}
}

// debounced adds a non-forced cue only when the feedback line changed.
func debounced(cues []Cue, prev State, text string) []Cue {
	if prev.Feedback == text {
		return cues
	}
	return append(cues, Cue{Text: text})
}
