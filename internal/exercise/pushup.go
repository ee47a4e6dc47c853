package exercise

import (
	"fmt"

	"github.com/sampathk123/RepWise/internal/angle"
	"github.com/sampathk123/RepWise/internal/pose"
)

// Push-up thresholds in degrees.
const (
	PushUpBottom   = 90.0
	PushUpTop      = 160.0
	PushUpStraight = 160.0
)

// Feedback lines for the push-up.
const (
	FeedbackBackStraight   = "Keep your back straight!"
	FeedbackGoodBack       = "Good back form!"
	FeedbackLower          = "Lower!"
	FeedbackPushUpRep      = "Rep Complete!"
	FeedbackReadyToLower   = "Ready to lower!"
	FeedbackPushOrLower    = "Push up or lower!"
	FeedbackPushUpPosition = "Turn side-on so your arm, hip and knee are visible"
)

// PushUp counts push-ups from the left elbow angle and checks that the
// shoulder-hip-knee line stays straight.
type PushUp struct{}

func (PushUp) Name() string        { return "pushup" }
func (PushUp) Title() string       { return "Push Up" }
func (PushUp) InitialPhase() Phase { return Up }
func (PushUp) Phases() []Phase     { return []Phase{Up, Down} }
func (PushUp) Reposition() string  { return FeedbackPushUpPosition }

func (PushUp) Angles() []AngleSpec {
	return []AngleSpec{
		{Channel: angle.Elbow, A: pose.LeftShoulder, B: pose.LeftElbow, C: pose.LeftWrist},
		{Channel: angle.Back, A: pose.LeftShoulder, B: pose.LeftHip, C: pose.LeftKnee},
	}
}

// Step applies the push-up rules. The torso check runs first and does not
// affect counting, except that a sagging back blocks entering the down phase.
func (PushUp) Step(prev State, angles Angles) Transition {
	elbow := angles[angle.Elbow]
	back := angles[angle.Back]
	next := prev
	var cues []Cue

	// Back cues are forced only when the warning starts or clears.
	backTone := Good
	backWarning := back < PushUpStraight
	next.BackWarning = backWarning
	switch {
	case backWarning:
		if !prev.BackWarning {
			cues = append(cues, Cue{Text: FeedbackBackStraight, Force: true})
		}
		next.Feedback = FeedbackBackStraight
		backTone = Bad
	case prev.BackWarning:
		next.Feedback = FeedbackGoodBack
		cues = append(cues, Cue{Text: FeedbackGoodBack, Force: true})
	}

	elbowTone := Good
	switch {
	case elbow < PushUpBottom && back > PushUpStraight:
		if prev.Phase != Down {
			next.Phase = Down
			cues = append(cues, Cue{Text: FeedbackLower, Force: true})
		}
		next.Feedback = FeedbackLower

	case elbow > PushUpTop && prev.Phase == Down:
		next.Phase = Up
		next.Reps++
		next.Feedback = FeedbackPushUpRep
		cues = append(cues, Cue{Text: FeedbackPushUpRep, Force: true})

	case elbow > PushUpTop:
		if !backWarning {
			next.Feedback = FeedbackReadyToLower
			cues = debounced(cues, prev, next.Feedback)
		}

	default:
		elbowTone = Bad
		if !backWarning {
			next.Feedback = FeedbackPushOrLower
			cues = debounced(cues, prev, next.Feedback)
		}
	}

	return Transition{
		State: next,
		Cues:  cues,
		Hints: Hints{
			Segments: []Segment{
				{From: pose.LeftShoulder, To: pose.LeftElbow, Tone: elbowTone},
				{From: pose.LeftElbow, To: pose.LeftWrist, Tone: elbowTone},
				{From: pose.LeftShoulder, To: pose.LeftHip, Tone: backTone},
				{From: pose.LeftHip, To: pose.LeftKnee, Tone: backTone},
			},
			Markers: []Marker{{At: pose.LeftHip, Tone: backTone, Radius: 10}},
			Labels: []Label{
				{At: pose.LeftElbow, Text: fmt.Sprintf("Elbow: %.0f", elbow)},
				{At: pose.LeftHip, Text: fmt.Sprintf("Back: %.0f", back)},
			},
			Angles: roundAngles(angles),
		},
	}
}
