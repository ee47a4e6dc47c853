package exercise

import "fmt"

// Placeholder is an exercise whose counting rules do not exist yet. It only
// reports that fact and never touches reps or phase.
type Placeholder struct {
	name  string
	title string
}

// NewPlaceholder creates a placeholder exercise.
func NewPlaceholder(name, title string) Placeholder {
	return Placeholder{name: name, title: title}
}

func (p Placeholder) Name() string       { return p.name }
func (p Placeholder) Title() string      { return p.title }
func (Placeholder) InitialPhase() Phase  { return "" }
func (Placeholder) Phases() []Phase      { return nil }
func (Placeholder) Angles() []AngleSpec  { return nil }
func (p Placeholder) Reposition() string { return p.Feedback() }

// Feedback is the line shown for every frame.
func (p Placeholder) Feedback() string {
	return fmt.Sprintf("%s logic not implemented.", p.title)
}

func (p Placeholder) Step(prev State, _ Angles) Transition {
	next := prev
	next.Feedback = p.Feedback()
	return Transition{State: next}
}
