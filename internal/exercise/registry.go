package exercise

import (
	"sort"
	"strings"
)

// FeedbackNoExercise is shown when the requested exercise is unknown.
const FeedbackNoExercise = "No exercise selected."

var aliases = map[string]string{
	"biceps":  "bicep_curl",
	"curl":    "bicep_curl",
	"push_up": "pushup",
	"squat":   "barbell_squat",
	"pullup":  "pull_up",
}

// Registry resolves exercise names to state machines.
type Registry struct {
	exercises map[string]Exercise
}

// NewRegistry creates a registry holding the given exercises.
func NewRegistry(exercises ...Exercise) *Registry {
	r := &Registry{exercises: make(map[string]Exercise, len(exercises))}
	for _, ex := range exercises {
		r.exercises[ex.Name()] = ex
	}
	return r
}

// DefaultRegistry returns a registry with every known exercise.
func DefaultRegistry() *Registry {
	return NewRegistry(
		BicepCurl{},
		PushUp{},
		NewPlaceholder("barbell_squat", "Barbell Squat"),
		NewPlaceholder("deadlift", "Deadlift"),
		NewPlaceholder("chest_press", "Chest Press"),
		NewPlaceholder("shoulder_press", "Shoulder Press"),
		NewPlaceholder("pull_up", "Pull Up"),
	)
}

// Normalize canonicalizes an exercise name: lower case, trimmed, with
// dashes and spaces as underscores, and aliases resolved.
func Normalize(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.NewReplacer("-", "_", " ", "_").Replace(n)
	if canonical, ok := aliases[n]; ok {
		return canonical
	}
	return n
}

// Lookup returns the exercise registered under name or one of its aliases.
func (r *Registry) Lookup(name string) (Exercise, bool) {
	ex, ok := r.exercises[Normalize(name)]
	return ex, ok
}

// Names returns the canonical names of all registered exercises, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.exercises))
	for name := range r.exercises {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
