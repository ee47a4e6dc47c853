package exercise

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"bicep_curl", "bicep_curl"},
		{"  Bicep Curl ", "bicep_curl"},
		{"BICEPS", "bicep_curl"},
		{"curl", "bicep_curl"},
		{"push-up", "pushup"},
		{"Push Up", "pushup"},
		{"squat", "barbell_squat"},
		{"pullup", "pull_up"},
		{"shoulder-press", "shoulder_press"},
		{"yoga", "yoga"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()

	want := []string{"barbell_squat", "bicep_curl", "chest_press", "deadlift", "pull_up", "pushup", "shoulder_press"}
	if got := r.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}

	ex, ok := r.Lookup("Curl")
	if !ok {
		t.Fatal("Lookup(Curl) failed")
	}
	if ex.Title() != "Bicep Curl" {
		t.Errorf("Title() = %q, want Bicep Curl", ex.Title())
	}

	if _, ok := r.Lookup(""); ok {
		t.Error("empty name should not resolve")
	}

	custom := NewRegistry(PushUp{})
	if _, ok := custom.Lookup("bicep_curl"); ok {
		t.Error("custom registry should only hold push-ups")
	}
}
