package app

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/sampathk123/RepWise/internal/announce"
	"github.com/sampathk123/RepWise/internal/capture"
	"github.com/sampathk123/RepWise/internal/coach"
	"github.com/sampathk123/RepWise/internal/pose"
	"github.com/sampathk123/RepWise/internal/store"
)

// spoken records announcements.
type spoken struct {
	mu    sync.Mutex
	texts []string
}

func (s *spoken) Speak(ctx context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts = append(s.texts, text)
	return nil
}

func (s *spoken) contains(text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.texts {
		if t == text {
			return true
		}
	}
	return false
}

func newTestApp(t *testing.T, s *store.Store) (*App, *pose.MockDetector, *spoken) {
	t.Helper()

	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 240, 320, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { frame.Close() })

	detector := pose.NewMockDetector()
	speaker := &spoken{}
	a := New(Config{
		Camera:   capture.NewMockCamera([]*gocv.Mat{&frame}, true),
		Detector: detector,
		Store:    s,
		Exercise: "bicep_curl",
		Speaker:  speaker,
	})
	return a, detector, speaker
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestApp_CountsRepsFromCamera(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	a, detector, speaker := newTestApp(t, nil)

	var mu sync.Mutex
	var results int
	a.OnResult(func(*coach.Result) {
		mu.Lock()
		results++
		mu.Unlock()
	})

	detector.SetPoses(pose.ArmPose(170))
	if err := a.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer a.Stop()

	detector.SetPoses(pose.ArmPose(30))
	waitFor(t, "curled phase", func() bool { return a.State().Phase == "curled" })

	detector.SetPoses(pose.ArmPose(170))
	waitFor(t, "one rep", func() bool { return a.State().Reps == 1 })

	waitFor(t, "rep announcement", func() bool { return speaker.contains("Rep complete!") })

	if a.camera.FPS() != capture.ActiveFPS {
		t.Errorf("FPS() = %d while tracking, want %d", a.camera.FPS(), capture.ActiveFPS)
	}

	frame, err := a.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	if frame.Empty() {
		t.Error("ReadFrame() returned an empty preview")
	}
	frame.Close()

	mu.Lock()
	if results == 0 {
		t.Error("OnResult was never called")
	}
	mu.Unlock()

	a.Reset()
	if got := a.State(); got.Reps != 0 {
		t.Errorf("reps after Reset = %d, want 0", got.Reps)
	}
}

func TestApp_Disabled(t *testing.T) {
	a, detector, _ := newTestApp(t, nil)
	detector.SetPoses(pose.ArmPose(30))
	a.SetEnabled(false)

	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 120, 160, gocv.MatTypeCV8UC3)
	if res := a.process(&frame); res != nil {
		t.Errorf("process() while disabled = %+v, want nil", res)
	}
	if detector.Calls() != 0 {
		t.Errorf("detector called %d times while disabled", detector.Calls())
	}

	// The preview still updates
	preview, err := a.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	preview.Close()
	a.Stop()
}

func TestApp_ReadFrameBeforeStart(t *testing.T) {
	a, _, _ := newTestApp(t, nil)

	if _, err := a.ReadFrame(); !errors.Is(err, capture.ErrNoFrame) {
		t.Errorf("ReadFrame() error = %v, want ErrNoFrame", err)
	}
}

func TestApp_Settings(t *testing.T) {
	s := newTestStore(t)

	t.Run("persists exercise and voice", func(t *testing.T) {
		a, _, _ := newTestApp(t, s)

		if err := a.SetExercise("Push-Up"); err != nil {
			t.Fatalf("SetExercise() error = %v", err)
		}
		if a.Exercise() != "pushup" {
			t.Errorf("Exercise() = %q, want pushup", a.Exercise())
		}
		if err := a.SetVoice(false); err != nil {
			t.Fatalf("SetVoice() error = %v", err)
		}

		if got, _ := s.Settings().Get(store.SettingDefaultExercise); got != "pushup" {
			t.Errorf("stored exercise = %q, want pushup", got)
		}
		if got, _ := s.Settings().Get(store.SettingVoiceEnabled); got != "false" {
			t.Errorf("stored voice = %q, want false", got)
		}
	})

	t.Run("rejects unknown exercise", func(t *testing.T) {
		a, _, _ := newTestApp(t, s)

		if err := a.SetExercise("jumping_jacks"); err == nil {
			t.Error("SetExercise(jumping_jacks) should fail")
		}
	})

	t.Run("applies stored settings", func(t *testing.T) {
		if err := s.Settings().Set(store.SettingCooldown, "1s"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}

		a, _, _ := newTestApp(t, s)
		a.ApplySettings()

		if a.Exercise() != "pushup" {
			t.Errorf("Exercise() = %q, want pushup", a.Exercise())
		}
		if a.VoiceEnabled() {
			t.Error("voice should be off")
		}
		if a.announcer.Cooldown() != time.Second {
			t.Errorf("Cooldown() = %v, want 1s", a.announcer.Cooldown())
		}
	})

	t.Run("handles live changes", func(t *testing.T) {
		a, _, _ := newTestApp(t, nil)

		a.HandleSetting(store.SettingDefaultExercise, "shoulder_press")
		a.HandleSetting(store.SettingVoiceEnabled, "false")
		a.HandleSetting(store.SettingCooldown, "250ms")

		if a.Exercise() != "shoulder_press" {
			t.Errorf("Exercise() = %q, want shoulder_press", a.Exercise())
		}
		if a.VoiceEnabled() {
			t.Error("voice should be off")
		}
		if a.announcer.Cooldown() != 250*time.Millisecond {
			t.Errorf("Cooldown() = %v, want 250ms", a.announcer.Cooldown())
		}
	})
}

func TestNew_Defaults(t *testing.T) {
	a := New(Config{
		Camera:   capture.NewMockCamera(nil, false),
		Detector: pose.NewMockDetector(),
		Exercise: "yoga",
	})

	if a.Exercise() != "bicep_curl" {
		t.Errorf("unknown exercise should fall back to bicep_curl, got %q", a.Exercise())
	}
	if a.announcer.Cooldown() != announce.DefaultCooldown {
		t.Errorf("Cooldown() = %v, want %v", a.announcer.Cooldown(), announce.DefaultCooldown)
	}
	if !a.IsEnabled() {
		t.Error("app should start enabled")
	}
	if a.Session().ID() != SessionID {
		t.Errorf("session id = %q, want %q", a.Session().ID(), SessionID)
	}
}
