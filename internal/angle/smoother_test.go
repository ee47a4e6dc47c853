package angle

import "testing"

func TestSmoother_ConstantInput(t *testing.T) {
	s := NewSmoother(DefaultWindow)

	var got float64
	for i := 0; i < 7; i++ {
		got = s.Smooth(Elbow, 137.25)
	}

	if got != 137.25 {
		t.Errorf("Smooth() = %v, want 137.25", got)
	}
}

func TestSmoother_MovingAverage(t *testing.T) {
	s := NewSmoother(DefaultWindow)

	var got float64
	for _, v := range []float64{10, 20, 30, 40, 50} {
		got = s.Smooth(Elbow, v)
	}
	if got != 30 {
		t.Errorf("mean of [10 20 30 40 50] = %v, want 30", got)
	}

	got = s.Smooth(Elbow, 60)
	if got != 40 {
		t.Errorf("mean after evicting oldest = %v, want 40", got)
	}

	if n := s.Len(Elbow); n != DefaultWindow {
		t.Errorf("Len() = %d, want %d", n, DefaultWindow)
	}
}

func TestSmoother_PartialWindow(t *testing.T) {
	s := NewSmoother(DefaultWindow)

	if got := s.Smooth(Elbow, 90); got != 90 {
		t.Errorf("first sample = %v, want 90", got)
	}
	if got := s.Smooth(Elbow, 100); got != 95 {
		t.Errorf("second sample = %v, want 95", got)
	}
}

func TestSmoother_ChannelsAreIndependent(t *testing.T) {
	s := NewSmoother(DefaultWindow)

	s.Smooth(Elbow, 40)
	s.Smooth(Elbow, 60)
	back := s.Smooth(Back, 170)

	if back != 170 {
		t.Errorf("back channel = %v, want 170", back)
	}
	if n := s.Len(Elbow); n != 2 {
		t.Errorf("elbow Len() = %d, want 2", n)
	}
	if n := s.Len(Back); n != 1 {
		t.Errorf("back Len() = %d, want 1", n)
	}
}

func TestSmoother_Reset(t *testing.T) {
	s := NewSmoother(DefaultWindow)
	s.Smooth(Elbow, 10)
	s.Smooth(Back, 20)

	s.Reset()

	if s.Len(Elbow) != 0 || s.Len(Back) != 0 {
		t.Fatal("Reset() should clear all channels")
	}
	if got := s.Smooth(Elbow, 150); got != 150 {
		t.Errorf("Smooth() after reset = %v, want 150", got)
	}
}

func TestNewSmoother_InvalidWindow(t *testing.T) {
	if w := NewSmoother(0).Window(); w != DefaultWindow {
		t.Errorf("Window() = %d, want %d", w, DefaultWindow)
	}
	if w := NewSmoother(3).Window(); w != 3 {
		t.Errorf("Window() = %d, want 3", w)
	}
}
