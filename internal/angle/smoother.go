package angle

import "gonum.org/v1/gonum/stat"

// DefaultWindow is the number of recent samples averaged per channel.
const DefaultWindow = 5

// Channel names an independently smoothed angle stream.
type Channel string

// Channels measured by the implemented exercises.
const (
	Elbow Channel = "elbow"
	Back  Channel = "back"
)

// Smoother keeps a fixed-size FIFO window per channel and returns the moving
// average of that window. It is not safe for concurrent use; each exercise
// session owns its own Smoother.
type Smoother struct {
	window  int
	buffers map[Channel][]float64
}

// NewSmoother creates a Smoother with the given window size.
// Sizes less than 1 fall back to DefaultWindow.
func NewSmoother(window int) *Smoother {
	if window < 1 {
		window = DefaultWindow
	}
	return &Smoother{
		window:  window,
		buffers: make(map[Channel][]float64),
	}
}

// Smooth appends raw to the channel's window, evicting the oldest sample when
// the window is full, and returns the mean of the window.
func (s *Smoother) Smooth(ch Channel, raw float64) float64 {
	buf, ok := s.buffers[ch]
	if !ok {
		buf = make([]float64, 0, s.window)
	}

	if len(buf) >= s.window {
		// Shift left by 1, dropping the oldest sample
		copy(buf, buf[1:])
		buf = buf[:s.window-1]
	}
	buf = append(buf, raw)
	s.buffers[ch] = buf

	return stat.Mean(buf, nil)
}

// Len returns the number of samples currently held for the channel.
func (s *Smoother) Len(ch Channel) int {
	return len(s.buffers[ch])
}

// Window returns the configured window size.
func (s *Smoother) Window() int {
	return s.window
}

// Reset discards every channel's samples.
func (s *Smoother) Reset() {
	s.buffers = make(map[Channel][]float64)
}
