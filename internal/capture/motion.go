package capture

import (
	"image"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

const (
	// blurKernel smooths sensor noise before differencing.
	blurKernel = 21
	// pixelDelta is the grey-level change that marks a pixel as moved.
	pixelDelta = 25
	// DefaultMotionThreshold is the percentage of moved pixels that counts as motion.
	DefaultMotionThreshold = 1.0
	// DefaultActiveHold keeps the loop at ActiveFPS after the last motion.
	DefaultActiveHold = 5 * time.Second
)

// MotionDetector compares consecutive frames and reports the share of
// pixels that changed.
type MotionDetector struct {
	mu        sync.Mutex
	threshold float64
	prev      gocv.Mat
	primed    bool
}

// NewMotionDetector creates a detector that fires when more than threshold
// percent of pixels change between frames.
func NewMotionDetector(threshold float64) *MotionDetector {
	if threshold <= 0 {
		threshold = DefaultMotionThreshold
	}
	return &MotionDetector{
		threshold: threshold,
		prev:      gocv.NewMat(),
	}
}

// Detect reports whether frame moved relative to the previous call and the
// changed-pixel percentage. The first frame only primes the baseline.
func (m *MotionDetector) Detect(frame *gocv.Mat) (bool, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}
	gocv.GaussianBlur(gray, &gray, image.Pt(blurKernel, blurKernel), 0, 0, gocv.BorderDefault)

	if !m.primed || m.prev.Rows() != gray.Rows() || m.prev.Cols() != gray.Cols() {
		gray.CopyTo(&m.prev)
		m.primed = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(gray, m.prev, &diff)
	gocv.Threshold(diff, &diff, pixelDelta, 255, gocv.ThresholdBinary)

	changed := float64(gocv.CountNonZero(diff)) / float64(diff.Rows()*diff.Cols()) * 100
	gray.CopyTo(&m.prev)

	return changed > m.threshold, changed
}

// Reset drops the baseline so the next frame primes it again.
func (m *MotionDetector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.release()
}

// Close releases the baseline frame.
func (m *MotionDetector) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.release()
}

func (m *MotionDetector) release() {
	if !m.prev.Empty() {
		m.prev.Close()
		m.prev = gocv.NewMat()
	}
	m.primed = false
}

// SetThreshold changes the motion threshold. Non-positive values are ignored.
func (m *MotionDetector) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.threshold = threshold
}

// Pacer picks the capture rate. Motion or a visible person switches it to
// the active rate, which holds until nothing has happened for the hold period.
type Pacer struct {
	mu         sync.Mutex
	idle       int
	active     int
	hold       time.Duration
	now        func() time.Time
	lastActive time.Time
}

// NewPacer creates a Pacer. Non-positive arguments fall back to IdleFPS,
// ActiveFPS and DefaultActiveHold.
func NewPacer(idle, active int, hold time.Duration) *Pacer {
	if idle <= 0 {
		idle = IdleFPS
	}
	if active <= 0 {
		active = ActiveFPS
	}
	if hold <= 0 {
		hold = DefaultActiveHold
	}
	return &Pacer{idle: idle, active: active, hold: hold, now: time.Now}
}

// Observe records activity and returns the frame rate to use next.
func (p *Pacer) Observe(active bool) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if active {
		p.lastActive = now
	}
	if !p.lastActive.IsZero() && now.Sub(p.lastActive) < p.hold {
		return p.active
	}
	return p.idle
}

// Interval converts a frame rate into the delay between reads.
func Interval(fps int) time.Duration {
	if fps <= 0 {
		fps = IdleFPS
	}
	return time.Second / time.Duration(fps)
}
