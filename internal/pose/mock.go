package pose

import (
	"math"
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	poses []Pose
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetPoses sets the poses that will be returned by Detect.
func (m *MockDetector) SetPoses(poses ...Pose) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.poses = poses
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured poses or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]Pose, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.poses, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// ArmPose returns a pose with the right arm bent to the given elbow angle.
// The upper arm hangs straight down from the shoulder.
func ArmPose(elbowDeg float64) Pose {
	p := Pose{Score: 0.95, HasDepth: true}

	rad := elbowDeg * math.Pi / 180
	p.Landmarks[RightShoulder] = visible(0.5, 0.3)
	p.Landmarks[RightElbow] = visible(0.5, 0.5)
	p.Landmarks[RightWrist] = visible(0.5+0.2*math.Sin(rad), 0.5-0.2*math.Cos(rad))

	return p
}

// PushUpPose returns a side-on pose with the left elbow at elbowDeg and the
// shoulder-hip-knee line at backDeg.
func PushUpPose(elbowDeg, backDeg float64) Pose {
	p := Pose{Score: 0.95, HasDepth: true}

	elbow := elbowDeg * math.Pi / 180
	back := backDeg * math.Pi / 180

	p.Landmarks[LeftShoulder] = visible(0.3, 0.5)
	p.Landmarks[LeftElbow] = visible(0.3, 0.7)
	p.Landmarks[LeftWrist] = visible(0.3+0.2*math.Sin(elbow), 0.7-0.2*math.Cos(elbow))

	// Shoulder sits straight behind the hip; the knee swings down by backDeg.
	p.Landmarks[LeftHip] = visible(0.5, 0.5)
	p.Landmarks[LeftKnee] = visible(0.5-0.2*math.Cos(back), 0.5+0.2*math.Sin(back))

	return p
}

func visible(x, y float64) Landmark {
	return Landmark{X: x, Y: y, Visibility: 1}
}
