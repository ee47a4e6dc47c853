package pose

import (
	"errors"

	"gocv.io/x/gocv"
)

// ErrDetectorUnavailable is returned when no pose backend can be started.
var ErrDetectorUnavailable = errors.New("pose detector unavailable")

// Detector defines the interface for body pose detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns the detected people.
	// Returns an empty slice if nobody is detected.
	Detect(frame *gocv.Mat) ([]Pose, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Backend selects the pose model run by the pose service.
type Backend string

const (
	// BackendMediaPipe reports 33 landmarks with relative depth.
	BackendMediaPipe Backend = "mediapipe"
	// BackendYOLO reports the 17 COCO keypoints in 2D.
	BackendYOLO Backend = "yolo"
)

// Config holds configuration options for pose detection.
type Config struct {
	// Backend is the pose model to run (default: mediapipe).
	Backend Backend

	// PythonPath overrides the interpreter used to run the pose service.
	PythonPath string

	// ScriptPath overrides the location of pose_service.py.
	ScriptPath string

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Backend:       BackendMediaPipe,
		MinConfidence: 0.5,
	}
}
