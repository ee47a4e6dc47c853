// Package pose provides body pose detection interfaces and types for exercise tracking.
package pose

import "image"

// Joint identifies a canonical body landmark independent of the detection backend.
type Joint int

// Canonical joints. Backends map their native keypoint indices onto these.
const (
	Nose Joint = iota
	LeftShoulder
	RightShoulder
	LeftElbow
	RightElbow
	LeftWrist
	RightWrist
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle
	NumJoints
)

var jointNames = [NumJoints]string{
	"nose",
	"left_shoulder", "right_shoulder",
	"left_elbow", "right_elbow",
	"left_wrist", "right_wrist",
	"left_hip", "right_hip",
	"left_knee", "right_knee",
	"left_ankle", "right_ankle",
}

// String returns the snake_case name of the joint.
func (j Joint) String() string {
	if j < 0 || j >= NumJoints {
		return "unknown"
	}
	return jointNames[j]
}

// Skeleton lists the joint pairs drawn as limbs.
var Skeleton = [][2]Joint{
	{LeftShoulder, RightShoulder},
	{LeftShoulder, LeftElbow},
	{LeftElbow, LeftWrist},
	{RightShoulder, RightElbow},
	{RightElbow, RightWrist},
	{LeftShoulder, LeftHip},
	{RightShoulder, RightHip},
	{LeftHip, RightHip},
	{LeftHip, LeftKnee},
	{LeftKnee, LeftAnkle},
	{RightHip, RightKnee},
	{RightKnee, RightAnkle},
}

// Landmark is a detected body point. X and Y are normalized to the frame
// (0..1); Z is relative depth and only meaningful when the pose has depth.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// Pose is a single detected person.
type Pose struct {
	Landmarks [NumJoints]Landmark `json:"landmarks"`
	Score     float64             `json:"score"`
	HasDepth  bool                `json:"has_depth"`

	// Aspect is the frame width divided by its height. Zero means square.
	Aspect float64 `json:"aspect,omitempty"`
}

// SetFrameSize records the aspect ratio of the frame the pose was found in.
func (p *Pose) SetFrameSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	p.Aspect = float64(width) / float64(height)
}

// Visible reports whether the joint was detected at a usable position with at
// least the given visibility.
func (p *Pose) Visible(j Joint, minVisibility float64) bool {
	if p == nil || j < 0 || j >= NumJoints {
		return false
	}
	lm := p.Landmarks[j]
	return lm.X > 0 && lm.Y > 0 && lm.Visibility >= minVisibility
}

// AnyVisible reports whether at least one joint is usable.
func (p *Pose) AnyVisible(minVisibility float64) bool {
	for j := Joint(0); j < NumJoints; j++ {
		if p.Visible(j, minVisibility) {
			return true
		}
	}
	return false
}

// Vector returns the joint position as a 3-component vector when the pose has
// depth, otherwise as a 2-component vector. X and Z are scaled by the aspect
// ratio so every axis is in frame-height units and angles match pixel space.
func (p *Pose) Vector(j Joint) []float64 {
	lm := p.Landmarks[j]
	scale := 1.0
	if p.Aspect > 0 {
		scale = p.Aspect
	}
	if p.HasDepth {
		return []float64{lm.X * scale, lm.Y, lm.Z * scale}
	}
	return []float64{lm.X * scale, lm.Y}
}

// Pixel converts the joint position to pixel coordinates in a frame of the given size.
func (p *Pose) Pixel(j Joint, width, height int) image.Point {
	lm := p.Landmarks[j]
	return image.Pt(int(lm.X*float64(width)), int(lm.Y*float64(height)))
}
