// Package capture reads webcam frames for the live loop and decides how fast
// to read them.
package capture

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Camera settings used when no option overrides them.
const (
	ActiveFPS     = 15
	IdleFPS       = 5
	DefaultWidth  = 640
	DefaultHeight = 480
)

var (
	// ErrCameraNotOpen is returned when reading from a camera that is not open.
	ErrCameraNotOpen = errors.New("camera is not open")
	// ErrNoFrame is returned when the device produced no usable frame.
	ErrNoFrame = errors.New("no frame available")
)

// Camera is a source of BGR frames.
type Camera interface {
	Open() error
	Close() error
	ReadFrame() (*gocv.Mat, error)
	SetFPS(fps int)
	FPS() int
	IsOpen() bool
}

// CameraOption configures a device camera.
type CameraOption func(*deviceCamera)

// WithResolution requests a capture size. Non-positive values are ignored.
func WithResolution(width, height int) CameraOption {
	return func(c *deviceCamera) {
		if width > 0 && height > 0 {
			c.width, c.height = width, height
		}
	}
}

// WithMirror flips frames horizontally so the user sees a mirror image.
func WithMirror(mirror bool) CameraOption {
	return func(c *deviceCamera) {
		c.mirror = mirror
	}
}

// deviceCamera reads from a local video device through OpenCV.
type deviceCamera struct {
	mu       sync.Mutex
	deviceID int
	capture  *gocv.VideoCapture
	fps      int
	width    int
	height   int
	mirror   bool
}

// NewCamera returns a Camera for the given device. It starts at IdleFPS and
// mirrors frames unless told otherwise.
func NewCamera(deviceID int, opts ...CameraOption) Camera {
	c := &deviceCamera{
		deviceID: deviceID,
		fps:      IdleFPS,
		width:    DefaultWidth,
		height:   DefaultHeight,
		mirror:   true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *deviceCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capture != nil {
		return nil
	}

	vc, err := gocv.OpenVideoCapture(c.deviceID)
	if err != nil {
		return fmt.Errorf("open camera %d: %w", c.deviceID, err)
	}

	vc.Set(gocv.VideoCaptureFrameWidth, float64(c.width))
	vc.Set(gocv.VideoCaptureFrameHeight, float64(c.height))
	vc.Set(gocv.VideoCaptureFPS, float64(c.fps))

	c.capture = vc
	return nil
}

func (c *deviceCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capture == nil {
		return nil
	}

	err := c.capture.Close()
	c.capture = nil
	return err
}

// ReadFrame grabs the next frame. The caller closes the returned Mat.
func (c *deviceCamera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok || mat.Empty() {
		mat.Close()
		return nil, ErrNoFrame
	}

	if c.mirror {
		gocv.Flip(mat, &mat, 1)
	}

	return &mat, nil
}

// SetFPS changes the requested frame rate. Non-positive values are ignored.
func (c *deviceCamera) SetFPS(fps int) {
	if fps <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.fps = fps
	if c.capture != nil {
		c.capture.Set(gocv.VideoCaptureFPS, float64(fps))
	}
}

func (c *deviceCamera) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fps
}

func (c *deviceCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.capture != nil
}
