// Package coach runs a frame through pose detection, the exercise state
// machine, the overlay renderer and the announcer. It is the single entry
// point shared by the live loop and the frame service.
package coach

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"strings"

	"gocv.io/x/gocv"

	"github.com/sampathk123/RepWise/internal/exercise"
	"github.com/sampathk123/RepWise/internal/log"
	"github.com/sampathk123/RepWise/internal/pose"
	"github.com/sampathk123/RepWise/internal/render"
)

// Status classifies the outcome of a frame.
type Status string

const (
	StatusSuccess     Status = "success"
	StatusNoPerson    Status = "no_person"
	StatusNoKeypoints Status = "no_keypoints"
	StatusError       Status = "error"
)

// ErrDecode is returned when a submitted frame cannot be decoded.
var ErrDecode = errors.New("cannot decode frame")

const dataURIPrefix = "data:image/jpeg;base64,"

// Result is the per-frame response.
type Result struct {
	Status         Status         `json:"status"`
	Exercise       string         `json:"exercise,omitempty"`
	RepCount       int            `json:"rep_count"`
	Phase          exercise.Phase `json:"phase"`
	Feedback       string         `json:"feedback_text"`
	Metrics        map[string]int `json:"metrics,omitempty"`
	ProcessedFrame string         `json:"processed_frame,omitempty"`
	Message        string         `json:"message,omitempty"`

	// Cues are the lines handed to the session's announcer.
	Cues []exercise.Cue `json:"-"`
}

// Analyzer processes frames for any number of sessions with one detector.
type Analyzer struct {
	detector      pose.Detector
	minVisibility float64
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithMinVisibility sets the visibility threshold used to decide whether a
// detected person has any usable landmark and which joints are drawn.
func WithMinVisibility(v float64) Option {
	return func(a *Analyzer) {
		if v >= 0 && v <= 1 {
			a.minVisibility = v
		}
	}
}

// NewAnalyzer creates an Analyzer around a pose detector.
func NewAnalyzer(detector pose.Detector, opts ...Option) *Analyzer {
	a := &Analyzer{
		detector:      detector,
		minVisibility: exercise.DefaultMinVisibility,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze processes one frame for a session and annotates it in place.
// Failures never propagate: they become a Result with StatusError and leave
// the session untouched.
func (a *Analyzer) Analyze(s *exercise.Session, frame *gocv.Mat, name string) (res *Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("frame analysis panicked", "session", s.ID(), "panic", r)
			res = a.failure(s, fmt.Errorf("internal error: %v", r))
		}
	}()

	if frame == nil || frame.Empty() {
		return a.failure(s, ErrDecode)
	}

	poses, err := a.detector.Detect(frame)
	if err != nil {
		log.Warn("pose detection failed", "session", s.ID(), "error", err)
		return a.failure(s, fmt.Errorf("detect pose: %w", err))
	}

	if len(poses) == 0 {
		return a.waiting(s, frame, StatusNoPerson, "No person detected")
	}

	p := primary(poses)
	if !p.AnyVisible(a.minVisibility) {
		return a.waiting(s, frame, StatusNoKeypoints, "No keypoints detected")
	}

	out := s.Process(p, name)

	render.Skeleton(frame, p, a.minVisibility)
	render.Hints(frame, p, out.Hints)
	render.HUD(frame, out.State.Reps, out.State.Phase)
	render.Banner(frame, out.Feedback)

	if an := s.Announcer(); an != nil {
		for _, cue := range out.Cues {
			an.Announce(cue.Text, cue.Force)
		}
	}

	res = &Result{
		Status:   StatusSuccess,
		RepCount: out.State.Reps,
		Phase:    out.State.Phase,
		Feedback: out.Feedback,
		Cues:     out.Cues,
	}
	if out.Exercise != nil {
		res.Exercise = out.Exercise.Name()
	}
	if len(out.Angles) > 0 {
		res.Metrics = make(map[string]int, len(out.Angles))
		for ch, v := range out.Angles {
			res.Metrics[string(ch)+"_angle"] = int(math.Round(v))
		}
	}
	return res
}

// AnalyzeEncoded decodes a JPEG data URI (or bare base64), analyzes it and
// returns the annotated frame as a data URI in the result.
func (a *Analyzer) AnalyzeEncoded(s *exercise.Session, frame string, name string) *Result {
	data, err := DecodeDataURI(frame)
	if err != nil {
		return a.failure(s, err)
	}

	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return a.failure(s, fmt.Errorf("%w: %v", ErrDecode, err))
	}
	defer mat.Close()

	if mat.Empty() {
		return a.failure(s, ErrDecode)
	}

	res := a.Analyze(s, &mat, name)

	if encoded, err := EncodeDataURI(&mat); err == nil {
		res.ProcessedFrame = encoded
	} else {
		log.Warn("encode processed frame", "session", s.ID(), "error", err)
	}

	return res
}

func (a *Analyzer) failure(s *exercise.Session, err error) *Result {
	state := s.State()
	return &Result{
		Status:   StatusError,
		RepCount: state.Reps,
		Phase:    state.Phase,
		Feedback: state.Feedback,
		Message:  err.Error(),
	}
}

// waiting reports a frame without a usable person. State is left alone and
// the frame only gets a notice and the counter.
func (a *Analyzer) waiting(s *exercise.Session, frame *gocv.Mat, status Status, message string) *Result {
	state := s.State()

	render.HUD(frame, state.Reps, exercise.Waiting)
	render.Notice(frame, render.NoticeAdjust)

	return &Result{
		Status:   status,
		RepCount: state.Reps,
		Phase:    exercise.Waiting,
		Feedback: state.Feedback,
		Message:  message,
	}
}

// primary picks the most confident person.
func primary(poses []pose.Pose) *pose.Pose {
	best := &poses[0]
	for i := 1; i < len(poses); i++ {
		if poses[i].Score > best.Score {
			best = &poses[i]
		}
	}
	return best
}

// DecodeDataURI returns the image bytes of a base64 data URI. A bare base64
// payload without the "data:" header is accepted too.
func DecodeDataURI(uri string) ([]byte, error) {
	payload := strings.TrimSpace(uri)
	if strings.HasPrefix(payload, "data:") {
		comma := strings.IndexByte(payload, ',')
		if comma < 0 || !strings.Contains(payload[:comma], ";base64") {
			return nil, fmt.Errorf("%w: malformed data URI", ErrDecode)
		}
		payload = payload[comma+1:]
	}
	if payload == "" {
		return nil, fmt.Errorf("%w: empty frame", ErrDecode)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return data, nil
}

// EncodeDataURI encodes a frame as a JPEG data URI.
func EncodeDataURI(frame *gocv.Mat) (string, error) {
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		return "", fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	return dataURIPrefix + base64.StdEncoding.EncodeToString(buf.GetBytes()), nil
}
