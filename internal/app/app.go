// Package app runs the live coaching loop: camera frames go through the
// analyzer and come out as an annotated preview, rep counts and speech.
package app

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/sampathk123/RepWise/internal/announce"
	"github.com/sampathk123/RepWise/internal/capture"
	"github.com/sampathk123/RepWise/internal/coach"
	"github.com/sampathk123/RepWise/internal/exercise"
	"github.com/sampathk123/RepWise/internal/log"
	"github.com/sampathk123/RepWise/internal/pose"
	"github.com/sampathk123/RepWise/internal/store"
)

// SessionID identifies the single session owned by the live loop.
const SessionID = "live"

// Config holds configuration options for the live loop.
type Config struct {
	// Camera overrides the device camera, mostly for tests.
	Camera   capture.Camera
	CameraID int

	// Detector overrides the pose service.
	Detector pose.Detector
	Pose     pose.Config

	Store    *store.Store
	Registry *exercise.Registry

	Exercise      string
	Speaker       announce.Speaker
	Cooldown      time.Duration
	MinVisibility float64
	MotionThresh  float64
}

// App owns the camera, the pose detector and the live session.
type App struct {
	config    Config
	camera    capture.Camera
	motion    *capture.MotionDetector
	pacer     *capture.Pacer
	detector  pose.Detector
	analyzer  *coach.Analyzer
	session   *exercise.Session
	announcer *announce.Announcer

	mu       sync.RWMutex
	enabled  bool
	exercise string
	onResult func(*coach.Result)
	stopCh   chan struct{}
	doneCh   chan struct{}

	frameMu sync.Mutex
	latest  *gocv.Mat
}

// New creates an App. A missing pose service is not fatal: the loop keeps
// running with a detector that never sees anyone.
func New(config Config) *App {
	if config.Registry == nil {
		config.Registry = exercise.DefaultRegistry()
	}
	if config.MinVisibility <= 0 {
		config.MinVisibility = exercise.DefaultMinVisibility
	}
	if config.Cooldown <= 0 {
		config.Cooldown = announce.DefaultCooldown
	}

	name := exercise.Normalize(config.Exercise)
	if _, ok := config.Registry.Lookup(name); !ok {
		name = "bicep_curl"
	}

	a := &App{
		config:   config,
		camera:   config.Camera,
		motion:   capture.NewMotionDetector(config.MotionThresh),
		pacer:    capture.NewPacer(capture.IdleFPS, capture.ActiveFPS, capture.DefaultActiveHold),
		detector: config.Detector,
		enabled:  true,
		exercise: name,
	}

	if a.camera == nil {
		a.camera = capture.NewCamera(config.CameraID)
	}

	if a.detector == nil {
		if d, err := pose.NewServiceDetector(config.Pose); err == nil {
			a.detector = d
			log.Info("using pose service", "backend", config.Pose.Backend)
		} else {
			log.Warn("pose service not available, nobody will be detected", "error", err)
			a.detector = pose.NewMockDetector()
		}
	}

	a.announcer = announce.New(config.Speaker, announce.WithCooldown(config.Cooldown))
	a.analyzer = coach.NewAnalyzer(a.detector, coach.WithMinVisibility(config.MinVisibility))
	a.session = exercise.NewSession(SessionID, config.Registry,
		exercise.WithAnnouncer(a.announcer),
		exercise.WithMinVisibility(config.MinVisibility),
		exercise.WithExercise(name),
	)

	return a
}

// ApplySettings loads persisted settings over the configured defaults.
func (a *App) ApplySettings() {
	if a.config.Store == nil {
		return
	}
	settings := a.config.Store.Settings()

	if name := settings.String(store.SettingDefaultExercise, ""); name != "" {
		if err := a.selectExercise(name); err != nil {
			log.Warn("ignoring stored exercise", "exercise", name, "error", err)
		}
	}
	a.announcer.SetEnabled(settings.Bool(store.SettingVoiceEnabled, true))
	a.announcer.SetCooldown(settings.Duration(store.SettingCooldown, a.config.Cooldown))
}

// HandleSetting applies a setting changed elsewhere, such as over HTTP.
// Values are expected to be validated already.
func (a *App) HandleSetting(key, value string) {
	switch key {
	case store.SettingDefaultExercise:
		if err := a.selectExercise(value); err != nil {
			log.Warn("setting exercise", "exercise", value, "error", err)
		}
	case store.SettingVoiceEnabled:
		if on, err := strconv.ParseBool(value); err == nil {
			a.announcer.SetEnabled(on)
		}
	case store.SettingCooldown:
		if d, err := time.ParseDuration(value); err == nil {
			a.announcer.SetCooldown(d)
		}
	}
}

// SetExercise switches the tracked exercise and remembers it as the default.
func (a *App) SetExercise(name string) error {
	if err := a.selectExercise(name); err != nil {
		return err
	}
	return a.persist(store.SettingDefaultExercise, a.Exercise())
}

func (a *App) selectExercise(name string) error {
	ex, ok := a.session.Select(name)
	if !ok {
		return fmt.Errorf("unknown exercise %q", name)
	}

	a.mu.Lock()
	a.exercise = ex.Name()
	a.mu.Unlock()

	log.Info("exercise selected", "exercise", ex.Name())
	return nil
}

// Exercise returns the canonical name of the tracked exercise.
func (a *App) Exercise() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.exercise
}

// SetVoice turns spoken feedback on or off and persists the choice.
func (a *App) SetVoice(on bool) error {
	a.announcer.SetEnabled(on)
	return a.persist(store.SettingVoiceEnabled, strconv.FormatBool(on))
}

// VoiceEnabled reports whether spoken feedback is on.
func (a *App) VoiceEnabled() bool {
	return a.announcer.Enabled()
}

func (a *App) persist(key, value string) error {
	if a.config.Store == nil {
		return nil
	}
	if err := a.config.Store.Settings().Set(key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Reset zeroes the rep counter of the live session.
func (a *App) Reset() {
	a.session.Reset()
	log.Info("session reset", "session", SessionID)
}

// State returns the live session state.
func (a *App) State() exercise.State {
	return a.session.State()
}

// Session returns the live session.
func (a *App) Session() *exercise.Session {
	return a.session
}

// SetEnabled pauses or resumes frame analysis.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled reports whether frames are being analyzed.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// OnResult registers a callback invoked after every analyzed frame.
func (a *App) OnResult(fn func(*coach.Result)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onResult = fn
}

// Start opens the camera and begins the capture loop.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(capture.IdleFPS)

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.run(a.stopCh, a.doneCh)

	log.Info("live loop started", "exercise", a.exercise)
	return nil
}

// Stop halts the loop and releases the camera, detector and preview frame.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, doneCh := a.stopCh, a.doneCh
	a.stopCh, a.doneCh = nil, nil
	a.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
		<-doneCh
	}

	if err := a.camera.Close(); err != nil {
		log.Warn("closing camera", "error", err)
	}
	a.motion.Close()
	if err := a.detector.Close(); err != nil {
		log.Warn("closing pose detector", "error", err)
	}

	a.frameMu.Lock()
	if a.latest != nil {
		a.latest.Close()
		a.latest = nil
	}
	a.frameMu.Unlock()

	log.Info("live loop stopped")
}

// ReadFrame returns a copy of the latest annotated frame. The caller closes it.
func (a *App) ReadFrame() (*gocv.Mat, error) {
	a.frameMu.Lock()
	defer a.frameMu.Unlock()

	if a.latest == nil {
		return nil, capture.ErrNoFrame
	}
	frame := a.latest.Clone()
	return &frame, nil
}
