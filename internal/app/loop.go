package app

import (
	"time"

	"gocv.io/x/gocv"

	"github.com/sampathk123/RepWise/internal/capture"
	"github.com/sampathk123/RepWise/internal/coach"
	"github.com/sampathk123/RepWise/internal/log"
)

// run reads frames until stop is closed. The read rate follows the pacer:
// motion or a tracked person keeps it at the active rate.
func (a *App) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	fps := capture.IdleFPS
	ticker := time.NewTicker(capture.Interval(fps))
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		frame, err := a.camera.ReadFrame()
		if err != nil {
			log.Debug("reading frame", "error", err)
			continue
		}

		moved, _ := a.motion.Detect(frame)
		res := a.process(frame)

		next := a.pacer.Observe(moved || (res != nil && res.Status == coach.StatusSuccess))
		if next != fps {
			fps = next
			a.camera.SetFPS(fps)
			ticker.Reset(capture.Interval(fps))
			log.Debug("frame rate changed", "fps", fps)
		}
	}
}

// process analyzes one frame and keeps it as the latest preview. It takes
// ownership of frame.
func (a *App) process(frame *gocv.Mat) *coach.Result {
	a.mu.RLock()
	enabled, name, onResult := a.enabled, a.exercise, a.onResult
	a.mu.RUnlock()

	var res *coach.Result
	if enabled {
		res = a.analyzer.Analyze(a.session, frame, name)
		if res.Status == coach.StatusError {
			log.Warn("frame analysis failed", "error", res.Message)
		}
	}

	a.frameMu.Lock()
	if a.latest != nil {
		a.latest.Close()
	}
	a.latest = frame
	a.frameMu.Unlock()

	if res != nil && onResult != nil {
		onResult(res)
	}
	return res
}
