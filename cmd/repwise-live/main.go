// Command repwise-live counts reps from the local webcam. It runs from the
// system tray and serves a live preview, or shows an OpenCV window with -window.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"gocv.io/x/gocv"

	"github.com/sampathk123/RepWise/internal/announce"
	"github.com/sampathk123/RepWise/internal/app"
	"github.com/sampathk123/RepWise/internal/coach"
	"github.com/sampathk123/RepWise/internal/config"
	"github.com/sampathk123/RepWise/internal/exercise"
	"github.com/sampathk123/RepWise/internal/log"
	"github.com/sampathk123/RepWise/internal/pose"
	"github.com/sampathk123/RepWise/internal/server"
	"github.com/sampathk123/RepWise/internal/store"
	"github.com/sampathk123/RepWise/internal/tray"
)

var showWindow = flag.Bool("window", false, "show an OpenCV preview window instead of the tray")

func main() {
	flag.Parse()

	if err := run(); err != nil {
		log.Error("repwise-live failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	log.Init(cfg.LogLevel)

	st, err := store.New(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close()

	registry := exercise.DefaultRegistry()
	a := app.New(app.Config{
		CameraID: cfg.CameraID,
		Pose: pose.Config{
			Backend:    pose.Backend(cfg.Backend),
			PythonPath: cfg.PythonPath,
			ScriptPath: cfg.PoseScript,
		},
		Store:         st,
		Registry:      registry,
		Exercise:      cfg.Exercise,
		Speaker:       announce.NewCommandSpeaker(cfg.SpeechCommand, announce.DefaultSpeechTimeout),
		Cooldown:      cfg.Cooldown,
		MinVisibility: cfg.MinVisibility,
	})
	a.ApplySettings()

	if err := a.Start(); err != nil {
		return fmt.Errorf("start camera: %w", err)
	}
	defer a.Stop()

	if *showWindow {
		runWindow(a)
		return nil
	}

	srv := server.New(server.Config{
		Store:           st,
		Registry:        registry,
		Frames:          a,
		OnSettingChange: a.HandleSetting,
	})
	srv.Sessions().Add(a.Session())

	go func() {
		log.Info("serving live preview", "addr", cfg.Addr)
		if err := srv.ListenAndServe(cfg.Addr); err != nil {
			log.Error("server stopped", "error", err)
		}
	}()

	runTray(a, registry, previewURL(cfg.Addr))
	return nil
}

// runWindow shows annotated frames until 'q' is pressed. 'r' resets the count.
func runWindow(a *app.App) {
	window := gocv.NewWindow("RepWise")
	defer window.Close()

	for {
		if frame, err := a.ReadFrame(); err == nil {
			window.IMShow(*frame)
			frame.Close()
		}

		switch window.WaitKey(30) {
		case 'q':
			return
		case 'r':
			a.Reset()
		}
	}
}

func runTray(a *app.App, registry *exercise.Registry, preview string) {
	var choices []tray.Choice
	for _, name := range registry.Names() {
		ex, _ := registry.Lookup(name)
		choices = append(choices, tray.Choice{Name: name, Title: ex.Title()})
	}

	t := tray.New(choices, a.Exercise(), a.VoiceEnabled())
	t.OnVoice(func(on bool) {
		if err := a.SetVoice(on); err != nil {
			log.Warn("saving voice setting", "error", err)
		}
	})
	t.OnSelect(func(name string) {
		if err := a.SetExercise(name); err != nil {
			log.Warn("selecting exercise", "exercise", name, "error", err)
		}
	})
	t.OnReset(a.Reset)
	t.OnStream(func() {
		if err := openBrowser(preview); err != nil {
			log.Warn("opening preview", "url", preview, "error", err)
		}
	})
	t.OnQuit(func() {
		log.Info("quit requested")
	})
	a.OnResult(func(res *coach.Result) {
		t.SetReps(res.RepCount)
	})

	t.Run()
}

// previewURL turns a listen address such as ":8080" into the stream URL.
func previewURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/api/stream"
}

func openBrowser(url string) error {
	name := "xdg-open"
	if runtime.GOOS == "darwin" {
		name = "open"
	}
	return exec.Command(name, url).Start()
}
