// Command repwise serves the frame analysis WebSocket and the catalog API.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sampathk123/RepWise/internal/coach"
	"github.com/sampathk123/RepWise/internal/config"
	"github.com/sampathk123/RepWise/internal/exercise"
	"github.com/sampathk123/RepWise/internal/log"
	"github.com/sampathk123/RepWise/internal/pose"
	"github.com/sampathk123/RepWise/internal/server"
	"github.com/sampathk123/RepWise/internal/store"
)

func main() {
	if err := run(); err != nil {
		log.Error("repwise failed", "error", err)
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

	detector, err := pose.NewServiceDetector(pose.Config{
		Backend:    pose.Backend(cfg.Backend),
		PythonPath: cfg.PythonPath,
		ScriptPath: cfg.PoseScript,
	})
	if err != nil {
		return err
	}
	defer detector.Close()

	webDir := findWebDir()
	if webDir != "" {
		log.Info("serving static files", "dir", webDir)
	}

	settings := st.Settings()
	srv := server.New(server.Config{
		StaticDir:       webDir,
		Store:           st,
		Registry:        exercise.DefaultRegistry(),
		Analyzer:        coach.NewAnalyzer(detector, coach.WithMinVisibility(cfg.MinVisibility)),
		DefaultExercise: settings.String(store.SettingDefaultExercise, cfg.Exercise),
		Cooldown:        settings.Duration(store.SettingCooldown, cfg.Cooldown),
		MinVisibility:   cfg.MinVisibility,
	})

	log.Info("starting server", "addr", cfg.Addr, "backend", cfg.Backend)
	return srv.ListenAndServe(cfg.Addr)
}

// findWebDir returns the first existing web directory, checking "web",
// "../web", "../../web" and ~/.repwise/web.
func findWebDir() string {
	candidates := []string{"web", "../web", "../../web"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".repwise", "web"))
	}

	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}
