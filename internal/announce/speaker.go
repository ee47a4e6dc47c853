package announce

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// Speaker renders a line of text as audio (or anything else that consumes it).
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// SpeakerFunc adapts an ordinary function to the Speaker interface.
type SpeakerFunc func(ctx context.Context, text string) error

// Speak calls f(ctx, text).
func (f SpeakerFunc) Speak(ctx context.Context, text string) error {
	return f(ctx, text)
}

// DefaultSpeechTimeout bounds a single text-to-speech invocation.
const DefaultSpeechTimeout = 10 * time.Second

// CommandSpeaker speaks by running an external text-to-speech command with
// the text as its final argument (e.g. "say" or "espeak-ng").
type CommandSpeaker struct {
	command string
	args    []string
	timeout time.Duration
}

// NewCommandSpeaker creates a CommandSpeaker. Extra args are passed before the text.
func NewCommandSpeaker(command string, timeout time.Duration, args ...string) *CommandSpeaker {
	if timeout <= 0 {
		timeout = DefaultSpeechTimeout
	}
	return &CommandSpeaker{
		command: command,
		args:    args,
		timeout: timeout,
	}
}

// Speak runs the command and waits for it to finish or time out.
func (s *CommandSpeaker) Speak(ctx context.Context, text string) error {
	if s.command == "" {
		return errors.New("no speech command configured")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	args := append(append([]string{}, s.args...), text)
	cmd := exec.CommandContext(ctx, s.command, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("speech timeout after %v", s.timeout)
	}

	if err != nil {
		if msg := stderr.String(); msg != "" {
			return fmt.Errorf("speech command failed: %w, stderr: %s", err, msg)
		}
		return fmt.Errorf("speech command failed: %w", err)
	}

	return nil
}
