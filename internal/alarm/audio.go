package alarm

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"sync"
)

// audioLayer plays a one-shot completion sound through whichever command-line
// player the platform offers. Missing players, missing assets and audio
// policy errors all degrade to the next layer.
type audioLayer struct {
	soundPath string
	volume    float64

	mu  sync.Mutex
	cmd *exec.Cmd
}

func newAudioLayer(soundPath string, volume float64) *audioLayer {
	if volume <= 0 || volume > 1 {
		volume = 1
	}
	return &audioLayer{soundPath: soundPath, volume: volume}
}

func (a *audioLayer) Name() string { return "audio" }

func (a *audioLayer) Trigger(ctx context.Context) error {
	name, args, err := a.playerCommand()
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", name, err)
	}

	a.mu.Lock()
	a.cmd = cmd
	a.mu.Unlock()

	// One-shot playback; reap the process without holding up the chain.
	go func() {
		cmd.Wait()
		a.mu.Lock()
		if a.cmd == cmd {
			a.cmd = nil
		}
		a.mu.Unlock()
	}()

	return nil
}

func (a *audioLayer) Stop() {
	a.mu.Lock()
	cmd := a.cmd
	a.cmd = nil
	a.mu.Unlock()

	if cmd != nil && cmd.Process != nil {
		cmd.Process.Kill()
	}
}

func (a *audioLayer) playerCommand() (string, []string, error) {
	switch runtime.GOOS {
	case "darwin":
		if _, err := exec.LookPath("afplay"); err != nil {
			return "", nil, errors.New("afplay not available")
		}
		path := a.soundPath
		if path == "" {
			path = "/System/Library/Sounds/Glass.aiff"
		}
		return "afplay", []string{"-v", strconv.FormatFloat(a.volume, 'f', 2, 64), path}, nil
	default:
		if _, err := exec.LookPath("paplay"); err == nil {
			if a.soundPath == "" {
				return "", nil, errors.New("no completion sound configured")
			}
			// paplay volume is 0..65536.
			vol := strconv.Itoa(int(a.volume * 65536))
			return "paplay", []string{"--volume", vol, a.soundPath}, nil
		}
		if _, err := exec.LookPath("aplay"); err == nil {
			if a.soundPath == "" {
				return "", nil, errors.New("no completion sound configured")
			}
			return "aplay", []string{"-q", a.soundPath}, nil
		}
		return "", nil, errors.New("no audio player available")
	}
}
