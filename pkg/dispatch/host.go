package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Host implements the external capabilities with the platform's own tools.
type Host struct{}

func (Host) Reveal(path string) error {
	if runtime.GOOS == "darwin" {
		return start(exec.Command("open", "-R", path))
	}
	return start(exec.Command("xdg-open", dirOf(path)))
}

func (Host) RequestRename(path string) error {
	// No portable inline rename exists; the browser shows the new entry selected.
	slog.Debug("rename requested", "path", path)
	return nil
}

func (Host) OpenTerminal(dir string) error {
	switch runtime.GOOS {
	case "darwin":
		return start(exec.Command("open", "-a", "Terminal", dir))
	default:
		term := os.Getenv("TERMINAL")
		if term == "" {
			term = "x-terminal-emulator"
		}
		cmd := exec.Command(term)
		cmd.Dir = dir
		return start(cmd)
	}
}

func (Host) OpenWith(app string, paths []string) error {
	if runtime.GOOS == "darwin" {
		return start(exec.Command("open", append([]string{"-a", app}, paths...)...))
	}
	return start(exec.Command(app, paths...))
}

func (Host) ToggleHiddenFiles() error {
	if runtime.GOOS != "darwin" {
		return fmt.Errorf("toggling hidden files is not supported on %s", runtime.GOOS)
	}
	out, _ := exec.Command("defaults", "read", "com.apple.finder", "AppleShowAllFiles").Output()
	next := "true"
	if v := strings.ToLower(strings.TrimSpace(string(out))); v == "1" || v == "true" || v == "yes" {
		next = "false"
	}
	if err := exec.Command("defaults", "write", "com.apple.finder", "AppleShowAllFiles", next).Run(); err != nil {
		return err
	}
	return exec.Command("killall", "Finder").Run()
}

// ShellRunner runs scripts with /bin/sh in the target directory.
type ShellRunner struct{}

func (ShellRunner) Run(ctx context.Context, script, dir string, args []string) error {
	cmd := exec.CommandContext(ctx, "/bin/sh", append([]string{script}, args...)...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("script %s: %w: %s", script, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// start launches cmd without waiting for it and reaps it once it exits.
func start(cmd *exec.Cmd) error {
	_, err := launch(cmd)
	return err
}

// launch starts cmd and returns a channel that receives its exit result.
func launch(cmd *exec.Cmd) (<-chan error, error) {
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	done := make(chan error, 1)
	go func() {
		err := cmd.Wait()
		if err != nil {
			slog.Debug("launched command exited", "cmd", cmd.Path, "error", err)
		}
		done <- err
	}()
	return done, nil
}

func dirOf(path string) string {
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return path
	}
	return filepath.Dir(path)
}
