package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dgallion1/examtex/internal/markup"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// debounceDelay collapses the burst of events one editor save produces.
const debounceDelay = 100 * time.Millisecond

func watchCmd() *cobra.Command {
	var flags renderFlags
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-render a file every time it is saved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := flags.renderer()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return watch(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), r, args[0], flags.format)
		},
	}
	flags.register(cmd)
	return cmd
}

// watch renders path once, then again after every write until ctx ends.
// The parent directory is watched so editors that save by renaming a
// temporary file are still seen.
func watch(ctx context.Context, out, errOut io.Writer, r *markup.Renderer, path, format string) error {
	path = filepath.Clean(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	renderOnce := func() {
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(errOut, "read %s: %v\n", path, err)
			return
		}
		fmt.Fprintf(out, "--- %s (%s)\n", path, time.Now().Format(time.TimeOnly))
		if err := writeRendered(out, r.Render(string(src)), format); err != nil {
			fmt.Fprintf(errOut, "render: %v\n", err)
		}
	}
	renderOnce()

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			debounce = time.After(debounceDelay)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(errOut, "watch error: %v\n", err)
		case <-debounce:
			debounce = nil
			renderOnce()
		}
	}
}
