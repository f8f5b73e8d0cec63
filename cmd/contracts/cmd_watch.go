package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/TRT-MichaelO/contracts/pkg/contract"
	"github.com/TRT-MichaelO/contracts/pkg/lib"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch SPEC FILE",
	Short: "Check FILE now and again every time it is written",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		c, err := a.parse(args[0])
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return watchFile(ctx, c, a.scope, args[1], cmd.OutOrStdout())
	},
}

// watchFile re-checks path after every write until ctx is done. Check
// failures are reported to out and do not stop the watch.
func watchFile(ctx context.Context, c contract.Contract, scope contract.Context, path string, out io.Writer) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()
	// editors often replace the file instead of writing it, so the
	// directory is watched and events are filtered by name
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	recheck := func() {
		fmt.Fprintf(out, "--- %s %s\n", time.Now().Format(time.TimeOnly), path)
		sources, err := readSources(appFs, nil, []string{abs}, nil)
		if err != nil {
			lib.Report(out, err)
			return
		}
		ck := checker{contract: c, scope: scope, out: out}
		lib.Report(out, ck.run(sources))
	}

	recheck()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			log.Debug().Str("file", ev.Name).Stringer("op", ev.Op).Msg("file changed")
			recheck()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watch error")
		}
	}
}
