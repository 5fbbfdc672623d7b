package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/triage/internal/report"
	"github.com/papapumpkin/triage/internal/ui"
	"github.com/papapumpkin/triage/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-analyze a batch file whenever it changes",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	addInputFlags(watchCmd)
	addOutputFlags(watchCmd, report.FormatList)
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := setup()
	if err != nil {
		return err
	}
	strategy, err := newStrategy(cmd, s.cfg)
	if err != nil {
		return err
	}
	if _, err := referenceTime(cmd); err != nil {
		return err
	}
	printer := ui.New()
	path := args[0]

	w, err := watch.New(path)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	render := func() {
		count, err := renderBatch(cmd, s, strategy, path, out)
		if err != nil {
			printer.Error(err.Error())
			return
		}
		printer.Reloaded(path, count)
	}

	render()
	printer.Info("watching " + w.Path + " (ctrl-c to stop)")
	for {
		select {
		case <-ctx.Done():
			printer.Info("\nstopped watching")
			return nil
		case change, ok := <-w.Changes:
			if !ok {
				return nil
			}
			if change.Kind == watch.ChangeRemoved {
				printer.Warn(path + " was removed; waiting for it to reappear")
				continue
			}
			s.logger.Debug("batch changed", "path", change.Path)
			render()
		}
	}
}

// renderBatch analyzes the file once and writes the report. The reference
// time is resolved on every call so a long-running watch follows the clock.
func renderBatch(cmd *cobra.Command, s *session, strategy report.Strategy, path string, out io.Writer) (int, error) {
	now, err := referenceTime(cmd)
	if err != nil {
		return 0, err
	}
	payload, err := loadBatch(cmd, path)
	if err != nil {
		return 0, err
	}
	tasks, err := s.analyzer.Analyze(payload, now)
	if err != nil {
		return 0, err
	}
	fmt.Fprint(out, strategy.Render(tasks))
	return len(tasks), nil
}
