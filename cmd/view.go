package cmd

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/zjrosen/intradiff/internal/log"
	"github.com/zjrosen/intradiff/internal/pubsub"
	"github.com/zjrosen/intradiff/internal/render"
	"github.com/zjrosen/intradiff/internal/ui/pager"
)

var viewCmd = &cobra.Command{
	Use:   "view [DIFF]",
	Short: "Page through a diff in the terminal",
	Long: `Open an interactive pager over a diff with intraline highlighting.

Takes the same inputs as render. With --watch the pager reloads whenever
the input changes. Press ? for key bindings.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runView,
}

var (
	viewIn    inputFlags
	viewOut   outputFlags
	viewWatch bool
)

func init() {
	viewIn.register(viewCmd)
	viewOut.register(viewCmd)
	viewCmd.Flags().BoolVarP(&viewWatch, "watch", "w", false, "reload whenever the input changes")
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	if err := viewIn.validate(args); err != nil {
		return err
	}
	src := newSource(viewIn, args)
	if viewWatch && src.fromStdin() {
		return errors.New("view --watch needs a diff file, --git or --old/--new")
	}

	opts, err := renderOptions(cfg, viewOut)
	if err != nil {
		return err
	}
	computer, err := newComputer(cfg.Intraline)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	files, err := src.Load(ctx)
	if err != nil {
		return err
	}

	pcfg := pager.Config{
		Options:  opts,
		Computer: computer,
		TerminalOptions: []render.TerminalOption{
			render.WithColorProfile(termenv.EnvColorProfile()),
			render.WithTerminalTracer(tracer()),
		},
	}
	if b := log.Broker(); b != nil {
		pcfg.Logs = b
	}

	if viewWatch {
		paths, err := src.WatchPaths(files)
		if err != nil {
			return err
		}
		reloads := pubsub.NewBroker[pager.Reload]()
		defer reloads.Close()
		pcfg.Reloads = reloads

		go func() {
			err := watchLoop(ctx, paths, func() {
				files, err := src.Load(ctx)
				if err != nil {
					log.ErrorErr(log.CatWatcher, "reload failed, keeping previous diff", err)
					reloads.Publish(pubsub.ReloadFailedEvent, pager.Reload{Err: err})
					return
				}
				reloads.Publish(pubsub.ReloadedEvent, pager.Reload{Files: files})
			})
			if err != nil {
				log.ErrorErr(log.CatWatcher, "watcher stopped", err)
				reloads.Publish(pubsub.ReloadFailedEvent, pager.Reload{Err: err})
			}
		}()
	}

	progOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if src.fromStdin() {
		// stdin carried the diff; read keys from the terminal instead.
		progOpts = append(progOpts, tea.WithInputTTY())
	}
	p := tea.NewProgram(pager.New(ctx, files, pcfg), progOpts...)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running pager: %w", err)
	}
	return nil
}
