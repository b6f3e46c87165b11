package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pipelined/rack/graph"
	"github.com/pipelined/rack/portaudio"
)

var playStats bool

var playCmd = &cobra.Command{
	Use:   "play <patch.yaml>",
	Short: "play a patch on the default audio device until interrupted",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		patch, err := graph.ParsePatch(data)
		if err != nil {
			return fmt.Errorf("parse patch: %w", err)
		}

		engine, err := newEngine()
		if err != nil {
			return err
		}
		defer func() { _ = engine.Close() }()
		if err := engine.Load(patch); err != nil {
			return fmt.Errorf("load patch: %w", err)
		}

		playback := portaudio.NewPlayback(engine, engine.SampleRate(), engine.BlockSize())
		if err := playback.Start(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		group, ctx := errgroup.WithContext(ctx)
		if playStats {
			group.Go(func() error {
				ticker := time.NewTicker(time.Second)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return nil
					case <-ticker.C:
						m := engine.Metrics()
						fmt.Fprintf(cmd.ErrOrStderr(), "blocks=%d underruns=%d skips=%d\n",
							m.Blocks.Load(), m.Underruns.Load(), m.Skips.Load())
					}
				}
			})
		}
		group.Go(func() error {
			<-ctx.Done()
			return playback.Close()
		})
		return group.Wait()
	},
}

func init() {
	playCmd.Flags().BoolVar(&playStats, "stats", false, "print render counters every second")
	rootCmd.AddCommand(playCmd)
}
