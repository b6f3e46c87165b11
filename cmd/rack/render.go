package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/pipelined/rack"
	"github.com/pipelined/rack/graph"
	"github.com/pipelined/rack/signal"
	"github.com/pipelined/rack/wav"
)

var (
	renderDuration time.Duration
	renderBitDepth int
)

var renderCmd = &cobra.Command{
	Use:   "render <patch.yaml> <out.wav>",
	Short: "render a patch offline into a wav file",
	Args:  cobra.ExactArgs(2),
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

		writer, err := wav.NewWriter(args[1], engine.SampleRate(), signal.BitDepth(renderBitDepth))
		if err != nil {
			return err
		}

		frames := int(renderDuration.Seconds() * float64(engine.SampleRate()))
		block := signal.New(engine.BlockSize())
		for frames > 0 {
			if frames < len(block) {
				block = block[:frames]
			}
			engine.Pull(block)
			if err := writer.Write(block); err != nil {
				return multierr.Append(err, writer.Close())
			}
			frames -= len(block)
		}
		return writer.Close()
	},
}

func init() {
	renderCmd.Flags().DurationVar(&renderDuration, "duration", 10*time.Second, "length of audio to render")
	renderCmd.Flags().IntVar(&renderBitDepth, "bit-depth", 16, "output bit depth, 16 or 32")
	rootCmd.AddCommand(renderCmd)
}
