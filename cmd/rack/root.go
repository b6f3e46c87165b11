package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pipelined/rack"
)

var rootCmd = &cobra.Command{
	Use:   "rack",
	Short: "modular signal-processing engine",
	Long: `rack renders networks of signal-processing modules described by
patch files into audio, either live or offline.`,
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.Int("sample-rate", rack.DefaultSampleRate, "internal sample rate")
	flags.Int("block-size", rack.DefaultBlockSize, "frames per render block")
	flags.Int("queue-capacity", rack.DefaultQueueCapacity, "bridge queue capacity")

	viper.SetEnvPrefix("rack")
	viper.AutomaticEnv()
	_ = viper.BindPFlag("sample_rate", flags.Lookup("sample-rate"))
	_ = viper.BindPFlag("block_size", flags.Lookup("block-size"))
	_ = viper.BindPFlag("queue_capacity", flags.Lookup("queue-capacity"))
}

// newEngine builds an engine from flags and environment.
func newEngine() (*rack.Engine, error) {
	return rack.New(
		rack.WithSampleRate(viper.GetInt("sample_rate")),
		rack.WithBlockSize(viper.GetInt("block_size")),
		rack.WithQueueCapacity(viper.GetInt("queue_capacity")),
	)
}
