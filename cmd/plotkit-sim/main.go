// Command plotkit-sim drives a chart model against a synthetic view.
//
// It binds notifying sample buffers to the model, feeds them from a
// rate-limited generator, and logs each update cycle, which makes the
// debounce, generation, and collection behavior observable without a
// rendering surface.
package main

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts simOptions

	cmd := &cobra.Command{
		Use:   "plotkit-sim",
		Short: "Headless chart update-cycle simulator",
		Long: `plotkit-sim runs the plotkit update coordinator against a synthetic
view with a pair of wave series. Data mutations arrive through bound,
change-notifying sample buffers at a configurable rate; the simulator
logs every update cycle and the resources it keeps or releases.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.verbose {
				log.SetLevel(log.DebugLevel)
			}
			return runSim(cmd.Context(), opts)
		},
	}

	cmd.Flags().DurationVar(&opts.duration, "duration", 3*time.Second, "how long to run the simulation")
	cmd.Flags().Float64Var(&opts.rate, "rate", 60, "data mutations per second")
	cmd.Flags().DurationVar(&opts.collectEvery, "collect-every", 250*time.Millisecond, "garbage collection interval")
	cmd.Flags().StringVar(&opts.configDir, "config-dir", ".", "directory searched for plotkit.yaml")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	return cmd
}
