package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/fulcrumsim/desim/desim"
	"github.com/fulcrumsim/desim/examples/ping"
	"github.com/fulcrumsim/desim/examples/ring"
	"github.com/fulcrumsim/desim/monitoring"
)

// modelBuilders maps a model name, as passed to `desimctl run <model>`, to
// the function that assembles it.
var modelBuilders = map[string]func() (*desim.Simulator, error){
	"ping": ping.BuildSimulator,
	"ring": func() (*desim.Simulator, error) { return ring.BuildSimulator(4) },
}

var runMaxTime float64

var runCmd = &cobra.Command{
	Use:   "run [ping|ring]",
	Short: "Build and run a bundled example model to completion.",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		sim, err := buildModelOrDie(args[0])
		if err != nil {
			log.Fatalf("desimctl: %v", err)
		}

		summary, err := sim.Run(desim.Time(runMaxTime))
		if err != nil {
			log.Fatalf("desimctl: run failed: %v", err)
		}

		printSummary(summary)
	},
}

var (
	monitorPort      int
	monitorNoBrowser bool
)

var monitorCmd = &cobra.Command{
	Use:   "monitor [ping|ring]",
	Short: "Build a model and run it under the monitoring HTTP server.",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		sim, err := buildModelOrDie(args[0])
		if err != nil {
			log.Fatalf("desimctl: %v", err)
		}

		mon := monitoring.NewMonitor().WithPortNumber(monitorPort)
		mon.RegisterSimulator(sim)
		mon.StartServer()

		if !monitorNoBrowser {
			// StartServer has bound its listener by the time it returns; the
			// short pause lets the serving goroutine start. The URL uses the
			// --port value, not the port the server reports.
			time.Sleep(100 * time.Millisecond)

			if err := browser.OpenURL(fmt.Sprintf("http://localhost:%d/api/objects", monitorPort)); err != nil {
				fmt.Fprintf(os.Stderr, "desimctl: opening browser: %v\n", err)
			}
		}

		summary, err := sim.Run(desim.Time(runMaxTime))
		if err != nil {
			log.Fatalf("desimctl: run failed: %v", err)
		}

		printSummary(summary)
	},
}

func buildModelOrDie(name string) (*desim.Simulator, error) {
	build, ok := modelBuilders[name]
	if !ok {
		return nil, fmt.Errorf("unknown model %q (want one of: ping, ring)", name)
	}

	return build()
}

func printSummary(summary desim.RunSummary) {
	fmt.Printf("events dispatched: %d\n", summary.NumEvents)
	fmt.Printf("final sim time:    %.4f\n", float64(summary.FinalSimTime))
	fmt.Printf("wall duration:     %s\n", summary.Duration)
	fmt.Printf("termination:       %s\n", summary.TerminationReason)

	if summary.TerminationReason == desim.TerminationError {
		fmt.Printf("error kind:        %s\n", summary.ErrorKind)
		fmt.Printf("error:             %v\n", summary.Err)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Float64Var(&runMaxTime, "max-time", 25, "simulation time to run up to")

	rootCmd.AddCommand(monitorCmd)
	monitorCmd.Flags().Float64Var(&runMaxTime, "max-time", 25, "simulation time to run up to")
	monitorCmd.Flags().IntVar(&monitorPort, "port", 8080, "port the monitoring server binds to")
	monitorCmd.Flags().BoolVar(&monitorNoBrowser, "no-browser", false, "do not open the monitoring dashboard automatically")
}
