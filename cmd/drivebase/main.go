// Command drivebase runs the drivetrain controller against simulated
// hardware and serves the telemetry dashboard.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/team708/go-drivebase/internal/log"
)

var (
	logLevel   string
	configFile string
	port       string

	kp       float64
	ki       float64
	kd       float64
	drift    float64
	duration float64
	noDash   bool

	watchURL string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "drivebase",
		Short: "gyro-stabilized tank drivetrain controller",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Init(logLevel)
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	simCmd := &cobra.Command{
		Use:   "sim",
		Short: "drive a simulated chassis through a scripted profile",
		RunE:  runSim,
	}
	simCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	simCmd.Flags().StringVar(&port, "port", "", "dashboard port (overrides config)")
	simCmd.Flags().Float64Var(&kp, "kp", 0, "heading loop kp (overrides config)")
	simCmd.Flags().Float64Var(&ki, "ki", 0, "heading loop ki (overrides config)")
	simCmd.Flags().Float64Var(&kd, "kd", 0, "heading loop kd (overrides config)")
	simCmd.Flags().Float64Var(&drift, "drift", 0, "gyro drift bias, deg/s (overrides config)")
	simCmd.Flags().Float64Var(&duration, "time", 12.0, "profile duration, seconds")
	simCmd.Flags().BoolVar(&noDash, "no-dashboard", false, "skip the telemetry server")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "stream snapshots from a running dashboard",
		RunE:  runWatch,
	}
	watchCmd.Flags().StringVar(&watchURL, "url", "ws://localhost:8708/ws/state", "dashboard websocket URL")

	rootCmd.AddCommand(simCmd, watchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
