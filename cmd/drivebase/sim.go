package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/team708/go-drivebase/internal/config"
	"github.com/team708/go-drivebase/internal/log"
	"github.com/team708/go-drivebase/pkg/drive"
	"github.com/team708/go-drivebase/pkg/sim"
	"github.com/team708/go-drivebase/pkg/telemetry"
)

// segment is one stretch of the scripted operator profile.
type segment struct {
	name    string
	seconds float64
	command func(d *drive.Drivetrain)
}

// profile exercises both drive styles and both control modes: a straight
// cruise that should hold heading against drift, a free turn, a matched
// tank segment that re-enters heading hold, and a stop.
var profile = []segment{
	{"cruise", 5.0, func(d *drive.Drivetrain) { d.HaloDrive(0.5, 0) }},
	{"turn", 2.0, func(d *drive.Drivetrain) { d.HaloDrive(0.3, 0.4) }},
	{"tank straight", 4.0, func(d *drive.Drivetrain) { d.TankDrive(0.6, 0.61) }},
	{"stop", 1.0, func(d *drive.Drivetrain) { d.HaloDrive(0, 0) }},
}

func runSim(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("kp") {
		cfg.Drive.Kp = kp
	}
	if flags.Changed("ki") {
		cfg.Drive.Ki = ki
	}
	if flags.Changed("kd") {
		cfg.Drive.Kd = kd
	}
	if flags.Changed("drift") {
		cfg.Sim.Drift = drift
	}
	if port != "" {
		cfg.Dashboard.Port = port
	}

	runID := uuid.NewString()
	log.Info("starting sim run", "run_id", runID,
		"kp", cfg.Drive.Kp, "ki", cfg.Drive.Ki, "kd", cfg.Drive.Kd,
		"drift_dps", cfg.Sim.Drift)

	gyro := sim.NewGyro(cfg.Sim.Drift)
	chassis := sim.NewChassis(gyro)
	d := drive.New(chassis.MotorGroup(), gyro, sim.NewAccelerometer(), drive.Config{
		Kp:        cfg.Drive.Kp,
		Ki:        cfg.Drive.Ki,
		Kd:        cfg.Drive.Kd,
		Tolerance: cfg.Drive.Tolerance,
		Period:    cfg.Drive.Period(),
	})

	go d.Run()
	defer d.StopLoop()

	if !noDash {
		telemetry.NewServer(d, cfg.Dashboard.Port, 0).StartAsync()
	}

	trace := runProfile(d, chassis, cfg.Drive.Period())

	fmt.Println(asciigraph.Plot(trace,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("heading (deg) over %.0fs, drift %.1f deg/s", duration, cfg.Sim.Drift)),
	))

	final := d.Snapshot()
	log.Info("sim run finished", "run_id", runID,
		"final_heading", final.GyroAngle, "on_target", final.OnTarget, "mode", final.Mode)
	return nil
}

// runProfile plays the scripted segments at the control period, stepping the
// chassis model each tick and recording the heading trace. Profile segment
// lengths are scaled so the whole script fits in --time.
func runProfile(d *drive.Drivetrain, chassis *sim.Chassis, period time.Duration) []float64 {
	var total float64
	for _, s := range profile {
		total += s.seconds
	}
	scale := duration / total
	dt := period.Seconds()

	var trace []float64
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for _, s := range profile {
		log.Info("profile segment", "name", s.name, "seconds", s.seconds*scale)
		ticks := int(s.seconds * scale / dt)
		for i := 0; i < ticks; i++ {
			<-ticker.C
			s.command(d)
			chassis.Step(dt)
			trace = append(trace, d.Angle())
		}
	}
	d.Stop()
	return trace
}
