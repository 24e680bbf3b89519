package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"nifri2/animatronic-face/internal/config"
	"nifri2/animatronic-face/internal/input"
	"nifri2/animatronic-face/internal/logging"
	"nifri2/animatronic-face/internal/sim"
)

const frameInterval = 50 * time.Millisecond

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run both nodes in the terminal",
	Long: `Starts the eyes and mouth nodes linked by an in-memory serial pipe. The arrow
keys turn the encoder (shift for a fast turn), space presses the button and
q quits. Logs go to --log-file because the terminal is taken by the view.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := readOptions(cmd)
		if err != nil {
			return err
		}

		logPath, _ := cmd.Flags().GetString("log-file")
		debug, _ := cmd.Flags().GetBool("debug")
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer logFile.Close()
		level := slog.LevelInfo
		if debug {
			level = slog.LevelDebug
		}
		logger := logging.New(logFile, level)
		logger.Info("facesim starting", "version", Version, "seed", opts.Seed)

		s, err := newSimulation(opts, logger)
		if err != nil {
			return err
		}

		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("open terminal: %w", err)
		}
		if err := screen.Init(); err != nil {
			return fmt.Errorf("init terminal: %w", err)
		}
		defer screen.Fini()

		ctx, quit := context.WithCancel(cmd.Context())
		defer quit()

		panels := []sim.Panel{
			{Title: "left eye", Canvas: s.Canvases[0]},
			{Title: "right eye", Canvas: s.Canvases[1]},
			{Title: "mouth", Canvas: s.Canvases[2]},
		}
		view := sim.NewView(screen, panels, s.LEDs, s.Status)
		view.OnQuit = quit

		var g errgroup.Group
		g.Go(func() error {
			defer quit()
			return s.Run(ctx)
		})
		g.Go(func() error {
			err := view.Run(ctx, s.Keys, frameInterval)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
		err = g.Wait()
		logger.Info("facesim stopped", "error", err)
		return err
	},
}

// readOptions gathers run flags into simulation options.
func readOptions(cmd *cobra.Command) (options, error) {
	flags := cmd.Flags()
	opts := options{Tunables: config.Default(), ScriptGap: 300 * time.Millisecond}

	if path, _ := flags.GetString("config"); path != "" {
		t, err := config.Load(path)
		if err != nil {
			return opts, err
		}
		opts.Tunables = t
	}

	opts.Seed, _ = flags.GetUint64("seed")
	if opts.Seed == 0 {
		opts.Seed = uint64(time.Now().UnixNano())
	}
	opts.Audio, _ = flags.GetString("audio")
	opts.MetricsAddr, _ = flags.GetString("metrics-addr")

	if script, _ := flags.GetString("script"); script != "" {
		data, err := os.ReadFile(script)
		if err != nil {
			return opts, fmt.Errorf("read script: %w", err)
		}
		if opts.Script, err = input.ParseScript(string(data)); err != nil {
			return opts, fmt.Errorf("script %s: %w", script, err)
		}
	}
	return opts, nil
}

func addRunFlags(c *cobra.Command) {
	c.Flags().StringP("config", "c", "", "YAML file overriding the built-in tunables")
	c.Flags().Uint64("seed", 0, "Random seed (0 picks one from the clock)")
	c.Flags().String("audio", "", "WAV file to visualize instead of the synthetic signal")
	c.Flags().String("script", "", "File of input steps to play, e.g. \"right*3 wait 2s press\"")
	c.Flags().String("metrics-addr", "", "Serve /metrics and /state on this address, e.g. :9100")
	c.Flags().String("log-file", "facesim.log", "Where to write logs")
	c.Flags().Bool("debug", false, "Log at debug level")
}

func init() {
	rootCmd.AddCommand(runCmd)
	addRunFlags(runCmd)
}
