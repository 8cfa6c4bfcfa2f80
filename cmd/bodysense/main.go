package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"bodysense/internal/bootstrap"
	layoutdto "bodysense/internal/modules/layout/dto"
	sessiondto "bodysense/internal/modules/session/dto"
	"bodysense/internal/platform/config"
	"bodysense/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootFlags struct {
	dataDir string
	cfgFile string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "bodysense",
		Short:         "Guided hybrid massage routine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", config.DefaultDataDir(), "directory for state, logs and journal")
	root.PersistentFlags().StringVar(&flags.cfgFile, "config", "", "config file (default <data-dir>/config.yaml)")

	root.AddCommand(newTUICmd(flags))
	root.AddCommand(newRunCmd(flags))
	root.AddCommand(newServeCmd(flags))
	root.AddCommand(newExerciseCmd(flags))
	root.AddCommand(newMarkersCmd(flags))
	root.AddCommand(newHistoryCmd(flags))
	root.AddCommand(newConfigCmd(flags))
	return root
}

func loadConfig(flags *rootFlags) (config.Config, *viper.Viper, error) {
	v := viper.New()
	if err := config.Init(v, flags.dataDir, flags.cfgFile); err != nil {
		return config.Config{}, nil, err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, v, nil
}

// loadApp wires the application; the returned cleanup closes stores and the
// log file.
func loadApp(ctx context.Context, flags *rootFlags) (*bootstrap.App, func(), error) {
	cfg, _, err := loadConfig(flags)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.LogPath(), cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		_ = logger.Close()
		return nil, nil, err
	}
	cleanup := func() {
		if err := app.Close(); err != nil {
			logger.Error("close app", "error", err.Error())
		}
		_ = logger.Close()
	}
	return app, cleanup, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newTUICmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the bodysense terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, cancel := signalContext()
			defer cancel()
			app, cleanup, err := loadApp(ctx, flags)
			if err != nil {
				return err
			}
			defer cleanup()
			go watchCatalog(ctx, app)
			return bootstrap.RunTUI(ctx, app)
		},
	}
}

func newRunCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run one routine headless, printing phase changes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalContext()
			defer cancel()
			app, cleanup, err := loadApp(ctx, flags)
			if err != nil {
				return err
			}
			defer cleanup()
			go watchCatalog(ctx, app)

			out := cmd.OutOrStdout()
			var lastLabel string
			var lastCountdown int
			err = app.NewRunner().Run(ctx, func(t sessiondto.TickOutput) {
				s := t.Snapshot
				if s.ButtonLabel != lastLabel {
					lastLabel = s.ButtonLabel
					_, _ = fmt.Fprintf(out, "[%d/%d] %s\n", s.ActivePosition, s.TotalSteps, s.ButtonLabel)
				}
				if s.Phase == sessiondto.PhaseAutoStarting && s.AutoStartCountdown != lastCountdown {
					lastCountdown = s.AutoStartCountdown
					_, _ = fmt.Fprintf(out, "  next position in %ds\n", s.AutoStartCountdown)
				}
			})
			if errors.Is(err, context.Canceled) {
				_, _ = fmt.Fprintln(out, "interrupted")
				return nil
			}
			return err
		},
	}
}

func newServeCmd(flags *rootFlags) *cobra.Command {
	var addr string
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the session over websocket",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalContext()
			defer cancel()
			app, cleanup, err := loadApp(ctx, flags)
			if err != nil {
				return err
			}
			defer cleanup()
			if addr == "" {
				addr = app.Config.Server.Addr
			}

			hub := app.NewHub()
			server := &http.Server{Addr: addr, Handler: hub.Handler(), ReadHeaderTimeout: 5 * time.Second}
			go watchCatalog(ctx, app)
			go func() {
				if err := hub.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					app.Logger.Error("hub stopped", "error", err.Error())
				}
			}()
			go func() {
				<-ctx.Done()
				shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
				defer stop()
				_ = server.Shutdown(shutdownCtx)
			}()

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "serving on ws://%s/ws\n", addr)
			app.Logger.Info("server listening", "addr", addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	serve.Flags().StringVar(&addr, "addr", "", "listen address (default server.addr)")
	return serve
}

func watchCatalog(ctx context.Context, app *bootstrap.App) {
	if err := app.WatchCatalog(ctx); err != nil {
		app.Logger.Warn("catalog watch stopped", "error", err.Error())
	}
}

func newExerciseCmd(flags *rootFlags) *cobra.Command {
	exercise := &cobra.Command{Use: "exercise", Short: "Exercise catalog and selection"}

	exercise.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List exercises",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := context.Background()
			app, cleanup, err := loadApp(ctx, flags)
			if err != nil {
				return err
			}
			defer cleanup()
			catalog, err := app.CatalogCLI.List(ctx)
			if err != nil {
				return err
			}
			sel, err := app.LayoutCLI.Selection(ctx)
			if err != nil {
				return err
			}
			for _, e := range catalog.Exercises {
				mark := " "
				if e.Index == sel.ExerciseIndex {
					mark = "*"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %d\t%s\t%d positions\t%d images\n", mark, e.Index+1, e.Title, e.TotalSteps, len(e.ImageSides))
			}
			return nil
		},
	})

	exercise.AddCommand(&cobra.Command{
		Use:   "select <n>",
		Short: "Select the current exercise (1-based)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseOrdinal(args[0])
			if err != nil {
				return err
			}
			ctx := context.Background()
			app, cleanup, err := loadApp(ctx, flags)
			if err != nil {
				return err
			}
			defer cleanup()
			sel, err := app.LayoutCLI.SelectExercise(ctx, n)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exercise %d selected (image %d)\n", sel.ExerciseIndex+1, sel.ImageSide+1)
			return nil
		},
	})

	exercise.AddCommand(&cobra.Command{
		Use:   "side <n>",
		Short: "Select the image of the current exercise (1-based)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseOrdinal(args[0])
			if err != nil {
				return err
			}
			ctx := context.Background()
			app, cleanup, err := loadApp(ctx, flags)
			if err != nil {
				return err
			}
			defer cleanup()
			sel, err := app.LayoutCLI.SelectImageSide(ctx, n)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exercise %d image %d selected\n", sel.ExerciseIndex+1, sel.ImageSide+1)
			return nil
		},
	})
	return exercise
}

type markerTarget struct {
	exercise int
	side     int
}

func (t *markerTarget) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&t.exercise, "exercise", 0, "exercise (1-based, default current)")
	cmd.Flags().IntVar(&t.side, "side", 0, "image (1-based, default current)")
}

// resolve fills unset flags from the persisted selection.
func (t markerTarget) resolve(ctx context.Context, app *bootstrap.App) (int, int, error) {
	sel, err := app.LayoutCLI.Selection(ctx)
	if err != nil {
		return 0, 0, err
	}
	exercise, side := sel.ExerciseIndex, sel.ImageSide
	if t.exercise > 0 {
		exercise = t.exercise - 1
		if t.side == 0 {
			side = 0
		}
	}
	if t.side > 0 {
		side = t.side - 1
	}
	return exercise, side, nil
}

func newMarkersCmd(flags *rootFlags) *cobra.Command {
	markers := &cobra.Command{Use: "markers", Short: "Applicator marker coordinates"}

	withMarkers := func(use, short string, args cobra.PositionalArgs, fn func(ctx context.Context, app *bootstrap.App, exercise, side int, args []string) (layoutdto.MarkersOutput, error)) *cobra.Command {
		target := &markerTarget{}
		c := &cobra.Command{
			Use:   use,
			Short: short,
			Args:  args,
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := context.Background()
				app, cleanup, err := loadApp(ctx, flags)
				if err != nil {
					return err
				}
				defer cleanup()
				exercise, side, err := target.resolve(ctx, app)
				if err != nil {
					return err
				}
				out, err := fn(ctx, app, exercise, side, args)
				if err != nil {
					return err
				}
				printMarkers(cmd, out)
				return nil
			},
		}
		target.bind(c)
		return c
	}

	markers.AddCommand(withMarkers("show", "Show markers", cobra.NoArgs,
		func(ctx context.Context, app *bootstrap.App, exercise, side int, _ []string) (layoutdto.MarkersOutput, error) {
			return app.LayoutCLI.Markers(ctx, exercise, side)
		}))

	markers.AddCommand(withMarkers("set <position> <top> <right>", "Move one marker (percent from top and right)", cobra.ExactArgs(3),
		func(ctx context.Context, app *bootstrap.App, exercise, side int, args []string) (layoutdto.MarkersOutput, error) {
			pos, err := strconv.Atoi(args[0])
			if err != nil {
				return layoutdto.MarkersOutput{}, fmt.Errorf("invalid position %q", args[0])
			}
			top, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return layoutdto.MarkersOutput{}, fmt.Errorf("invalid top %q", args[1])
			}
			right, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return layoutdto.MarkersOutput{}, fmt.Errorf("invalid right %q", args[2])
			}
			return app.LayoutCLI.SetMarker(ctx, exercise, side, layoutdto.Marker{Position: pos, Top: top, Right: right})
		}))

	markers.AddCommand(withMarkers("reset", "Restore catalog default markers", cobra.NoArgs,
		func(ctx context.Context, app *bootstrap.App, exercise, side int, _ []string) (layoutdto.MarkersOutput, error) {
			return app.LayoutCLI.ResetMarkers(ctx, exercise, side)
		}))

	exportTarget := &markerTarget{}
	export := &cobra.Command{
		Use:   "export",
		Short: "Print markers as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := context.Background()
			app, cleanup, err := loadApp(ctx, flags)
			if err != nil {
				return err
			}
			defer cleanup()
			exercise, side, err := exportTarget.resolve(ctx, app)
			if err != nil {
				return err
			}
			raw, err := app.LayoutCLI.ExportMarkers(ctx, exercise, side)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), raw)
			return nil
		},
	}
	exportTarget.bind(export)
	markers.AddCommand(export)
	return markers
}

func printMarkers(cmd *cobra.Command, out layoutdto.MarkersOutput) {
	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(w, "exercise %d image %d (schema v%d)\n", out.ExerciseIndex+1, out.ImageSide+1, out.Version)
	for _, m := range out.Markers {
		_, _ = fmt.Fprintf(w, "  %d\ttop %.3f%%\tright %.3f%%\n", m.Position, m.Top, m.Right)
	}
}

func newHistoryCmd(flags *rootFlags) *cobra.Command {
	history := &cobra.Command{Use: "history", Short: "Completed routines"}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List completed routines, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := context.Background()
			app, cleanup, err := loadApp(ctx, flags)
			if err != nil {
				return err
			}
			defer cleanup()
			runs, err := app.HistoryCLI.List(ctx, limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no runs")
				return nil
			}
			for _, r := range runs {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%d positions\t%d pauses\t%s\n",
					r.ID, r.CompletedAt.Local().Format("2006-01-02 15:04"), r.ExerciseTitle, r.Positions, r.Pauses, r.Duration.Round(time.Second))
			}
			return nil
		},
	}
	list.Flags().IntVar(&limit, "limit", 0, "maximum runs (default 20)")
	history.AddCommand(list)
	return history
}

func newConfigCmd(flags *rootFlags) *cobra.Command {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration"}
	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, v, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if used := v.ConfigFileUsed(); used != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "# config file: %s\n", used)
			}
			settings := v.AllSettings()
			settings["db_path"] = cfg.DBPath
			raw, err := yaml.Marshal(settings)
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), string(raw))
			return nil
		},
	})
	return cfgCmd
}

func parseOrdinal(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("expected a number starting at 1, got %q", s)
	}
	return n - 1, nil
}
