package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"trefila/internal/bootstrap"
	drawingdto "trefila/internal/modules/drawing/dto"
	recipedto "trefila/internal/modules/recipe/dto"
	"trefila/internal/platform/config"
	apperrors "trefila/internal/platform/errors"
	"trefila/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalFlags struct {
	workspace string
	logLevel  string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "trefila",
		Short:         "Wire-drawing pass scheduler",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.workspace, "workspace", ".", "workspace directory holding recipes and .trefila state")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level override: debug|info|warn|error")

	root.AddCommand(newScheduleCmd(flags))
	root.AddCommand(newRecipeCmd(flags))
	root.AddCommand(newDraftCmd(flags))
	root.AddCommand(newReindexCmd(flags))
	root.AddCommand(newTUICmd(flags))
	return root
}

// loadApp builds the app. CLI commands log to stderr; the TUI passes a file
// path so log lines do not draw over the screen.
func loadApp(flags *globalFlags, logPath string) (*bootstrap.App, error) {
	cfg, err := config.Load(flags.workspace)
	if err != nil {
		return nil, err
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	logger, err := logging.New(cfg.LogLevel, logPath)
	if err != nil {
		return nil, err
	}
	app, err := bootstrap.New(cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	return app, nil
}

func closeApp(app *bootstrap.App) {
	_ = app.Logger.Sync()
}

func newTUICmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the interactive scheduler screen",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.New(flags.workspace)
			if err != nil {
				return err
			}
			app, err := loadApp(flags, cfg.LogPath)
			if err != nil {
				return err
			}
			defer closeApp(app)
			return bootstrap.RunTUI(app)
		},
	}
}

func newScheduleCmd(flags *globalFlags) *cobra.Command {
	var entry, exit float64
	var passes int
	var mode, saveName, date, notes string
	var sets []string

	cmd := &cobra.Command{
		Use:   "schedule --entry <mm> --exit <mm>",
		Short: "Compute the die sequence for a drawing run",
		RunE: func(cmd *cobra.Command, _ []string) error {
			edits, err := parseDieEdits(sets)
			if err != nil {
				return err
			}
			recipeDate, err := parseDate(date)
			if err != nil {
				return err
			}
			app, err := loadApp(flags, "")
			if err != nil {
				return err
			}
			defer closeApp(app)
			if passes == 0 {
				passes = app.Config.DefaultPasses
			}
			if mode == "" {
				mode = app.Config.DefaultMode
			}

			ctx := context.Background()
			out, err := app.DrawingCLI.Schedule(ctx, entry, exit, passes, mode)
			if err != nil {
				return err
			}
			for _, e := range edits {
				out, err = app.DrawingCLI.EditDie(ctx, entry, mode, out.Diameters, e.pass, e.diameter)
				if err != nil {
					return err
				}
			}
			printSchedule(cmd.OutOrStdout(), entry, out)

			if strings.TrimSpace(saveName) == "" {
				return nil
			}
			saved, err := app.RecipeCLI.Save(ctx, recipedto.SaveRecipeInput{
				Name:          saveName,
				Date:          recipeDate,
				EntryDiameter: entry,
				ExitDiameter:  exit,
				PassCount:     passes,
				Mode:          mode,
				Diameters:     out.Diameters,
				Notes:         notes,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "saved recipe %s (%s) note=%s\n", saved.Name, saved.ID, saved.NotePath)
			return nil
		},
	}
	cmd.Flags().Float64Var(&entry, "entry", 0, "entry wire diameter (mm)")
	cmd.Flags().Float64Var(&exit, "exit", 0, "exit wire diameter (mm)")
	cmd.Flags().IntVar(&passes, "passes", 0, "number of passes (defaults to config)")
	cmd.Flags().StringVar(&mode, "mode", "", "schedule mode: progressive|uniform (defaults to config)")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "manual die override pass=diameter (repeatable)")
	cmd.Flags().StringVar(&saveName, "save", "", "save the result as a recipe with this name")
	cmd.Flags().StringVar(&date, "date", "", "recipe date YYYY-MM-DD (defaults to today)")
	cmd.Flags().StringVar(&notes, "notes", "", "recipe notes")
	_ = cmd.MarkFlagRequired("entry")
	_ = cmd.MarkFlagRequired("exit")
	return cmd
}

func newRecipeCmd(flags *globalFlags) *cobra.Command {
	recipe := &cobra.Command{Use: "recipe", Short: "Saved recipe commands"}

	recipe.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved recipes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, "")
			if err != nil {
				return err
			}
			defer closeApp(app)
			recipes, err := app.RecipeCLI.List(context.Background())
			if err != nil {
				return err
			}
			if len(recipes) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no recipes")
				return nil
			}
			for _, r := range recipes {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%.3f->%.3f\t%d passes\t%s\n",
					r.ID, r.Date.Format("2006-01-02"), r.Name, r.EntryDiameter, r.ExitDiameter, r.PassCount, r.Mode)
			}
			return nil
		},
	})

	var showID string
	show := &cobra.Command{
		Use:   "show --id <id>",
		Short: "Show a recipe and its pass reductions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(showID) == "" {
				return fmt.Errorf("--id is required")
			}
			app, err := loadApp(flags, "")
			if err != nil {
				return err
			}
			defer closeApp(app)
			r, err := app.RecipeCLI.Get(context.Background(), showID)
			if err != nil {
				return err
			}
			printRecipe(cmd.OutOrStdout(), r)
			return nil
		},
	}
	show.Flags().StringVar(&showID, "id", "", "recipe id")

	var loadID string
	load := &cobra.Command{
		Use:   "load --id <id>",
		Short: "Load a recipe into the working draft",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(loadID) == "" {
				return fmt.Errorf("--id is required")
			}
			app, err := loadApp(flags, "")
			if err != nil {
				return err
			}
			defer closeApp(app)
			ctx := context.Background()
			r, err := app.RecipeCLI.Get(ctx, loadID)
			if err != nil {
				return err
			}
			if _, err := app.DrawingCLI.SaveDraft(ctx, drawingdto.DraftInput{
				EntryDiameter: r.EntryDiameter,
				ExitDiameter:  r.ExitDiameter,
				PassCount:     r.PassCount,
				Mode:          r.Mode,
				Diameters:     r.Diameters,
			}); err != nil {
				return err
			}
			printRecipe(cmd.OutOrStdout(), r)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "draft updated")
			return nil
		},
	}
	load.Flags().StringVar(&loadID, "id", "", "recipe id")

	var deleteID string
	del := &cobra.Command{
		Use:   "delete --id <id>",
		Short: "Delete a recipe note and its index rows",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(deleteID) == "" {
				return fmt.Errorf("--id is required")
			}
			app, err := loadApp(flags, "")
			if err != nil {
				return err
			}
			defer closeApp(app)
			if err := app.RecipeCLI.Delete(context.Background(), deleteID); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", deleteID)
			return nil
		},
	}
	del.Flags().StringVar(&deleteID, "id", "", "recipe id")

	recipe.AddCommand(show, load, del)
	return recipe
}

func newDraftCmd(flags *globalFlags) *cobra.Command {
	draft := &cobra.Command{Use: "draft", Short: "Working draft commands"}

	draft.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the working draft with its pass reductions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, "")
			if err != nil {
				return err
			}
			defer closeApp(app)
			ctx := context.Background()
			d, err := app.DrawingCLI.LoadDraft(ctx)
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no draft")
					return nil
				}
				return err
			}
			out, err := app.DrawingCLI.Evaluate(ctx, d.EntryDiameter, d.Mode, d.Diameters)
			if err != nil {
				return err
			}
			out.ExitDiameter = d.ExitDiameter
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", d.SavedAt.Format(time.RFC3339))
			printSchedule(cmd.OutOrStdout(), d.EntryDiameter, out)
			return nil
		},
	})

	draft.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Discard the working draft",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, "")
			if err != nil {
				return err
			}
			defer closeApp(app)
			if err := app.DrawingCLI.ClearDraft(context.Background()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "draft cleared")
			return nil
		},
	})
	return draft
}

func newReindexCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the SQLite recipe index from recipe notes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, "")
			if err != nil {
				return err
			}
			defer closeApp(app)
			if err := app.RecipeCLI.Reindex(context.Background()); err != nil {
				app.Logger.Error("reindex failed", zap.Error(err))
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "reindex completed")
			return nil
		},
	}
}

type dieEdit struct {
	pass     int
	diameter float64
}

func parseDieEdits(values []string) ([]dieEdit, error) {
	out := make([]dieEdit, 0, len(values))
	for _, v := range values {
		passRaw, diameterRaw, ok := strings.Cut(v, "=")
		if !ok {
			return nil, fmt.Errorf("--set %q: expected pass=diameter", v)
		}
		pass, err := strconv.Atoi(strings.TrimSpace(passRaw))
		if err != nil {
			return nil, fmt.Errorf("--set %q: invalid pass: %w", v, err)
		}
		diameter, err := strconv.ParseFloat(strings.TrimSpace(diameterRaw), 64)
		if err != nil {
			return nil, fmt.Errorf("--set %q: invalid diameter: %w", v, err)
		}
		out = append(out, dieEdit{pass: pass, diameter: diameter})
	}
	return out, nil
}

func parseDate(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--date %q: expected YYYY-MM-DD", value)
	}
	return t, nil
}

// printSchedule reports the first-pass reduction of the dies as printed,
// edits included.
func printSchedule(w io.Writer, entry float64, out drawingdto.ScheduleOutput) {
	first := out.StartReduction
	if len(out.Passes) > 0 {
		first = out.Passes[0].ReductionPercent
	}
	_, _ = fmt.Fprintf(w, "mode=%s entry=%.3f exit=%.3f passes=%d first-pass=%.2f%%\n",
		out.Mode, entry, out.ExitDiameter, out.PassCount, first)
	_, _ = fmt.Fprintf(w, "%-5s %10s %12s  %s\n", "pass", "die(mm)", "reduction(%)", "status")
	for _, p := range out.Passes {
		_, _ = fmt.Fprintf(w, "%-5d %10.3f %12.2f  %s\n", p.Pass, p.Diameter, p.ReductionPercent, p.Status)
	}
}

func printRecipe(w io.Writer, r recipedto.RecipeDetailOutput) {
	_, _ = fmt.Fprintf(w, "id: %s\nname: %s\ndate: %s\nmode: %s\nentry: %.3f\nexit: %.3f\nnote: %s\n",
		r.ID, r.Name, r.Date.Format("2006-01-02"), r.Mode, r.EntryDiameter, r.ExitDiameter, r.NotePath)
	_, _ = fmt.Fprintf(w, "%-5s %10s %12s  %s\n", "pass", "die(mm)", "reduction(%)", "status")
	for _, p := range r.Passes {
		_, _ = fmt.Fprintf(w, "%-5d %10.3f %12.2f  %s\n", p.Pass, p.Diameter, p.ReductionPercent, p.Status)
	}
}
