package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/planwise/retirement-engine/internal/calculation"
	"github.com/planwise/retirement-engine/internal/config"
	"github.com/planwise/retirement-engine/internal/domain"
	"github.com/planwise/retirement-engine/internal/output"
)

var (
	configFile string
	formatName string
	debug      bool
)

// zapLogger adapts a zap SugaredLogger to the engine's Logger interface.
type zapLogger struct {
	sugar *zap.SugaredLogger
}

func (z zapLogger) Debugf(format string, args ...any) { z.sugar.Debugf(format, args...) }
func (z zapLogger) Infof(format string, args ...any)  { z.sugar.Infof(format, args...) }
func (z zapLogger) Warnf(format string, args ...any)  { z.sugar.Warnf(format, args...) }
func (z zapLogger) Errorf(format string, args ...any) { z.sugar.Errorf(format, args...) }

// session holds the engine and the input built from the configured snapshot.
type session struct {
	Engine *calculation.ProjectionEngine
	Input  *domain.ProjectionInput
}

func newSession() (*session, func(), error) {
	engine := calculation.NewProjectionEngine()
	cleanup := func() {}
	if debug {
		zl, err := zap.NewDevelopment()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
		engine.SetLogger(zapLogger{sugar: zl.Sugar()})
		cleanup = func() { _ = zl.Sync() }
	}

	parser := config.NewSnapshotParser()
	snapshot, err := parser.LoadFromFile(configFile)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	input, err := config.BuildProjectionInput(snapshot, nil)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return &session{Engine: engine, Input: input}, cleanup, nil
}

func render(report *output.Report) error {
	formatter := output.GetFormatterByName(formatName)
	if formatter == nil {
		return fmt.Errorf("unknown output format %q", formatName)
	}
	data, err := formatter.Format(report)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func requireConfig(cmd *cobra.Command, args []string) error {
	if configFile == "" {
		return fmt.Errorf("--config is required")
	}
	return nil
}

func newProjectCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "project",
		Short:   "Run the year-by-year balance projection",
		PreRunE: requireConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, cleanup, err := newSession()
			if err != nil {
				return err
			}
			defer cleanup()
			result, err := sess.Engine.RunProjection(sess.Input)
			if err != nil {
				return err
			}
			return render(&output.Report{Projection: result})
		},
	}
}

func newSensitivityCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "sensitivity",
		Short:   "Rank the assumptions that most affect the projected outcome",
		PreRunE: requireConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, cleanup, err := newSession()
			if err != nil {
				return err
			}
			defer cleanup()
			result, err := sess.Engine.RunProjection(sess.Input)
			if err != nil {
				return err
			}
			sensitivity, err := sess.Engine.AnalyzeSensitivity(sess.Input)
			if err != nil {
				return err
			}
			return render(&output.Report{
				Projection:      result,
				Sensitivity:     sensitivity,
				LowFrictionWins: sess.Engine.LowFrictionWins(sensitivity),
				RankedLevers:    sess.Engine.RankAssumptions(sensitivity),
			})
		},
	}
}

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "analyze",
		Short:   "Run the spend-down, reserve runway and income floor analyses",
		PreRunE: requireConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, cleanup, err := newSession()
			if err != nil {
				return err
			}
			defer cleanup()
			result, err := sess.Engine.RunProjection(sess.Input)
			if err != nil {
				return err
			}
			report := &output.Report{Projection: result}

			if sess.Input.DepletionTarget != nil {
				if report.Depletion, err = sess.Engine.AnalyzeDepletion(sess.Input); err != nil {
					return err
				}
				if report.Runway, err = sess.Engine.ReserveRunway(sess.Input); err != nil {
					return err
				}
			}
			// The income floor analysis has preconditions (guaranteed streams,
			// positive essential spending); a snapshot that lacks them simply
			// gets no floor section.
			if floor, err := sess.Engine.AnalyzeIncomeFloor(sess.Input); err == nil {
				report.IncomeFloor = floor
			}
			if sess.Input.SpendingPhases != nil && sess.Input.SpendingPhases.Enabled {
				if report.SpendingComparison, err = sess.Engine.CompareSpending(sess.Input); err != nil {
					return err
				}
			}
			return render(report)
		},
	}
}

func newExampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example",
		Short: "Print an example financial snapshot YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(config.ExampleSnapshot())
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "retire",
		Short: "Multi-year retirement balance projection and sensitivity engine",
		Long: `retire projects a portfolio year by year from the current age through a
maximum age, then analyzes which assumptions matter most and whether
guaranteed income covers essential spending.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "financial snapshot YAML file")
	rootCmd.PersistentFlags().StringVarP(&formatName, "format", "f", "console", "output format (console, console-verbose, csv, json)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(newProjectCmd())
	rootCmd.AddCommand(newSensitivityCmd())
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newExampleCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
