package main

import (
	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"muse/internal/config"
	"muse/internal/llm"
	"muse/internal/shared/logging"
	"muse/quality"
)

var (
	greenText = color.New(color.FgGreen).SprintFunc()
	redText   = color.New(color.FgRed).SprintFunc()
	grayText  = color.New(color.FgHiBlack).SprintFunc()
	boldText  = color.New(color.Bold).SprintFunc()
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "muse",
		Short: "Content quality control for marketing copy and images",
		Long: "muse grades generated marketing content against per-brand rubrics,\n" +
			"drives a bounded self-healing regeneration loop, and mines evaluation\n" +
			"history into per-brand learnings that bias future generation.",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to muse.yaml (defaults to ./muse.yaml)")

	root.AddCommand(
		newGradeCmd(&configPath),
		newRefineCmd(&configPath),
		newLearningsCmd(&configPath),
		newContextCmd(&configPath),
	)
	return root
}

// engine bundles the wired components a command needs.
type engine struct {
	cfg        *config.Config
	logger     logging.Logger
	rubrics    *quality.RubricStore
	evalLog    *quality.EvalLog
	grader     *quality.Grader
	controller *quality.RetryController
	aggregator *quality.Aggregator
	injector   *quality.Injector
	client     llm.Client
}

func buildEngine(configPath string) (*engine, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logging.SetDefaultLevel(logging.ParseLevel(cfg.LogLevel))
	logger := logging.NewComponentLogger("muse")

	rubrics, err := quality.NewRubricStore(cfg.RubricDir)
	if err != nil {
		return nil, err
	}

	client := llm.NewRetryClient(
		llm.NewOpenAIClient(llm.Config{
			BaseURL: cfg.Oracle.BaseURL,
			APIKey:  cfg.Oracle.APIKey,
			Model:   cfg.Oracle.Model,
			Timeout: cfg.Oracle.Timeout,
		}, logger),
		llm.RetryConfig{MaxAttempts: cfg.Oracle.MaxRetries, BaseDelay: llm.DefaultRetryConfig().BaseDelay},
		logger,
	)

	evalLog := quality.NewEvalLog(cfg.EvalLogPath)
	metrics := quality.NewMetrics(prometheus.DefaultRegisterer)
	judge := quality.NewJudge(client,
		quality.WithJudgeLogger(logger),
		quality.WithJudgeMetrics(metrics),
		quality.WithJudgeTemperature(cfg.Oracle.Temperature),
	)
	grader := quality.NewGrader(judge, logger, metrics)

	return &engine{
		cfg:        cfg,
		logger:     logger,
		rubrics:    rubrics,
		evalLog:    evalLog,
		grader:     grader,
		controller: quality.NewRetryController(grader, evalLog, logger, metrics),
		aggregator: quality.NewAggregator(evalLog, cfg.LearningsDir, logger),
		injector:   quality.NewInjector(cfg.LearningsDir),
		client:     client,
	}, nil
}
