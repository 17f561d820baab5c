package main

import (
	"fmt"

	"github.com/spf13/cobra"

	jsonx "muse/internal/shared/json"
	"muse/quality"
)

func newLearningsCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "learnings",
		Short: "Manage per-brand learnings mined from the eval log",
	}
	cmd.AddCommand(newLearningsRebuildCmd(configPath), newLearningsShowCmd(configPath))
	return cmd
}

func newLearningsRebuildCmd(configPath *string) *cobra.Command {
	var brand string

	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Recompute a brand's learnings from the full eval log",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine(*configPath)
			if err != nil {
				return err
			}
			learnings, err := eng.aggregator.Rebuild(brand)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s rebuilt learnings for %s from %d evaluation(s)\n",
				greenText("ok:"), brand, learnings.SampleSize)
			return nil
		},
	}
	cmd.Flags().StringVar(&brand, "brand", "", "brand to rebuild (required)")
	_ = cmd.MarkFlagRequired("brand")
	return cmd
}

func newLearningsShowCmd(configPath *string) *cobra.Command {
	var brand string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a brand's persisted learnings profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine(*configPath)
			if err != nil {
				return err
			}
			learnings, err := quality.LoadLearnings(eng.cfg.LearningsDir, brand)
			if err != nil {
				return err
			}
			data, err := jsonx.MarshalIndent(learnings, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	cmd.Flags().StringVar(&brand, "brand", "", "brand to show (required)")
	_ = cmd.MarkFlagRequired("brand")
	return cmd
}
