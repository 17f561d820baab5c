package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"muse/quality"
	"muse/quality/gate"
)

func newGradeCmd(configPath *string) *cobra.Command {
	var (
		brand       string
		file        string
		platform    string
		hashtags    []string
		contentType string
		record      bool
	)

	cmd := &cobra.Command{
		Use:   "grade",
		Short: "Grade a piece of content against a brand rubric",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine(*configPath)
			if err != nil {
				return err
			}
			rubric, err := eng.rubrics.Load(brand)
			if err != nil {
				return err
			}

			content, err := readContent(file)
			if err != nil {
				return err
			}

			result, err := eng.grader.Grade(cmd.Context(), rubric, quality.GradeRequest{
				Content:  content,
				Hashtags: hashtags,
				Platform: platform,
			})
			if err != nil {
				return err
			}

			if record {
				if err := eng.evalLog.Record(brand, contentType, content, result); err != nil {
					return err
				}
			}

			printVerdict(cmd.OutOrStdout(), result, rubric)
			gateResult := gate.Check(result, gate.Config{MinScore: rubric.Threshold, MinGrade: "F"})
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), gateResult.Summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&brand, "brand", "", "brand whose rubric to grade against (required)")
	cmd.Flags().StringVar(&file, "file", "", "content file; - or empty reads stdin")
	cmd.Flags().StringVar(&platform, "platform", "", "platform whose limits apply (e.g. twitter)")
	cmd.Flags().StringSliceVar(&hashtags, "hashtags", nil, "hashtags accompanying the content")
	cmd.Flags().StringVar(&contentType, "type", quality.ContentTypeCopy, "content type: copy or image")
	cmd.Flags().BoolVar(&record, "record", false, "append the result to the eval log")
	_ = cmd.MarkFlagRequired("brand")

	return cmd
}

func readContent(file string) (string, error) {
	if file == "" || file == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("read content file: %w", err)
	}
	return string(data), nil
}

func printVerdict(w io.Writer, result *quality.EvalResult, rubric *quality.Rubric) {
	if result.Passed {
		fmt.Fprintf(w, "%s score %d/100 (threshold %d)\n", greenText("PASSED"), result.Score, rubric.Threshold)
	} else {
		fmt.Fprintf(w, "%s score %d/100 (threshold %d)\n", redText("FAILED"), result.Score, rubric.Threshold)
	}
	for _, name := range rubric.DimensionNames() {
		fmt.Fprintf(w, "  %-20s %d/10\n", name, result.Dimensions[name])
	}
	if len(result.HardFails) > 0 {
		fmt.Fprintf(w, "%s %s\n", redText("banned phrases:"), strings.Join(result.HardFails, ", "))
	}
	for _, hit := range result.RedFlags {
		fmt.Fprintf(w, "%s %s (%s, -%.0f)\n", grayText("red flag:"), hit.Pattern, hit.Reason, hit.Penalty)
	}
	for _, issue := range result.PlatformIssues {
		fmt.Fprintf(w, "%s %s\n", grayText("platform:"), issue)
	}
	if result.Critique != "" {
		fmt.Fprintf(w, "%s %s\n", boldText("critique:"), result.Critique)
	}
}
