package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"muse/internal/llm"
	"muse/quality"
)

func newRefineCmd(configPath *string) *cobra.Command {
	var (
		brand       string
		brief       string
		platform    string
		hashtags    []string
		contentType string
	)

	cmd := &cobra.Command{
		Use:   "refine",
		Short: "Generate content and refine it until it passes the brand rubric",
		Long: "refine asks the generation model for content matching the brief, grades\n" +
			"it, and regenerates with corrective feedback until it passes or the\n" +
			"rubric's retry budget is spent. Brand learnings, when sufficient, bias\n" +
			"the generation prompt.",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine(*configPath)
			if err != nil {
				return err
			}
			rubric, err := eng.rubrics.Load(brand)
			if err != nil {
				return err
			}

			learningsCtx, err := eng.injector.CopyContext(brand)
			if err != nil {
				return err
			}

			jobID := uuid.NewString()
			eng.logger.Info("refine job %s: brand=%s platform=%s", jobID, brand, platform)

			gen := &briefGenerator{
				client:       eng.client,
				brief:        brief,
				learningsCtx: learningsCtx,
			}
			ref, err := eng.controller.GradeAndRefine(cmd.Context(), rubric, gen, quality.RefineOptions{
				Brand:       brand,
				ContentType: contentType,
				Platform:    platform,
				Hashtags:    hashtags,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ref.Content)
			fmt.Fprintln(out)
			printVerdict(out, ref.Eval, rubric)
			fmt.Fprintf(out, "%s job %s finished after %d regeneration(s)\n", grayText("refine:"), jobID, ref.Attempts)
			return nil
		},
	}

	cmd.Flags().StringVar(&brand, "brand", "", "brand whose rubric applies (required)")
	cmd.Flags().StringVar(&brief, "brief", "", "generation brief describing the content to produce (required)")
	cmd.Flags().StringVar(&platform, "platform", "", "target platform")
	cmd.Flags().StringSliceVar(&hashtags, "hashtags", nil, "hashtags accompanying the content")
	cmd.Flags().StringVar(&contentType, "type", quality.ContentTypeCopy, "content type: copy or image")
	_ = cmd.MarkFlagRequired("brand")
	_ = cmd.MarkFlagRequired("brief")

	return cmd
}

// briefGenerator produces copy from a brief via the completion client,
// folding in brand learnings and per-attempt corrective feedback.
type briefGenerator struct {
	client       llm.Client
	brief        string
	learningsCtx string
}

func (g *briefGenerator) Generate(ctx context.Context, feedback string) (string, error) {
	var b strings.Builder
	b.WriteString("Write marketing copy for the following brief.\n\nBRIEF:\n")
	b.WriteString(g.brief)
	if g.learningsCtx != "" {
		b.WriteString("\n\n")
		b.WriteString(g.learningsCtx)
	}
	if feedback != "" {
		b.WriteString("\n\nThe previous attempt failed review. Apply this feedback:\n")
		b.WriteString(feedback)
	}
	b.WriteString("\n\nRespond with the copy only, no commentary.")

	resp, err := g.client.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: "system", Content: "You are a marketing copywriter."},
			{Role: "user", Content: b.String()},
		},
		Temperature: 0.8,
	})
	if err != nil {
		return "", fmt.Errorf("generate copy: %w", err)
	}
	return strings.TrimSpace(resp.Content), nil
}
