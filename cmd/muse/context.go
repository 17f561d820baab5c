package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"muse/quality"
)

func newContextCmd(configPath *string) *cobra.Command {
	var (
		brand       string
		contentType string
	)

	cmd := &cobra.Command{
		Use:   "context",
		Short: "Print the learnings-derived prompt context for a brand",
		Long: "context prints the AVOID/PREFER guidance injected into generation\n" +
			"prompts. Output is empty until the brand has enough evaluation history.",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := buildEngine(*configPath)
			if err != nil {
				return err
			}

			var text string
			switch contentType {
			case quality.ContentTypeImage:
				text, err = eng.injector.ImageContext(brand)
			default:
				text, err = eng.injector.CopyContext(brand)
			}
			if err != nil {
				return err
			}
			if text == "" {
				fmt.Fprintln(cmd.ErrOrStderr(), grayText("no context yet: fewer than 3 evaluations or no guidance derived"))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}

	cmd.Flags().StringVar(&brand, "brand", "", "brand whose context to print (required)")
	cmd.Flags().StringVar(&contentType, "type", quality.ContentTypeCopy, "content type: copy or image")
	_ = cmd.MarkFlagRequired("brand")
	return cmd
}
