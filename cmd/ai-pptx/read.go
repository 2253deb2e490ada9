package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/beeper/ai-pptx/pkg/shared/toolspec"
)

var readMaxChars int

var errReadFailed = errors.New("pptx_read failed")

var readCmd = &cobra.Command{
	Use:   "read <path>",
	Short: "Extract the text of one PPTX file and print the tool response as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer rt.Close()

		input := map[string]any{"path": args[0]}
		if cmd.Flags().Changed("max-chars") {
			input["max_chars"] = readMaxChars
		}
		result, err := rt.executor.ExecuteWithID(ctx, "", toolspec.PptxReadName, input)
		if err != nil {
			return err
		}
		resp := result.Response()
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return err
		}
		if !resp.Success {
			cmd.SilenceErrors = true
			return errReadFailed
		}
		return nil
	},
}

func init() {
	readCmd.Flags().IntVar(&readMaxChars, "max-chars", toolspec.PptxDefaultMaxChars, "maximum characters to return")
}
