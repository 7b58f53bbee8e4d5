package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/a3tai/mcp-form-filler/internal/logging"
	"github.com/a3tai/mcp-form-filler/internal/output"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// app carries the state shared by every subcommand
type app struct {
	format output.Format
	logger *zap.Logger
}

func (a *app) print(cmd *cobra.Command, v any) error {
	return output.Print(cmd.OutOrStdout(), a.format, v)
}

func newRootCmd() *cobra.Command {
	a := &app{format: output.FormatYAML, logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:          "formctl",
		Short:        "Detect, extract and fill web and PDF forms",
		Long:         "A CLI for inspecting and filling HTML forms and PDF AcroForms, and for answering forms question by question through the form backend.",
		SilenceUsage: true,
	}
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s, %s)", version, gitCommit, buildTime, runtime.Version())
	rootCmd.PersistentFlags().String("format", "", "Output format: yaml, json")
	rootCmd.PersistentFlags().BoolP("verbose", "V", false, "Log debug output to stderr")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		format, _ := rootCmd.PersistentFlags().GetString("format")
		f, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		a.format = f

		verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
		a.logger = logging.Console(verbose)
		return nil
	}

	rootCmd.AddCommand(
		newDetectCmd(a),
		newHTMLCmd(a),
		newFillCmd(a),
		newPDFFieldsCmd(a),
		newPDFFillCmd(a),
		newHealthCmd(a),
		newChatCmd(a),
	)
	return rootCmd
}
