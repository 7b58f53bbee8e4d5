package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/a3tai/mcp-form-filler/internal/pdf"
)

// pdfFieldsOutput is the result of the pdf-fields command
type pdfFieldsOutput struct {
	Path   string          `json:"path"   yaml:"path"`
	Total  int             `json:"total"  yaml:"total"`
	Fields []pdf.FormField `json:"fields" yaml:"fields"`
}

// pdfFillOutput is the result of the pdf-fill command
type pdfFillOutput struct {
	Path         string `json:"path"          yaml:"path"`
	Output       string `json:"output"        yaml:"output"`
	FieldsFilled int    `json:"fields_filled" yaml:"fields_filled"`
}

func newPDFFieldsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pdf-fields <file.pdf>",
		Short: "List the AcroForm fields of a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			fields, err := pdf.ExtractFields(data)
			if err != nil {
				return err
			}
			if fields == nil {
				fields = []pdf.FormField{}
			}
			a.logger.Debug("Extracted PDF fields", zap.Int("fields", len(fields)))
			return a.print(cmd, pdfFieldsOutput{Path: args[0], Total: len(fields), Fields: fields})
		},
	}
}

func newPDFFillCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pdf-fill <file.pdf>",
		Short: "Fill a PDF form from an answers file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			answersPath, _ := cmd.Flags().GetString("answers")
			answers, err := readAnswers(answersPath)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			fields, err := pdf.ExtractFields(data)
			if err != nil {
				return err
			}

			values := answers.Strings()
			matched := pdf.MatchAnswers(fields, values)
			filled, err := pdf.Fill(data, values)
			if err != nil {
				a.logger.Warn("PDF fill failed, writing original document", zap.String("path", args[0]), zap.Error(err))
				matched = 0
			}

			target, _ := cmd.Flags().GetString("output")
			if target == "" {
				target = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + "_filled.pdf"
			}
			if err := os.WriteFile(target, filled, 0o600); err != nil {
				return fmt.Errorf("failed to write %s: %w", target, err)
			}
			return a.print(cmd, pdfFillOutput{
				Path:         args[0],
				Output:       target,
				FieldsFilled: matched,
			})
		},
	}
	cmd.Flags().String("answers", "", "YAML or JSON file of answers keyed by field name (required)")
	cmd.Flags().StringP("output", "o", "", "Output path (default <name>_filled.pdf)")
	_ = cmd.MarkFlagRequired("answers")
	return cmd
}
