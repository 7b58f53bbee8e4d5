package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/a3tai/mcp-form-filler/internal/browser"
	"github.com/a3tai/mcp-form-filler/internal/dom"
	"github.com/a3tai/mcp-form-filler/internal/webform"
)

// fillOutput is the result of the fill command
type fillOutput struct {
	webform.FillResult `yaml:",inline"`
	Output             string `json:"output,omitempty" yaml:"output,omitempty"`
	HTML               string `json:"html,omitempty"   yaml:"html,omitempty"`
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("url", "", "Load the page in headless Chrome instead of reading a file")
	cmd.Flags().String("profile", "", "Chrome profile directory for pages behind a login")
}

// loadDocument reads the page named by --url, the file argument, or stdin
// when the argument is "-" or missing.
func (a *app) loadDocument(cmd *cobra.Command, args []string) (*dom.Document, error) {
	url, _ := cmd.Flags().GetString("url")
	if url != "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("use either a file or --url, not both")
		}
		profile, _ := cmd.Flags().GetString("profile")
		markup, err := browser.Snapshot(cmd.Context(), url, browser.Options{
			ProfileDir: profile,
			Logger:     a.logger,
		})
		if err != nil {
			return nil, err
		}
		return dom.ParseString(markup)
	}

	if len(args) == 0 || args[0] == "-" {
		return dom.Parse(cmd.InOrStdin())
	}

	f, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer f.Close()
	return dom.Parse(f)
}

func readAnswers(path string) (webform.AnswerMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read answers: %w", err)
	}
	// JSON documents are valid YAML
	var answers webform.AnswerMap
	if err := yaml.Unmarshal(data, &answers); err != nil {
		return nil, fmt.Errorf("failed to parse answers %s: %w", path, err)
	}
	if len(answers) == 0 {
		return nil, fmt.Errorf("no answers in %s", path)
	}
	return answers, nil
}

func newDetectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect [file]",
		Short: "List the forms and fields of a page",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.loadDocument(cmd, args)
			if err != nil {
				return err
			}
			report, err := webform.NewPage(doc, a.logger).DetectForms()
			if err != nil {
				return err
			}
			return a.print(cmd, report)
		},
	}
	addSourceFlags(cmd)
	return cmd
}

func newHTMLCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "html [file]",
		Short: "Print the markup of every form on a page",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.loadDocument(cmd, args)
			if err != nil {
				return err
			}
			markup, err := webform.NewPage(doc, a.logger).ExtractFormHTML()
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), markup)
			return err
		},
	}
	addSourceFlags(cmd)
	return cmd
}

func newFillCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fill [file]",
		Short: "Fill a page's forms from an answers file",
		Long: `Fill every form on a page from a YAML or JSON answers file keyed by
field name or id. List answers select several checkboxes.

Examples:
  formctl fill signup.html --answers answers.yaml -o filled.html
  formctl fill --url https://example.com/apply --answers answers.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			answersPath, _ := cmd.Flags().GetString("answers")
			answers, err := readAnswers(answersPath)
			if err != nil {
				return err
			}
			doc, err := a.loadDocument(cmd, args)
			if err != nil {
				return err
			}

			result, err := webform.NewPage(doc, a.logger).FillForm(answers)
			if err != nil {
				return err
			}
			markup, err := doc.HTML()
			if err != nil {
				return err
			}

			out := fillOutput{FillResult: result}
			target, _ := cmd.Flags().GetString("output")
			if target == "" {
				out.HTML = markup
			} else {
				if err := os.WriteFile(target, []byte(markup), 0o600); err != nil {
					return fmt.Errorf("failed to write %s: %w", target, err)
				}
				out.Output = target
			}
			return a.print(cmd, out)
		},
	}
	addSourceFlags(cmd)
	cmd.Flags().String("answers", "", "YAML or JSON file of answers (required)")
	cmd.Flags().StringP("output", "o", "", "Write the filled page here instead of printing it")
	_ = cmd.MarkFlagRequired("answers")
	return cmd
}
