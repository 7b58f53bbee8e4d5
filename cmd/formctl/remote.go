package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/a3tai/mcp-form-filler/internal/client"
	"github.com/a3tai/mcp-form-filler/internal/dom"
	"github.com/a3tai/mcp-form-filler/internal/webform"
)

// Commands understood by the chat prompt
const (
	chatSkip  = "/skip"
	chatImage = "/image "
	chatQuit  = "/quit"
)

func addServerFlag(cmd *cobra.Command) {
	cmd.Flags().String("server", client.DefaultBaseURL, "Form backend URL")
}

func backend(cmd *cobra.Command) *client.Client {
	url, _ := cmd.Flags().GetString("server")
	return client.New(url)
}

func newHealthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that the form backend is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			health, err := backend(cmd).Health(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(cmd, health)
		},
	}
	addServerFlag(cmd)
	return cmd
}

func newChatCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat <file.pdf|file.html>",
		Short: "Answer a form question by question",
		Long: `Upload a PDF form, or the forms of an HTML page, to the form backend and
answer its questions one at a time. Type /skip to leave a field empty,
/image <path> to attach a signature or photo, and /quit to stop.

A PDF session ends by writing the completed PDF; an HTML session ends by
printing the collected answers.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.chat(cmd, client.NewFlow(backend(cmd)), args[0])
		},
	}
	addServerFlag(cmd)
	cmd.Flags().StringP("output", "o", "completed_form.pdf", "Where to write the completed PDF")
	return cmd
}

func (a *app) chat(cmd *cobra.Command, flow *client.Flow, path string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var question *client.Question
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		question, err = flow.StartPDF(ctx, filepath.Base(path), data)
	} else {
		question, err = a.startWebsite(cmd, flow, data)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Found %d fields in %s\n", flow.TotalFields, path)

	input := bufio.NewScanner(cmd.InOrStdin())
	for question != nil {
		printQuestion(out, question, flow.Progress())
		if !input.Scan() {
			if err := input.Err(); err != nil {
				return err
			}
			return io.ErrUnexpectedEOF
		}
		line := strings.TrimSpace(input.Text())

		var next *client.Question
		switch {
		case line == chatQuit:
			return nil
		case line == chatSkip:
			next, err = flow.Skip(ctx)
		case strings.HasPrefix(line, chatImage):
			next, err = a.uploadImage(cmd, flow, strings.TrimSpace(strings.TrimPrefix(line, chatImage)))
		default:
			next, err = flow.Answer(ctx, line)
		}
		if err != nil {
			if isRetryable(err) {
				fmt.Fprintf(out, "  %v\n", err)
				continue
			}
			return err
		}
		question = next
	}

	return a.finish(cmd, flow)
}

func (a *app) startWebsite(cmd *cobra.Command, flow *client.Flow, data []byte) (*client.Question, error) {
	doc, err := dom.ParseString(string(data))
	if err != nil {
		return nil, err
	}
	page := webform.NewPage(doc, a.logger)
	report, err := page.DetectForms()
	if err != nil {
		return nil, err
	}
	markup, err := page.ExtractFormHTML()
	if err != nil {
		return nil, err
	}
	return flow.StartWebsite(cmd.Context(), markup, report.Forms)
}

func (a *app) uploadImage(cmd *cobra.Command, flow *client.Flow, path string) (*client.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", client.ErrInvalidImage, err)
	}
	a.logger.Debug("Uploading image", zap.String("path", path), zap.Int("bytes", len(data)))
	return flow.UploadImage(cmd.Context(), filepath.Base(path), data)
}

func (a *app) finish(cmd *cobra.Command, flow *client.Flow) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "All fields completed.")

	if flow.Mode == client.ModePDF {
		data, err := flow.DownloadPDF(cmd.Context())
		if err != nil {
			return err
		}
		target, _ := cmd.Flags().GetString("output")
		if err := os.WriteFile(target, data, 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", target, err)
		}
		fmt.Fprintf(out, "Completed PDF written to %s\n", target)
		return nil
	}

	answers, err := flow.WebsiteAnswers(cmd.Context())
	if err != nil {
		return err
	}
	return a.print(cmd, answers)
}

func printQuestion(w io.Writer, q *client.Question, progress int) {
	fmt.Fprintf(w, "\n[%d/%d %d%%] %s\n", q.Current, q.Total, progress, q.Text)
	if q.Explanation != "" {
		fmt.Fprintf(w, "  %s\n", q.Explanation)
	}
	fmt.Fprint(w, "> ")
}

// isRetryable reports whether the prompt can ask again after err
func isRetryable(err error) bool {
	for _, target := range []error{client.ErrEmptyAnswer, client.ErrInvalidImage, client.ErrImageTooLarge} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
