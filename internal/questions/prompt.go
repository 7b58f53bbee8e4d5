package questions

import (
	"fmt"
	"strings"
)

// maxContextRunes bounds how much document text is sent along with a field
const maxContextRunes = 500

const systemPrompt = `You are a professional form assistant helping users fill out forms.
Your ONLY job is to convert form field names into clear, professional questions.

CRITICAL RULES:
1. ONLY ask about the EXACT field provided
2. Match question type to field type
3. Be professional and helpful
4. Keep questions concise and clear
5. NEVER ask the same question twice

OUTPUT FORMAT:
Question: [Your question here]
Help: [One sentence explaining what to enter]`

// buildPrompt renders the user message for one field
func buildPrompt(field Field, docContext string) string {
	if docContext == "" {
		docContext = "General form field"
	} else {
		docContext = truncate(docContext, maxContextRunes)
	}

	var sb strings.Builder
	sb.WriteString("Convert this form field into a natural question:\n\n")
	fmt.Fprintf(&sb, "Field Name: %s\n", field.Name)
	fmt.Fprintf(&sb, "Field Type: %s\n", fieldType(field))
	fmt.Fprintf(&sb, "Label: %s\n", field.Label)
	if len(field.Options) > 0 {
		fmt.Fprintf(&sb, "Options: %s\n", strings.Join(field.Options, ", "))
	}
	fmt.Fprintf(&sb, "\nContext: %s\n\n", docContext)
	sb.WriteString("Generate a clear question and helpful explanation.")
	return sb.String()
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func fieldType(field Field) string {
	if field.Type == "" {
		return "text"
	}
	return field.Type
}

// ParseResponse extracts the "Question:" and "Help:" lines of a model reply.
// Missing lines are replaced by generic wording.
func ParseResponse(content, fieldName string) Question {
	q := Question{FieldName: fieldName}

	for _, line := range strings.Split(strings.TrimSpace(content), "\n") {
		switch {
		case strings.HasPrefix(line, "Question:"):
			q.Text = strings.TrimSpace(strings.TrimPrefix(line, "Question:"))
		case strings.HasPrefix(line, "Help:"):
			q.Explanation = strings.TrimSpace(strings.TrimPrefix(line, "Help:"))
		}
	}

	if q.Text == "" {
		q.Text = fmt.Sprintf("What should we enter for %s?", fieldName)
	}
	if q.Explanation == "" {
		q.Explanation = "Please provide the requested information."
	}
	return q
}
