package descriptions

import "sort"

// Tool descriptions with practical examples and use cases

const (
	// Website form tools
	DetectFormsDescription = `Find every fillable form in an HTML page and describe its fields.

**When to use:** Starting to fill a web form, or checking what a page asks for before collecting answers.

**Why it's useful:** Groups same-named checkboxes and radios into one logical field, resolves human labels and synthesizes a CSS selector for each form.

**Examples:**
• Inspect a signup page: "Which fields does signup.html ask for?"
• Plan a conversation: "Detect forms in application.html so I can ask the user for each field"

**Common workflows:**
1. Interview: detect_forms → ask the user one question per field → fill_form
2. Audit: detect_forms → compare labels and field names → report unlabeled inputs

**Best practices:** Pass either inline html or a path under the configured forms directory. Forms without fillable fields are left out of the report.`

	ExtractFormHTMLDescription = `Return the raw markup of every form in an HTML page.

**When to use:** A downstream analyzer or model needs the original form HTML, including forms without fillable fields.

**Why it's useful:** Strips the page down to its forms so the context sent onward stays small.

**Examples:**
• Feed a model: "Extract the form HTML from checkout.html for question generation"

**Best practices:** Output is one form per line, in document order.`

	FillFormDescription = `Write answers into the forms of an HTML page and return the filled markup.

**When to use:** Answers have been collected and the page should reflect them.

**Why it's useful:** Handles text inputs, textareas, selects, checkbox groups and radio groups, and fires the change and input events page scripts listen for.

**Examples:**
• Fill a contact form: answers {"email": "ada@example.com", "topics": ["billing", "support"]}
• Tick a consent box: answers {"terms": "yes"}

**Common workflows:**
1. detect_forms → collect answers → fill_form → save the returned html

**Best practices:** Keys match a field's name or id. Lists select every matching checkbox. Empty strings leave a field untouched.`

	// PDF form tools
	PDFFormFieldsDescription = `List the interactive AcroForm fields of a PDF with their types, options and current values.

**When to use:** Before filling a PDF form, to learn which field names the answers must use.

**Why it's useful:** Walks nested field hierarchies and reports full dotted names, choice options and read-only flags.

**Examples:**
• Tax form: "Which fields does w9.pdf have?"
• Application: "List the checkbox options in application.pdf"

**Best practices:** Push buttons are not reported. Fields are numbered by page.`

	PDFFillFormDescription = `Fill the AcroForm fields of a PDF and write the result to a new file.

**When to use:** Answers for a PDF form are known and a completed copy is needed.

**Why it's useful:** Matches answers to fields by name, converts yes/no answers for checkboxes and validates choice values against the field's options.

**Examples:**
• Complete a form: answers {"full_name": "Ada Lovelace", "agree": "yes"}

**Common workflows:**
1. pdf_form_fields → collect answers → pdf_fill_form → share the output file

**Best practices:** The output defaults to <name>_filled.pdf next to the input and must stay inside the forms directory. The input is never modified.`

	PDFReadTextDescription = `Extract the plain text of a PDF page by page.

**When to use:** The surrounding text of a form is needed to phrase questions or explain fields.

**Examples:**
• "Read the instructions in application.pdf before asking the user anything"

**Best practices:** Scanned documents yield little or no text.`

	// Utility tools
	FormServerInfoDescription = `Get server status, configuration and the list of available tools.

**When to use:** Starting a session or troubleshooting why files are not found.

**Best practices:** Reports the forms directory, the maximum file size and which question provider is configured.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"detect_forms":      DetectFormsDescription,
	"extract_form_html": ExtractFormHTMLDescription,
	"fill_form":         FillFormDescription,
	"pdf_form_fields":   PDFFormFieldsDescription,
	"pdf_fill_form":     PDFFillFormDescription,
	"pdf_read_text":     PDFReadTextDescription,
	"form_server_info":  FormServerInfoDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns all tool names in alphabetical order
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
