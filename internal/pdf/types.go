package pdf

// FieldType is the kind of an AcroForm field
type FieldType string

// Field types
const (
	FieldTypeText      FieldType = "text"
	FieldTypeCheckbox  FieldType = "checkbox"
	FieldTypeRadio     FieldType = "radio"
	FieldTypeComboBox  FieldType = "combobox"
	FieldTypeListBox   FieldType = "listbox"
	FieldTypeButton    FieldType = "button"
	FieldTypeSignature FieldType = "signature"
	FieldTypeUnknown   FieldType = "unknown"
)

// QuestionType maps the field type onto the coarse kinds used for question
// generation: text for Tx, checkbox for Btn and choice for Ch.
func (t FieldType) QuestionType() string {
	switch t {
	case FieldTypeCheckbox, FieldTypeRadio:
		return "checkbox"
	case FieldTypeComboBox, FieldTypeListBox:
		return "choice"
	default:
		return "text"
	}
}

// FormField is one terminal AcroForm field
type FormField struct {
	ID       string    `json:"id"                  yaml:"id"`
	Name     string    `json:"name"                yaml:"name"`
	Type     FieldType `json:"type"                yaml:"type"`
	Value    string    `json:"value,omitempty"     yaml:"value,omitempty"`
	Options  []string  `json:"options,omitempty"   yaml:"options,omitempty"`
	Page     int       `json:"page,omitempty"      yaml:"page,omitempty"`
	ReadOnly bool      `json:"read_only,omitempty" yaml:"read_only,omitempty"`
	Required bool      `json:"required,omitempty"  yaml:"required,omitempty"`
	Multi    bool      `json:"multi,omitempty"     yaml:"multi,omitempty"`

	// export values of Options, index for index
	exports []string
}

// Document is what an uploaded PDF yields for a session
type Document struct {
	Fields []FormField
	Text   string
}

// PDFFormFieldsRequest represents a request to list the fields of a PDF
type PDFFormFieldsRequest struct {
	Path string `json:"path"`
}

// PDFFormFieldsResult represents the fields found in a PDF
type PDFFormFieldsResult struct {
	Path   string      `json:"path"`
	Fields []FormField `json:"fields"`
	Total  int         `json:"total"`
}

// PDFFillFormRequest represents a request to fill a PDF form on disk
type PDFFillFormRequest struct {
	Path    string            `json:"path"`
	Answers map[string]string `json:"answers"`
	Output  string            `json:"output,omitempty"`
}

// PDFFillFormResult represents the outcome of a fill
type PDFFillFormResult struct {
	Path         string `json:"path"`
	Output       string `json:"output"`
	FieldsFilled int    `json:"fields_filled"`
	Message      string `json:"message,omitempty"`
}

// PDFReadTextRequest represents a request to read the text of a PDF
type PDFReadTextRequest struct {
	Path string `json:"path"`
}

// PDFReadTextResult represents the text of a PDF
type PDFReadTextResult struct {
	Path    string `json:"path"`
	Content string `json:"content"`
	Pages   int    `json:"pages"`
	Size    int64  `json:"size"`
}
