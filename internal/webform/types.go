package webform

// FieldKind classifies a logical form input
type FieldKind string

const (
	KindText          FieldKind = "text"
	KindTextarea      FieldKind = "textarea"
	KindSelect        FieldKind = "select"
	KindCheckboxGroup FieldKind = "checkbox-group"
	KindRadioGroup    FieldKind = "radio-group"
)

// UnknownLabel is used when no label, placeholder or name describes a field
const UnknownLabel = "Unknown field"

// DefaultMethod is reported for forms without a method attribute
const DefaultMethod = "POST"

// Option is one choice of a select, checkbox group or radio group
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// FieldDescriptor is the normalized view of one logical form input. A whole
// set of same-named checkboxes or radios is a single descriptor.
type FieldDescriptor struct {
	Name         string    `json:"name"              yaml:"name"`
	Kind         FieldKind `json:"type"              yaml:"type"`
	Label        string    `json:"label"             yaml:"label"`
	CurrentValue *string   `json:"value,omitempty"   yaml:"value,omitempty"`
	Options      []Option  `json:"options,omitempty" yaml:"options,omitempty"`
}

// FormDescriptor describes one form with at least one fillable field
type FormDescriptor struct {
	ID       string            `json:"id"       yaml:"id"`
	Name     string            `json:"name"     yaml:"name"`
	Action   string            `json:"action"   yaml:"action"`
	Method   string            `json:"method"   yaml:"method"`
	Fields   []FieldDescriptor `json:"fields"   yaml:"fields"`
	Selector string            `json:"selector" yaml:"selector"`
}

// FormReport is the result of scanning a page for forms
type FormReport struct {
	FormsFound int              `json:"formsFound" yaml:"forms_found"`
	Forms      []FormDescriptor `json:"forms"      yaml:"forms"`
}

// FillResult reports how many fields a fill pass touched
type FillResult struct {
	FieldsFilled int    `json:"fieldsFilled" yaml:"fields_filled"`
	Message      string `json:"message"      yaml:"message"`
}
