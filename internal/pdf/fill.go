package pdf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// The structs below mirror the JSON form description pdfcpu reads when
// filling a form. Only the parts needed for filling are declared.

type formGroup struct {
	Header formHeader `json:"header"`
	Forms  []formJSON `json:"forms"`
}

type formHeader struct {
	Source   string `json:"source"`
	Version  string `json:"version"`
	Creation string `json:"creation"`
}

type formJSON struct {
	TextFields        []textFieldJSON  `json:"textfield,omitempty"`
	CheckBoxes        []checkBoxJSON   `json:"checkbox,omitempty"`
	RadioButtonGroups []radioGroupJSON `json:"radiobuttongroup,omitempty"`
	ComboBoxes        []comboBoxJSON   `json:"combobox,omitempty"`
	ListBoxes         []listBoxJSON    `json:"listbox,omitempty"`
}

type textFieldJSON struct {
	Pages  []int  `json:"pages,omitempty"`
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Value  string `json:"value"`
	Locked bool   `json:"locked"`
}

type checkBoxJSON struct {
	Pages  []int  `json:"pages,omitempty"`
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Value  bool   `json:"value"`
	Locked bool   `json:"locked"`
}

type radioGroupJSON struct {
	Pages   []int    `json:"pages,omitempty"`
	ID      string   `json:"id"`
	Name    string   `json:"name,omitempty"`
	Options []string `json:"options,omitempty"`
	Value   string   `json:"value"`
	Locked  bool     `json:"locked"`
}

type comboBoxJSON struct {
	Pages   []int    `json:"pages,omitempty"`
	ID      string   `json:"id"`
	Name    string   `json:"name,omitempty"`
	Options []string `json:"options,omitempty"`
	Value   string   `json:"value"`
	Locked  bool     `json:"locked"`
}

type listBoxJSON struct {
	Pages   []int    `json:"pages,omitempty"`
	ID      string   `json:"id"`
	Name    string   `json:"name,omitempty"`
	Multi   bool     `json:"multi"`
	Options []string `json:"options,omitempty"`
	Values  []string `json:"values"`
	Locked  bool     `json:"locked"`
}

// Fill writes answers, keyed by full field name, into the form of data.
// The returned bytes are always usable: when filling fails they are the
// original document, returned together with the error.
func Fill(data []byte, answers map[string]string) ([]byte, error) {
	fields, err := ExtractFields(data)
	if err != nil {
		return data, fmt.Errorf("failed to read form fields: %w", err)
	}

	group, filled := buildFormGroup(fields, answers)
	if filled == 0 {
		return data, nil
	}

	spec, err := json.Marshal(group)
	if err != nil {
		return data, fmt.Errorf("failed to encode form values: %w", err)
	}

	var out bytes.Buffer
	if err := api.FillForm(bytes.NewReader(data), bytes.NewReader(spec), &out, newConfiguration()); err != nil {
		return data, fmt.Errorf("failed to fill form: %w", err)
	}
	return out.Bytes(), nil
}

// MatchAnswers reports how many fields an answer set would fill
func MatchAnswers(fields []FormField, answers map[string]string) int {
	_, filled := buildFormGroup(fields, answers)
	return filled
}

func buildFormGroup(fields []FormField, answers map[string]string) (formGroup, int) {
	var form formJSON
	filled := 0

	for _, f := range fields {
		answer, ok := answers[f.Name]
		if !ok || f.ReadOnly {
			continue
		}
		var pages []int
		if f.Page > 0 {
			pages = []int{f.Page}
		}

		switch f.Type {
		case FieldTypeText:
			form.TextFields = append(form.TextFields, textFieldJSON{
				Pages: pages, ID: f.ID, Name: f.Name, Value: answer,
			})
		case FieldTypeCheckbox:
			form.CheckBoxes = append(form.CheckBoxes, checkBoxJSON{
				Pages: pages, ID: f.ID, Name: f.Name, Value: isChecked(answer, f.Options),
			})
		case FieldTypeRadio:
			value, ok := matchOption(answer, f.Options)
			if !ok {
				continue
			}
			form.RadioButtonGroups = append(form.RadioButtonGroups, radioGroupJSON{
				Pages: pages, ID: f.ID, Name: f.Name, Options: f.Options, Value: value,
			})
		case FieldTypeComboBox:
			value, ok := matchChoice(answer, f)
			if !ok {
				continue
			}
			form.ComboBoxes = append(form.ComboBoxes, comboBoxJSON{
				Pages: pages, ID: f.ID, Name: f.Name, Options: f.Options, Value: value,
			})
		case FieldTypeListBox:
			var values []string
			for _, part := range strings.Split(answer, ",") {
				if value, ok := matchChoice(strings.TrimSpace(part), f); ok {
					values = append(values, value)
				}
			}
			if len(values) == 0 || (!f.Multi && len(values) > 1) {
				continue
			}
			form.ListBoxes = append(form.ListBoxes, listBoxJSON{
				Pages: pages, ID: f.ID, Name: f.Name, Multi: f.Multi, Options: f.Options, Values: values,
			})
		default:
			continue
		}
		filled++
	}

	group := formGroup{
		Header: formHeader{
			Source:   "mcp-form-filler",
			Version:  "1.0.0",
			Creation: time.Now().UTC().Format(time.RFC3339),
		},
		Forms: []formJSON{form},
	}
	return group, filled
}

// isChecked decides a checkbox from a free text answer
func isChecked(answer string, onStates []string) bool {
	a := strings.TrimSpace(answer)
	switch strings.ToLower(a) {
	case "yes", "y", "true", "on", "1", "x", "checked":
		return true
	}
	for _, state := range onStates {
		if strings.EqualFold(a, state) {
			return true
		}
	}
	return false
}

// matchOption returns the option equal to answer, preferring an exact match.
// Without known options any non-empty answer is accepted.
func matchOption(answer string, options []string) (string, bool) {
	if answer == "" {
		return "", false
	}
	if len(options) == 0 {
		return answer, true
	}
	for _, opt := range options {
		if opt == answer {
			return opt, true
		}
	}
	for _, opt := range options {
		if strings.EqualFold(opt, answer) {
			return opt, true
		}
	}
	return "", false
}

// matchChoice resolves an answer to the display value of a choice field.
// Answers naming an export value are translated to its display value.
func matchChoice(answer string, f FormField) (string, bool) {
	if value, ok := matchOption(answer, f.Options); ok {
		return value, true
	}
	if len(f.exports) != len(f.Options) {
		return "", false
	}
	export, ok := matchOption(answer, f.exports)
	if !ok {
		return "", false
	}
	for i, e := range f.exports {
		if e == export {
			return f.Options[i], true
		}
	}
	return "", false
}
