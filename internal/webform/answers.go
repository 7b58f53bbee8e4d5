package webform

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Answer is the value supplied for one field: either a single string or an
// ordered list of strings (for multi-choice checkbox groups).
type Answer struct {
	values []string
	multi  bool
	set    bool
}

// Scalar returns a single-valued answer
func Scalar(s string) Answer {
	return Answer{values: []string{s}, set: true}
}

// Multi returns a list answer
func Multi(values ...string) Answer {
	return Answer{values: append([]string{}, values...), multi: true, set: true}
}

// IsMulti reports whether the answer is a list
func (a Answer) IsMulti() bool {
	return a.multi
}

// Values returns the answer as a list
func (a Answer) Values() []string {
	return append([]string{}, a.values...)
}

// String returns a scalar answer as-is and joins a list with commas
func (a Answer) String() string {
	if !a.multi {
		if len(a.values) == 0 {
			return ""
		}
		return a.values[0]
	}
	return strings.Join(a.values, ",")
}

// Contains reports whether v is one of the values of a list answer
func (a Answer) Contains(v string) bool {
	for _, s := range a.values {
		if s == v {
			return true
		}
	}
	return false
}

// usable reports whether the answer should be applied at all. An empty
// scalar is treated like a missing key; an empty list still applies and
// unchecks every box of the group.
func (a Answer) usable() bool {
	if !a.set {
		return false
	}
	return a.multi || a.String() != ""
}

// AnswerFromValue converts a decoded JSON or YAML value into an Answer.
// Strings and lists are taken as they are, other scalars by their text.
func AnswerFromValue(v any) (Answer, error) {
	switch val := v.(type) {
	case nil:
		return Answer{}, nil
	case string:
		return Scalar(val), nil
	case bool:
		return Scalar(strconv.FormatBool(val)), nil
	case float64:
		return Scalar(strconv.FormatFloat(val, 'f', -1, 64)), nil
	case int:
		return Scalar(strconv.Itoa(val)), nil
	case []string:
		return Multi(val...), nil
	case []any:
		values := make([]string, 0, len(val))
		for _, item := range val {
			inner, err := AnswerFromValue(item)
			if err != nil {
				return Answer{}, err
			}
			if inner.multi {
				return Answer{}, fmt.Errorf("nested lists are not supported")
			}
			values = append(values, inner.String())
		}
		return Multi(values...), nil
	default:
		return Answer{}, fmt.Errorf("unsupported answer type %T", v)
	}
}

// MarshalJSON encodes a scalar as a string and a list as an array
func (a Answer) MarshalJSON() ([]byte, error) {
	if !a.set {
		return []byte("null"), nil
	}
	if a.multi {
		return json.Marshal(a.Values())
	}
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts a string, an array of strings or another scalar
func (a *Answer) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := AnswerFromValue(v)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// MarshalYAML mirrors MarshalJSON
func (a Answer) MarshalYAML() (any, error) {
	if !a.set {
		return nil, nil
	}
	if a.multi {
		return a.Values(), nil
	}
	return a.String(), nil
}

// UnmarshalYAML lets answer files be written in YAML
func (a *Answer) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if node.Kind == yaml.ScalarNode {
		// keep "007" or "yes" exactly as typed rather than as numbers or booleans
		if node.Tag == "!!null" {
			*a = Answer{}
			return nil
		}
		*a = Scalar(node.Value)
		return nil
	}
	if err := node.Decode(&v); err != nil {
		return err
	}
	parsed, err := AnswerFromValue(v)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// AnswerMap maps field names to answers
type AnswerMap map[string]Answer

// lookup returns the answer for key when it should be applied
func (m AnswerMap) lookup(key string) (Answer, bool) {
	if key == "" {
		return Answer{}, false
	}
	a, ok := m[key]
	if !ok || !a.usable() {
		return Answer{}, false
	}
	return a, true
}

// Strings flattens the map to plain strings, joining lists with commas
func (m AnswerMap) Strings() map[string]string {
	out := make(map[string]string, len(m))
	for k, a := range m {
		if a.set {
			out[k] = a.String()
		}
	}
	return out
}
