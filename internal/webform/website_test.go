package webform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectFields(t *testing.T) {
	forms := []FormDescriptor{
		{Fields: []FieldDescriptor{
			{Name: "email", Kind: KindText, Label: "Email"},
			{Name: "notes"},
		}},
		{Fields: []FieldDescriptor{
			{Name: "email", Kind: KindTextarea, Label: "Second email"},
			{Name: ""},
			{Name: "plan", Kind: KindRadioGroup, Label: "Plan"},
		}},
	}

	fields := CollectFields(forms)

	require.Len(t, fields, 3)
	assert.Equal(t, FieldDescriptor{Name: "email", Kind: KindText, Label: "Email"}, fields[0])
	assert.Equal(t, FieldDescriptor{Name: "notes", Kind: KindText, Label: "notes"}, fields[1])
	assert.Equal(t, "plan", fields[2].Name)
}

func TestFieldsFromHTML(t *testing.T) {
	fields, err := FieldsFromHTML(`<form><input type="text" name="a"></form>
<form><input type="text" name="a"><select name="b"><option>x</option></select></form>
`)
	require.NoError(t, err)

	require.Len(t, fields, 2)
	assert.Equal(t, "a", fields[0].Name)
	assert.Equal(t, "b", fields[1].Name)
	assert.Equal(t, KindSelect, fields[1].Kind)
}
