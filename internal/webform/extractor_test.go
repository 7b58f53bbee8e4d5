package webform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-form-filler/internal/dom"
)

func parse(t *testing.T, markup string) *dom.Document {
	t.Helper()
	doc, err := dom.ParseString(markup)
	require.NoError(t, err)
	return doc
}

func extractFirst(t *testing.T, markup string) []FieldDescriptor {
	t.Helper()
	doc := parse(t, markup)
	forms := doc.Forms()
	require.NotEmpty(t, forms)
	return ExtractFields(doc, forms[0])
}

func TestExtractFields_Kinds(t *testing.T) {
	fields := extractFirst(t, `<form>
		<input type="radio" name="plan" value="free">
		<input type="checkbox" name="news" value="weekly">
		<select name="country"><option value="us">United States</option><option value="ca">Canada</option></select>
		<textarea name="bio">About me</textarea>
		<input type="text" name="first">
		<input type="email" name="email" value="a@b.com">
		<input type="number" name="age">
		<input type="tel" name="phone">
		<input type="password" name="secret">
		<input type="date" name="dob">
		<input type="hidden" name="csrf" value="x">
		<input type="submit" value="Send">
		<input name="notyped">
	</form>`)

	require.Len(t, fields, 10)

	names := make([]string, 0, len(fields))
	kinds := make([]FieldKind, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Name)
		kinds = append(kinds, f.Kind)
	}
	assert.Equal(t, []string{
		"first", "email", "age", "phone", "secret", "dob", "bio", "country", "news", "plan",
	}, names)
	assert.Equal(t, []FieldKind{
		KindText, KindText, KindText, KindText, KindText, KindText,
		KindTextarea, KindSelect, KindCheckboxGroup, KindRadioGroup,
	}, kinds)

	require.NotNil(t, fields[1].CurrentValue)
	assert.Equal(t, "a@b.com", *fields[1].CurrentValue)
	require.NotNil(t, fields[6].CurrentValue)
	assert.Equal(t, "About me", *fields[6].CurrentValue)
	assert.Equal(t, []Option{
		{Value: "us", Label: "United States"},
		{Value: "ca", Label: "Canada"},
	}, fields[7].Options)
	assert.Nil(t, fields[8].CurrentValue, "groups carry no current value")
}

func TestExtractFields_CheckboxGrouping(t *testing.T) {
	fields := extractFirst(t, `<form>
		<label for="t1">Pick toppings</label>
		<input type="checkbox" id="t1" name="toppings" value="cheese"><span>Cheese</span>
		<input type="checkbox" name="extras" value="napkins">
		<input type="checkbox" name="toppings" value="ham"><span>Ham</span>
		<input type="checkbox" name="toppings" value="olives">
	</form>`)

	require.Len(t, fields, 2)

	toppings := fields[0]
	assert.Equal(t, "toppings", toppings.Name)
	assert.Equal(t, KindCheckboxGroup, toppings.Kind)
	assert.Equal(t, "Pick toppings", toppings.Label, "group label comes from the first checkbox")
	require.Len(t, toppings.Options, 3)
	assert.Equal(t, Option{Value: "cheese", Label: "Cheese"}, toppings.Options[0])
	assert.Equal(t, Option{Value: "ham", Label: "Ham"}, toppings.Options[1])
	assert.Equal(t, Option{Value: "olives", Label: "olives"}, toppings.Options[2])

	assert.Equal(t, "extras", fields[1].Name)
	assert.Len(t, fields[1].Options, 1)
}

func TestExtractFields_OptionLabelWhitespace(t *testing.T) {
	fields := extractFirst(t, `<form>
		<input type="checkbox" name="toppings" value="pepperoni"><span>  Pepperoni
		</span>
		<input type="checkbox" name="toppings" value="onion"><span>   </span>
	</form>`)

	require.Len(t, fields, 1)
	assert.Equal(t, []Option{
		{Value: "pepperoni", Label: "Pepperoni"},
		{Value: "onion", Label: "onion"},
	}, fields[0].Options, "labels are trimmed and blank ones fall back to the value")
}

func TestExtractFields_RadioGrouping(t *testing.T) {
	fields := extractFirst(t, `<form>
		<input type="radio" name="gender" value="M"><label>Male</label>
		<input type="radio" name="gender" value="F"><label>Female</label>
	</form>`)

	require.Len(t, fields, 1)
	assert.Equal(t, KindRadioGroup, fields[0].Kind)
	assert.Equal(t, "gender", fields[0].Label)
	assert.Equal(t, []Option{
		{Value: "M", Label: "Male"},
		{Value: "F", Label: "Female"},
	}, fields[0].Options)
}

func TestExtractFields_LabelResolution(t *testing.T) {
	fields := extractFirst(t, `<form>
		<label for="a">  Explicit label  </label>
		<input type="text" id="a" name="a_name" placeholder="ignored">
		<label>Wrapping label <input type="text" name="b_name" placeholder="ignored"></label>
		<input type="text" name="c_name" placeholder="Placeholder text">
		<input type="text" name="d_name">
		<input type="text">
		<label for="f"> </label>
		<input type="text" id="f" name="f_name">
	</form>`)

	require.Len(t, fields, 6)
	assert.Equal(t, "Explicit label", fields[0].Label)
	assert.Equal(t, "Wrapping label", fields[1].Label)
	assert.Equal(t, "Placeholder text", fields[2].Label)
	assert.Equal(t, "d_name", fields[3].Label)
	assert.Equal(t, UnknownLabel, fields[4].Label)
	assert.Equal(t, "f_name", fields[5].Label, "blank labels fall through")
}

func TestExtractFields_SyntheticNames(t *testing.T) {
	fields := extractFirst(t, `<form>
		<input type="text" name="named">
		<input type="text" id="by_id">
		<input type="text">
		<textarea></textarea>
		<select><option>One</option></select>
	</form>`)

	require.Len(t, fields, 5)
	assert.Equal(t, "named", fields[0].Name)
	assert.Equal(t, "by_id", fields[1].Name)
	assert.Equal(t, "field_2", fields[2].Name)
	assert.Equal(t, "field_3", fields[3].Name)
	assert.Equal(t, "field_4", fields[4].Name)
	assert.Equal(t, []Option{{Value: "One", Label: "One"}}, fields[4].Options)
}

func TestExtractFields_EmptyForm(t *testing.T) {
	fields := extractFirst(t, `<form><input type="submit"><button>Go</button></form>`)
	assert.Empty(t, fields)
}
