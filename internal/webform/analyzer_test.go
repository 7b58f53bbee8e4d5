package webform

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelector(t *testing.T) {
	tests := []struct {
		name     string
		markup   string
		expected string
	}{
		{
			name:     "element with id short-circuits",
			markup:   `<div id="outer"><section class="x"><form id="foo"></form></section></div>`,
			expected: "#foo",
		},
		{
			name:     "walk stops at first ancestor with id",
			markup:   `<div id="top"><div id="wrap"><section class="a b"><form></form></section></div></div>`,
			expected: "#wrap > section.a > form",
		},
		{
			name:     "walk reaches the body when no ancestor has an id",
			markup:   `<div><form class="f x"></form></div>`,
			expected: "body > div > form.f",
		},
		{
			name:     "leading whitespace in class attribute",
			markup:   `<main class="  wide"><form></form></main>`,
			expected: "body > main.wide > form",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parse(t, tt.markup)
			forms := doc.Forms()
			require.Len(t, forms, 1)
			assert.Equal(t, tt.expected, Selector(forms[0]))
		})
	}
}

func TestAnalyze(t *testing.T) {
	doc := parse(t, `
		<form name="login" action="/login" method="GET"><input type="text" name="user"></form>
		<form><button>Only a button</button></form>
		<form id="contact"><textarea name="message"></textarea></form>`)

	report := Analyze(doc)

	assert.Equal(t, 2, report.FormsFound)
	require.Len(t, report.Forms, 2)

	login := report.Forms[0]
	assert.Equal(t, "form_0", login.ID)
	assert.Equal(t, "login", login.Name)
	assert.Equal(t, "/login", login.Action)
	assert.Equal(t, "GET", login.Method)
	assert.Equal(t, "body > form", login.Selector)

	contact := report.Forms[1]
	assert.Equal(t, "form_2", contact.ID, "ids keep the position among all forms")
	assert.Equal(t, "Form 3", contact.Name)
	assert.Equal(t, "", contact.Action)
	assert.Equal(t, DefaultMethod, contact.Method)
	assert.Equal(t, "#contact", contact.Selector)
}

func TestAnalyze_NoForms(t *testing.T) {
	report := Analyze(parse(t, `<p>No forms here</p>`))

	assert.Equal(t, 0, report.FormsFound)
	assert.NotNil(t, report.Forms)
	assert.Empty(t, report.Forms)
}

func TestAnalyze_FieldlessFormsAreDropped(t *testing.T) {
	report := Analyze(parse(t, `<form><input type="hidden" name="a"></form><form><input type="submit"></form>`))

	assert.Equal(t, 0, report.FormsFound)
	assert.Empty(t, report.Forms)
}

func TestExtractFormHTML(t *testing.T) {
	doc := parse(t, `<form id="a"><input type="text" name="x"></form><div><form id="b"></form></div>`)

	markup, err := ExtractFormHTML(doc)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(markup, "\n"), "\n")
	require.Len(t, lines, 2, "field-less forms are included too")
	assert.True(t, strings.HasPrefix(lines[0], `<form id="a">`))
	assert.Equal(t, `<form id="b"></form>`, lines[1])
	assert.True(t, strings.HasSuffix(markup, "\n"))
}

func TestExtractFormHTML_NoForms(t *testing.T) {
	markup, err := ExtractFormHTML(parse(t, `<p>nothing</p>`))
	require.NoError(t, err)
	assert.Empty(t, markup)
}
