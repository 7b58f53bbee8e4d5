package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// ErrNoFields is returned when a PDF carries no fillable AcroForm fields
var ErrNoFields = errors.New("no fillable fields found in PDF")

// field flag bits, counted from 1 as in the PDF reference
const (
	flagReadOnly    = 1 << 0
	flagRequired    = 1 << 1
	flagRadio       = 1 << 15
	flagPushbutton  = 1 << 16
	flagCombo       = 1 << 17
	flagMultiSelect = 1 << 21
)

// maxFieldDepth guards against cyclic Kids arrays
const maxFieldDepth = 32

func newConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

func readContext(data []byte) (*model.Context, error) {
	ctx, err := api.ReadContext(bytes.NewReader(data), newConfiguration())
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to ensure page count: %w", err)
	}
	return ctx, nil
}

// ExtractFields lists the terminal fields of the document's AcroForm.
// Push buttons are left out. A document without a form yields no fields and
// no error.
func ExtractFields(data []byte) ([]FormField, error) {
	ctx, err := readContext(data)
	if err != nil {
		return nil, err
	}

	root, err := ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}

	acroFormObj, found := root.Find("AcroForm")
	if !found {
		return nil, nil
	}
	acroForm, err := ctx.DereferenceDict(acroFormObj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference AcroForm: %w", err)
	}
	if acroForm == nil {
		return nil, nil
	}

	fieldsObj, found := acroForm.Find("Fields")
	if !found {
		return nil, nil
	}
	fieldsArray, err := ctx.DereferenceArray(fieldsObj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference Fields array: %w", err)
	}

	w := &fieldWalker{ctx: ctx, pages: pageNumbers(ctx)}
	for i, obj := range fieldsArray {
		w.walk(obj, "", "", inherited{}, i, 0)
	}
	return w.fields, nil
}

// inherited carries the attributes a field takes over from its ancestors
type inherited struct {
	fieldType types.Object
	flags     *int
	value     types.Object
}

type fieldWalker struct {
	ctx    *model.Context
	pages  map[int]int
	fields []FormField
}

// walk names fields the way pdfcpu does when filling: ids are the dotted
// object numbers from the top-level field down, names the dotted partial
// names.
func (w *fieldWalker) walk(obj types.Object, parentName, parentID string, inh inherited, index, depth int) {
	if depth > maxFieldDepth {
		return
	}
	dict, err := w.ctx.DereferenceDict(obj)
	if err != nil || dict == nil {
		return
	}

	id := parentID
	if ir, ok := obj.(types.IndirectRef); ok {
		if id == "" {
			id = strconv.Itoa(ir.ObjectNumber.Value())
		} else {
			id = id + "." + strconv.Itoa(ir.ObjectNumber.Value())
		}
	}

	name := parentName
	if t, found := dict.Find("T"); found {
		if partial, err := w.ctx.DereferenceStringOrHexLiteral(t, model.V10, nil); err == nil && partial != "" {
			if name == "" {
				name = partial
			} else {
				name = name + "." + partial
			}
		}
	}
	ownType := ""
	if ft, found := dict.Find("FT"); found {
		inh.fieldType = ft
		if n, err := w.ctx.DereferenceName(ft, model.V10, nil); err == nil {
			ownType = string(n)
		}
	}
	if ff, found := dict.Find("Ff"); found {
		if flags, err := w.ctx.DereferenceInteger(ff); err == nil && flags != nil {
			v := int(*flags)
			inh.flags = &v
		}
	}
	if v, found := dict.Find("V"); found {
		inh.value = v
	}

	// kids that carry a partial name are fields; kids without one are widgets.
	// A text or button field with its own type owns all of its kids.
	var childFields []types.Object
	kidsObj, hasKids := dict.Find("Kids")
	if hasKids && ownType != "Tx" && ownType != "Btn" {
		if kids, err := w.ctx.DereferenceArray(kidsObj); err == nil {
			for _, kid := range kids {
				if kidDict, err := w.ctx.DereferenceDict(kid); err == nil && kidDict != nil {
					if _, named := kidDict.Find("T"); named {
						childFields = append(childFields, kid)
					}
				}
			}
		}
	}
	if len(childFields) > 0 {
		for i, kid := range childFields {
			w.walk(kid, name, id, inh, i, depth+1)
		}
		return
	}

	field, ok := w.terminal(id, dict, name, inh, index)
	if ok {
		w.fields = append(w.fields, field)
	}
}

func (w *fieldWalker) terminal(id string, dict types.Dict, name string, inh inherited, index int) (FormField, bool) {
	flags := 0
	if inh.flags != nil {
		flags = *inh.flags
	}

	field := FormField{
		ID:       id,
		Name:     name,
		Type:     w.fieldType(inh.fieldType, flags),
		ReadOnly: flags&flagReadOnly != 0,
		Required: flags&flagRequired != 0,
		Page:     w.page(dict),
	}
	if field.Type == FieldTypeButton {
		return FormField{}, false
	}
	if field.Name == "" {
		field.Name = fmt.Sprintf("field_%d", index)
	}

	switch field.Type {
	case FieldTypeCheckbox, FieldTypeRadio:
		field.Options = w.appearanceStates(dict)
	case FieldTypeComboBox, FieldTypeListBox:
		field.Options, field.exports = w.choiceOptions(dict)
		field.Multi = flags&flagMultiSelect != 0
	}
	if inh.value != nil {
		field.Value = w.value(inh.value, field.Type)
	}
	return field, true
}

func (w *fieldWalker) fieldType(ft types.Object, flags int) FieldType {
	if ft == nil {
		return FieldTypeUnknown
	}
	name, err := w.ctx.DereferenceName(ft, model.V10, nil)
	if err != nil {
		return FieldTypeUnknown
	}

	switch string(name) {
	case "Btn":
		switch {
		case flags&flagPushbutton != 0:
			return FieldTypeButton
		case flags&flagRadio != 0:
			return FieldTypeRadio
		default:
			return FieldTypeCheckbox
		}
	case "Tx":
		return FieldTypeText
	case "Ch":
		if flags&flagCombo != 0 {
			return FieldTypeComboBox
		}
		return FieldTypeListBox
	case "Sig":
		return FieldTypeSignature
	default:
		return FieldTypeUnknown
	}
}

func (w *fieldWalker) value(obj types.Object, ft FieldType) string {
	switch ft {
	case FieldTypeCheckbox, FieldTypeRadio:
		if name, err := w.ctx.DereferenceName(obj, model.V10, nil); err == nil && string(name) != "Off" {
			return string(name)
		}
		return ""
	}

	if s, err := w.ctx.DereferenceStringOrHexLiteral(obj, model.V10, nil); err == nil {
		return s
	}
	if arr, err := w.ctx.DereferenceArray(obj); err == nil {
		var values []string
		for _, item := range arr {
			if s, err := w.ctx.DereferenceStringOrHexLiteral(item, model.V10, nil); err == nil {
				values = append(values, s)
			}
		}
		return strings.Join(values, ",")
	}
	return ""
}

// choiceOptions reads Opt entries as display values, trimmed and without
// blanks, which is what pdfcpu matches a filled value against. The export
// value of each entry is returned alongside.
func (w *fieldWalker) choiceOptions(dict types.Dict) ([]string, []string) {
	optObj, found := dict.Find("Opt")
	if !found {
		return nil, nil
	}
	opts, err := w.ctx.DereferenceArray(optObj)
	if err != nil {
		return nil, nil
	}

	var display, export []string
	add := func(d, e string) {
		d = strings.TrimSpace(d)
		if d == "" {
			return
		}
		display = append(display, d)
		export = append(export, strings.TrimSpace(e))
	}
	for _, opt := range opts {
		if s, err := w.ctx.DereferenceStringOrHexLiteral(opt, model.V10, nil); err == nil {
			add(s, s)
			continue
		}
		pair, err := w.ctx.DereferenceArray(opt)
		if err != nil || len(pair) == 0 {
			continue
		}
		e, err := w.ctx.DereferenceStringOrHexLiteral(pair[0], model.V10, nil)
		if err != nil {
			continue
		}
		d := e
		if len(pair) > 1 {
			if s, err := w.ctx.DereferenceStringOrHexLiteral(pair[1], model.V10, nil); err == nil {
				d = s
			}
		}
		add(d, e)
	}
	return display, export
}

// appearanceStates returns the on states of a button field and its widgets
func (w *fieldWalker) appearanceStates(dict types.Dict) []string {
	seen := make(map[string]bool)
	collect := func(d types.Dict) {
		apObj, found := d.Find("AP")
		if !found {
			return
		}
		ap, err := w.ctx.DereferenceDict(apObj)
		if err != nil || ap == nil {
			return
		}
		nObj, found := ap.Find("N")
		if !found {
			return
		}
		n, err := w.ctx.DereferenceDict(nObj)
		if err != nil || n == nil {
			return
		}
		for state := range n {
			if state != "Off" {
				seen[state] = true
			}
		}
	}

	collect(dict)
	if kidsObj, found := dict.Find("Kids"); found {
		if kids, err := w.ctx.DereferenceArray(kidsObj); err == nil {
			for _, kid := range kids {
				if kidDict, err := w.ctx.DereferenceDict(kid); err == nil && kidDict != nil {
					collect(kidDict)
				}
			}
		}
	}

	states := make([]string, 0, len(seen))
	for s := range seen {
		states = append(states, s)
	}
	sort.Strings(states)
	return states
}

// page resolves the page of a field from its own or its first widget's /P
func (w *fieldWalker) page(dict types.Dict) int {
	if p := w.pageOf(dict); p > 0 {
		return p
	}
	if kidsObj, found := dict.Find("Kids"); found {
		if kids, err := w.ctx.DereferenceArray(kidsObj); err == nil {
			for _, kid := range kids {
				if kidDict, err := w.ctx.DereferenceDict(kid); err == nil && kidDict != nil {
					if p := w.pageOf(kidDict); p > 0 {
						return p
					}
				}
			}
		}
	}
	return 0
}

func (w *fieldWalker) pageOf(dict types.Dict) int {
	pObj, found := dict.Find("P")
	if !found {
		return 0
	}
	ir, ok := pObj.(types.IndirectRef)
	if !ok {
		return 0
	}
	return w.pages[ir.ObjectNumber.Value()]
}

// pageNumbers maps page object numbers to 1-based page numbers
func pageNumbers(ctx *model.Context) map[int]int {
	pages := make(map[int]int, ctx.PageCount)
	for i := 1; i <= ctx.PageCount; i++ {
		_, ir, _, err := ctx.PageDict(i, false)
		if err != nil || ir == nil {
			continue
		}
		pages[ir.ObjectNumber.Value()] = i
	}
	return pages
}
