// Package pdftest builds small PDF documents for tests.
package pdftest

import (
	"fmt"
	"strings"
)

// Build assembles a PDF from numbered object bodies (object i+1 is
// objects[i]) and writes a matching cross-reference table.
func Build(objects []string) []byte {
	var sb strings.Builder
	sb.WriteString("%PDF-1.7\n")

	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = sb.Len()
		fmt.Fprintf(&sb, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xrefStart := sb.Len()
	fmt.Fprintf(&sb, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&sb, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&sb, "trailer\n<<\n/Size %d\n/Root 1 0 R\n>>\nstartxref\n%d\n%%%%EOF", len(objects)+1, xrefStart)
	return []byte(sb.String())
}

func Stream(dict, content string) string {
	return fmt.Sprintf("<<\n%s\n/Length %d\n>>\nstream\n%s\nendstream", dict, len(content), content)
}

// PageContent draws one line of text
const PageContent = "BT\n/F1 12 Tf\n72 720 Td\n(Application Form) Tj\nET"

// FormPDF has a text field, a checkbox, an untyped parent with two text
// fields below it, a push button and a combo box on a single page. The combo
// box has one plain option and one export/display pair.
func FormPDF() []byte {
	return Build([]string{
		// 1 catalog
		"<<\n/Type /Catalog\n/Pages 2 0 R\n/AcroForm 9 0 R\n>>",
		// 2 pages
		"<<\n/Type /Pages\n/Kids [3 0 R]\n/Count 1\n>>",
		// 3 page
		"<<\n/Type /Page\n/Parent 2 0 R\n/MediaBox [0 0 612 792]\n/Contents 4 0 R\n" +
			"/Resources << /Font << /F1 8 0 R >> >>\n/Annots [5 0 R 6 0 R 10 0 R 11 0 R 14 0 R 15 0 R]\n>>",
		// 4 content
		Stream("", PageContent),
		// 5 text field
		"<<\n/Type /Annot\n/Subtype /Widget\n/FT /Tx\n/T (full_name)\n/V (Ada Lovelace)\n" +
			"/Rect [72 650 300 670]\n/P 3 0 R\n/F 4\n/DA (/Helv 0 Tf 0 g)\n>>",
		// 6 checkbox
		"<<\n/Type /Annot\n/Subtype /Widget\n/FT /Btn\n/T (agree)\n/V /Off\n/AS /Off\n" +
			"/Rect [72 600 86 614]\n/P 3 0 R\n/F 4\n/AP << /N << /Yes 12 0 R /Off 13 0 R >> >>\n>>",
		// 7 parent of two text fields
		"<<\n/T (address)\n/Ff 2\n/Kids [10 0 R 11 0 R]\n>>",
		// 8 font
		"<<\n/Type /Font\n/Subtype /Type1\n/BaseFont /Helvetica\n>>",
		// 9 AcroForm
		"<<\n/Fields [5 0 R 6 0 R 7 0 R 14 0 R 15 0 R]\n/DA (/Helv 0 Tf 0 g)\n" +
			"/DR << /Font << /Helv 8 0 R >> >>\n>>",
		// 10 kid text field
		"<<\n/Type /Annot\n/Subtype /Widget\n/Parent 7 0 R\n/FT /Tx\n/T (city)\n" +
			"/Rect [72 550 300 570]\n/P 3 0 R\n/F 4\n/DA (/Helv 0 Tf 0 g)\n>>",
		// 11 kid text field
		"<<\n/Type /Annot\n/Subtype /Widget\n/Parent 7 0 R\n/FT /Tx\n/T (zip)\n/Ff 1\n" +
			"/Rect [72 500 300 520]\n/P 3 0 R\n/F 4\n/DA (/Helv 0 Tf 0 g)\n>>",
		// 12 checkbox on appearance
		Stream("/Type /XObject\n/Subtype /Form\n/BBox [0 0 14 14]", "0 g\n2 2 10 10 re\nf"),
		// 13 checkbox off appearance
		Stream("/Type /XObject\n/Subtype /Form\n/BBox [0 0 14 14]", ""),
		// 14 push button
		"<<\n/Type /Annot\n/Subtype /Widget\n/FT /Btn\n/Ff 65536\n/T (submit)\n" +
			"/Rect [72 400 150 420]\n/P 3 0 R\n/F 4\n>>",
		// 15 combo box
		"<<\n/Type /Annot\n/Subtype /Widget\n/FT /Ch\n/Ff 131072\n/T (country)\n" +
			"/Opt [(US) [(CA) (Canada)]]\n/V (US)\n/Rect [72 450 300 470]\n/P 3 0 R\n/F 4\n/DA (/Helv 0 Tf 0 g)\n>>",
	})
}

// PlainPDF is a one page document without a form
func PlainPDF() []byte {
	return Build([]string{
		"<<\n/Type /Catalog\n/Pages 2 0 R\n>>",
		"<<\n/Type /Pages\n/Kids [3 0 R]\n/Count 1\n>>",
		"<<\n/Type /Page\n/Parent 2 0 R\n/MediaBox [0 0 612 792]\n/Contents 4 0 R\n" +
			"/Resources << /Font << /F1 5 0 R >> >>\n>>",
		Stream("", PageContent),
		"<<\n/Type /Font\n/Subtype /Type1\n/BaseFont /Helvetica\n>>",
	})
}
