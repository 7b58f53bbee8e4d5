package api

import "github.com/a3tai/mcp-form-filler/internal/pdf/pdftest"

// twoFieldPDF is a one page document with the text fields name and email
func twoFieldPDF() []byte {
	return pdftest.Build([]string{
		"<<\n/Type /Catalog\n/Pages 2 0 R\n/AcroForm 7 0 R\n>>",
		"<<\n/Type /Pages\n/Kids [3 0 R]\n/Count 1\n>>",
		"<<\n/Type /Page\n/Parent 2 0 R\n/MediaBox [0 0 612 792]\n/Contents 4 0 R\n" +
			"/Resources << /Font << /F1 8 0 R >> >>\n/Annots [5 0 R 6 0 R]\n>>",
		pdftest.Stream("", pdftest.PageContent),
		"<<\n/Type /Annot\n/Subtype /Widget\n/FT /Tx\n/T (name)\n/Rect [72 650 300 670]\n/P 3 0 R\n/F 4\n>>",
		"<<\n/Type /Annot\n/Subtype /Widget\n/FT /Tx\n/T (email)\n/Rect [72 600 300 620]\n/P 3 0 R\n/F 4\n>>",
		"<<\n/Fields [5 0 R 6 0 R]\n/DA (/Helv 0 Tf 0 g)\n/DR << /Font << /Helv 8 0 R >> >>\n>>",
		"<<\n/Type /Font\n/Subtype /Type1\n/BaseFont /Helvetica\n>>",
	})
}
