package document

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	docx "github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"

	"legalens/constants"
	"legalens/internal/common"
)

// Load extracts plain text from a document payload. The format is chosen by
// extension (pdf, docx, txt); anything else is rejected before any model call
// can happen. Extraction failures come back as descriptive errors, never as
// panics.
func Load(data []byte, ext string) (string, error) {
	switch constants.NormalizeExt(ext) {
	case "pdf":
		return readPDF(data)
	case "docx":
		return readDOCX(data)
	case "txt":
		return readTXT(data)
	default:
		return "", common.NewAppError("UNSUPPORTED_FORMAT",
			fmt.Sprintf("unsupported file format %q, use PDF, DOCX, or TXT", ext),
			common.ErrUnsupportedFormat)
	}
}

// readPDF concatenates the extracted text of every page in order. A page that
// yields no extractable text contributes an empty string.
func readPDF(data []byte) (text string, err error) {
	// the pdf package panics on some malformed xref tables
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = common.NewAppError("DOCUMENT_ERROR", fmt.Sprintf("error reading PDF: %v", r), nil)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", common.NewAppError("DOCUMENT_ERROR", "error reading PDF: "+err.Error(), err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, perr := page.GetPlainText(nil)
		if perr != nil {
			continue
		}
		b.WriteString(pageText)
	}
	return b.String(), nil
}

// readDOCX concatenates paragraph texts, one per line, in document order.
func readDOCX(data []byte) (string, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", common.NewAppError("DOCUMENT_ERROR", "error reading DOCX: "+err.Error(), err)
	}

	var lines []string
	for _, item := range doc.Document.Body.Items {
		if p, ok := item.(*docx.Paragraph); ok {
			lines = append(lines, p.String())
		}
	}
	return strings.Join(lines, "\n"), nil
}

// readTXT decodes the payload as UTF-8 text verbatim.
func readTXT(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", common.NewAppError("DOCUMENT_ERROR", "error reading TXT: not valid UTF-8 text", nil)
	}
	return string(data), nil
}
