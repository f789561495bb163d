package constants

import "strings"

// Formats holds the document format names used in logs and listings.
var Formats = []string{"PDF", "DOCX", "TXT"}

// AllowedExtensions holds the upload extensions the document loader understands.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"docx": {},
	"txt":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// AllowedExt checks if a file extension is in the allowed set (pdf/docx/txt).
func AllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}
