package errors

import (
	"strings"
	"unicode"
)

// ValidateGraphName validates the base name used for output files.
// The name becomes part of file paths and of the DOT document header,
// so anything that could escape the output directory is rejected.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateGraphName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "graph name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidName, "graph name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "graph name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidName, "graph name cannot contain path separators")
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidName, "graph name cannot contain path traversal sequences (..)")
	}

	return nil
}

// ValidateExtension validates a file-extension filter entry. Extensions are
// compared against scanned files after normalization, so a bare word ("c")
// and a dotted form (".c") are both acceptable; separators are not.
func ValidateExtension(ext string) error {
	if ext == "" {
		return New(ErrCodeInvalidInput, "extension cannot be empty")
	}

	if strings.ContainsAny(ext, "/\\") {
		return New(ErrCodeInvalidInput, "extension cannot contain path separators: %q", ext)
	}

	for _, r := range ext {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "extension contains invalid characters: %q", ext)
		}
	}

	return nil
}
