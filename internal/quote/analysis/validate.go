package analysis

import "strings"

// MaxFileSize is the largest drawing we accept, in bytes.
const MaxFileSize = 10 * 1024 * 1024

// ValidateFile checks the drawing before it is submitted for analysis.
// It reports every problem found, not just the first one.
func ValidateFile(file DrawingFile) (bool, []string) {
	var errs []string

	if !strings.HasSuffix(strings.ToLower(file.Name), ".dxf") {
		errs = append(errs, "el archivo debe tener extensión .dxf")
	}
	if file.Size > MaxFileSize {
		errs = append(errs, "el archivo no puede superar los 10MB")
	}
	if file.Size == 0 {
		errs = append(errs, "el archivo está vacío")
	}

	return len(errs) == 0, errs
}
