package utils

import (
	"path/filepath"
	"strings"
)

const DefaultOutputSuffix = "_split"

// SplitOutputPath derives the output path for inputPath: same directory, extension
// replaced by suffix + ".pdf".
func SplitOutputPath(inputPath, suffix string) string {
	return strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + suffix + ".pdf"
}

// IsSplitOutput reports whether path looks like a file produced by SplitOutputPath.
func IsSplitOutput(path, suffix string) bool {
	name := strings.ToLower(filepath.Base(path))
	return suffix != "" && strings.HasSuffix(name, strings.ToLower(suffix)+".pdf")
}
