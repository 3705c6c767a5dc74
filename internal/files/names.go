package files

import (
	"regexp"
	"strings"
)

var unsafeNameChars = regexp.MustCompile(`[^\w\-.]`)

// ProcessName turns a product group or any label into a safe file or folder
// name: spaces become underscores and every character outside [A-Za-z0-9_.-]
// is replaced by an underscore.
func ProcessName(name string) string {
	name = strings.ReplaceAll(name, " ", "_")
	return unsafeNameChars.ReplaceAllString(name, "_")
}
