package textutil

import "strings"

// unsafeReplacer maps characters that cannot appear in portable file names.
// Path separators and colons become dashes so the name stays readable; the
// remaining reserved characters are dropped outright.
var unsafeReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName makes a speaker-derived name safe to use as a file name.
// Speaker keys are already underscore-joined, so this only has to guard
// against stray punctuation surviving from unusual steno labels.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(unsafeReplacer.Replace(name))
}
