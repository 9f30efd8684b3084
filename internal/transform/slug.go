package transform

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var slugReplacer = strings.NewReplacer(
	"(", "in_",
	")", "",
	" ", "_",
	"/", "_",
	"-", "_",
	".", "",
)

var cleanReplacer = strings.NewReplacer(",", "", "%", "")

// Slugify converts a statistic display name to its column name.
func Slugify(name string) string {
	// cases.Caser is stateful, one per call.
	return cases.Lower(language.Und).String(slugReplacer.Replace(name))
}

// CleanValue strips thousands separators and percent signs.
func CleanValue(v string) string {
	return cleanReplacer.Replace(v)
}
