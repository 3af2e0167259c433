package announcements

import (
	"regexp"
	"strings"

	"langcast-bot/internal/languages"
)

// VersionSuffix is appended to display names on labels, e.g. "英文" → "英文版".
const VersionSuffix = "版"

// trailingOrdinal matches numbering at the end of a label: "2", "(2)", "（２）", "-3", "第3張".
var trailingOrdinal = regexp.MustCompile(`[\s\-_#]*[(（\[]?\s*(?:第\s*)?[0-9０-９]+\s*(?:張|张|頁|页|號|号)?\s*[)）\]]?$`)

// LabelIndex resolves scraped labels to language codes.
type LabelIndex struct {
	byLabel map[string]string
}

// NewLabelIndex indexes every language under its display name and its "-version" form.
func NewLabelIndex(table *languages.Table) *LabelIndex {
	idx := &LabelIndex{byLabel: make(map[string]string)}
	for _, l := range table.All() {
		idx.byLabel[l.DisplayName] = l.Code
		idx.byLabel[l.DisplayName+VersionSuffix] = l.Code
	}
	return idx
}

// Resolve returns the language code for label after stripping trailing numbering.
func (idx *LabelIndex) Resolve(label string) (string, bool) {
	normalized := StripOrdinal(label)
	if normalized == "" {
		return "", false
	}
	code, ok := idx.byLabel[normalized]
	return code, ok
}

// StripOrdinal trims whitespace and a trailing numeric or ordinal suffix.
func StripOrdinal(label string) string {
	label = strings.TrimSpace(label)
	return strings.TrimSpace(trailingOrdinal.ReplaceAllString(label, ""))
}
