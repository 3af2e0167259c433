// Package languages holds the table of languages a group can subscribe to.
package languages

import (
	"fmt"
	"strings"
)

// Cancel is the pseudo language code that clears a group's whole selection.
const Cancel = "cancel"

// Language is a supported target language.
type Language struct {
	Code        string // e.g. "en"
	DisplayName string // e.g. "英文"; also used to match announcement labels
}

// Table is an ordered, immutable set of supported languages.
type Table struct {
	langs  []Language
	byCode map[string]Language
}

// NewTable builds a table, rejecting empty or duplicate codes.
func NewTable(langs ...Language) (*Table, error) {
	t := &Table{
		langs:  make([]Language, 0, len(langs)),
		byCode: make(map[string]Language, len(langs)),
	}
	for _, l := range langs {
		l.Code = strings.TrimSpace(l.Code)
		l.DisplayName = strings.TrimSpace(l.DisplayName)
		if l.Code == "" || l.DisplayName == "" {
			return nil, fmt.Errorf("language %q has an empty code or display name", l.Code+":"+l.DisplayName)
		}
		if l.Code == Cancel {
			return nil, fmt.Errorf("language code %q is reserved", Cancel)
		}
		if _, dup := t.byCode[l.Code]; dup {
			return nil, fmt.Errorf("duplicate language code %q", l.Code)
		}
		t.byCode[l.Code] = l
		t.langs = append(t.langs, l)
	}
	return t, nil
}

// ParseTable parses a comma separated "code:DisplayName" list, e.g. "en:英文,vi:越南文".
func ParseTable(spec string) (*Table, error) {
	var langs []Language
	for _, item := range strings.Split(spec, ",") {
		if strings.TrimSpace(item) == "" {
			continue
		}
		l, err := ParseLanguage(item)
		if err != nil {
			return nil, err
		}
		langs = append(langs, l)
	}
	if len(langs) == 0 {
		return nil, fmt.Errorf("language list %q is empty", spec)
	}
	return NewTable(langs...)
}

// ParseLanguage parses a single "code:DisplayName" pair.
func ParseLanguage(s string) (Language, error) {
	code, name, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || strings.TrimSpace(code) == "" || strings.TrimSpace(name) == "" {
		return Language{}, fmt.Errorf("invalid language %q, want code:DisplayName", s)
	}
	return Language{Code: strings.TrimSpace(code), DisplayName: strings.TrimSpace(name)}, nil
}

// All returns the languages in configured order.
func (t *Table) All() []Language {
	out := make([]Language, len(t.langs))
	copy(out, t.langs)
	return out
}

// Lookup returns the language registered under code.
func (t *Table) Lookup(code string) (Language, bool) {
	l, ok := t.byCode[code]
	return l, ok
}

// Supports reports whether code is a selectable language.
func (t *Table) Supports(code string) bool {
	_, ok := t.byCode[code]
	return ok
}

// DisplayName returns the display name for code, or the code itself when unknown.
func (t *Table) DisplayName(code string) string {
	if l, ok := t.byCode[code]; ok {
		return l.DisplayName
	}
	return code
}
