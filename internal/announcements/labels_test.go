package announcements

import (
	"testing"

	"langcast-bot/internal/languages"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable(t *testing.T) *languages.Table {
	t.Helper()
	table, err := languages.NewTable(
		languages.Language{Code: "en", DisplayName: "英文"},
		languages.Language{Code: "vi", DisplayName: "越南文"},
		languages.Language{Code: "ja", DisplayName: "日文"},
	)
	require.NoError(t, err)
	return table
}

func TestLabelIndexResolve(t *testing.T) {
	idx := NewLabelIndex(testTable(t))

	tests := []struct {
		label    string
		wantCode string
		wantOK   bool
	}{
		{"英文", "en", true},
		{"英文版", "en", true},
		{"英文版2", "en", true},
		{" 英文版 3 ", "en", true},
		{"越南文版（2）", "vi", true},
		{"越南文版(10)", "vi", true},
		{"日文版-1", "ja", true},
		{"日文版第2張", "ja", true},
		{"法文版", "", false},
		{"", "", false},
		{"2", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			code, ok := idx.Resolve(tt.label)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestStripOrdinal(t *testing.T) {
	assert.Equal(t, "英文版", StripOrdinal("英文版2"))
	assert.Equal(t, "越南文版", StripOrdinal("越南文版（２）"))
	assert.Equal(t, "英文版", StripOrdinal("英文版"))
}
