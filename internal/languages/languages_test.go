package languages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTable(t *testing.T) {
	table, err := ParseTable("en:英文, vi:越南文 ,ja:日文")
	require.NoError(t, err)

	all := table.All()
	require.Len(t, all, 3)
	assert.Equal(t, Language{Code: "en", DisplayName: "英文"}, all[0])
	assert.Equal(t, "vi", all[1].Code)
	assert.Equal(t, "ja", all[2].Code)

	assert.True(t, table.Supports("vi"))
	assert.False(t, table.Supports("ko"))
	assert.Equal(t, "日文", table.DisplayName("ja"))
	assert.Equal(t, "ko", table.DisplayName("ko"))
}

func TestParseTableErrors(t *testing.T) {
	for _, spec := range []string{"", "en", "en:", ":英文", "en:英文,en:English", "cancel:取消"} {
		_, err := ParseTable(spec)
		assert.Error(t, err, "spec %q should be rejected", spec)
	}
}
