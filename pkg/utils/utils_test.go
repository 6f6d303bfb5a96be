package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vctt94/pokertablesync/pkg/poker"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "0"},
		{500, "500"},
		{999, "999"},
		{1000, "1k"},
		{1500, "1.5k"},
		{1250, "1.3k"},
		{1999, "2.0k"},
		{25000, "25k"},
		{1_000_000, "1M"},
		{2_500_000, "2.5M"},
		{-50, "-50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(tt.amount), "amount %d", tt.amount)
	}
}

func TestFormatCards(t *testing.T) {
	assert.Equal(t, "None", FormatCards(nil))
	cards := poker.MustParseCards("AS 10H")
	cards = append(cards, poker.Card{Secret: true})
	assert.Equal(t, "As 10h ??", FormatCards(cards))
}

func TestEnsureDataDirExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	require.NoError(t, EnsureDataDirExists(dir))

	fi, err := os.Stat(filepath.Join(dir, "logs"))
	require.NoError(t, err)
	assert.True(t, fi.IsDir())

	// Idempotent.
	require.NoError(t, EnsureDataDirExists(dir))
}

func TestAppDataDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("layout checked on linux only")
	}
	assert.Equal(t, ".pokerclient", filepath.Base(AppDataDir("pokerclient")))
}
