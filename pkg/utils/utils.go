package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/decred/dcrd/dcrutil/v4"
	"github.com/vctt94/pokertablesync/pkg/poker"
)

// FormatCards is a helper function for displaying cards
func FormatCards(cards []poker.Card) string {
	if len(cards) == 0 {
		return "None"
	}

	parts := make([]string, len(cards))
	for i, card := range cards {
		parts[i] = card.String()
	}
	return strings.Join(parts, " ")
}

// FormatAmount renders a chip amount compactly: 950, 1k, 1.5k, 2M, 2.5M.
// One decimal is shown, rounded half up, unless the amount is exact.
func FormatAmount(amount int64) string {
	switch {
	case amount >= 1_000_000:
		return scaled(amount, 1_000_000) + "M"
	case amount >= 1_000:
		return scaled(amount, 1_000) + "k"
	}
	return strconv.FormatInt(amount, 10)
}

func scaled(amount, unit int64) string {
	if amount%unit == 0 {
		return strconv.FormatInt(amount/unit, 10)
	}
	tenths := (amount*10 + unit/2) / unit
	return fmt.Sprintf("%d.%d", tenths/10, tenths%10)
}

// AppDataDir returns the per user data directory of the named app.
func AppDataDir(appName string) string {
	return dcrutil.AppDataDir(appName, false)
}

// EnsureDataDirExists creates the datadir and necessary subdirectories if they don't exist
func EnsureDataDirExists(datadir string) error {
	if err := os.MkdirAll(datadir, 0700); err != nil {
		return fmt.Errorf("failed to create datadir %s: %v", datadir, err)
	}

	logsDir := filepath.Join(datadir, "logs")
	if err := os.MkdirAll(logsDir, 0700); err != nil {
		return fmt.Errorf("failed to create logs directory %s: %v", logsDir, err)
	}

	return nil
}
