package utils

import (
	"fmt"
	"os"
	"strings"
)

func GetEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// FormatClock renders whole seconds as MM:SS. Minutes are not wrapped at 60.
func FormatClock(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	return fmt.Sprintf("%02d:%02d", totalSeconds/60, totalSeconds%60)
}

// FormatHuman renders whole seconds as e.g. "1 minute and 5 seconds".
func FormatHuman(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	minutes := totalSeconds / 60
	seconds := totalSeconds % 60

	if minutes == 0 {
		return plural(seconds, "second")
	}
	if seconds == 0 {
		return plural(minutes, "minute")
	}
	return plural(minutes, "minute") + " and " + plural(seconds, "second")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
