// Package naming converts raw test identifiers into human-readable
// display names.
package naming

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	m "describely.dev/pkg/describely/internal/model"
)

var describePrefixes = []string{"describe_", "Describe_"}

// FormatDescribe converts a describe block identifier to a
// human-readable display name.
//
//   - "describe_my_feature" -> "my feature"
//   - "describe_MyClass"    -> "MyClass" (CamelCase preserved)
//
// Unrecognized input is passed through unchanged; the function never
// fails.
func FormatDescribe(name string) string {
	stripped := name

	for _, prefix := range describePrefixes {
		if strings.HasPrefix(stripped, prefix) {
			stripped = stripped[len(prefix):]
			break
		}
	}

	if stripped == "" {
		return name
	}

	// A remainder that starts uppercase and has no underscores is a
	// class name; keep it verbatim.
	first := []rune(stripped)[0]
	if unicode.IsUpper(first) && !strings.Contains(stripped, "_") {
		return stripped
	}

	return strings.ReplaceAll(stripped, "_", " ")
}

// FormatTest converts a test identifier to a display name. The leading
// "it"/"they" stays as the first word, so the result reads as a
// sentence: "it_does_something" -> "it does something".
func FormatTest(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}

// FormatDuration renders a duration for display: milliseconds under one
// second, two-decimal seconds under a minute, minutes beyond.
func FormatDuration(d time.Duration) string {
	seconds := d.Seconds()

	if seconds < 1.0 {
		return fmt.Sprintf("%.0fms", seconds*1000)
	}

	if seconds < 60.0 {
		return fmt.Sprintf("%.2fs", seconds)
	}

	minutes := int(seconds / 60)
	remaining := seconds - float64(minutes)*60

	return fmt.Sprintf("%dm %.1fs", minutes, remaining)
}

// DisplayName formats an identifier according to the node's
// classification: file names stay as-is, describe and test names are
// humanized.
func DisplayName(name string, kind m.NodeKind) string {
	switch kind {
	case m.KindTest:
		return FormatTest(name)
	case m.KindDescribe:
		return FormatDescribe(name)
	default:
		return name
	}
}
