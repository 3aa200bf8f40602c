package shared

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// PromptConfirm writes message followed by " [y/N]: " to w and reads a single answer line from r.
//
// Only "y" and "yes" (case-insensitive) count as confirmation; EOF or read failures decline.
func PromptConfirm(r io.Reader, w io.Writer, message string) bool {
	if _, err := fmt.Fprintf(w, "%s [y/N]: ", message); err != nil {
		return false
	}

	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
