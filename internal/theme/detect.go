package theme

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"
)

// DetectBackground probes the terminal for its background color and
// returns the matching default theme name (dark or light). It first
// consults the COLORFGBG environment variable, then issues an OSC 11
// query and waits up to timeout for the reply. An error is returned
// when stdout is not a terminal or the terminal never answers.
func DetectBackground(timeout time.Duration) (string, error) {
	if name, ok := themeFromColorFgBg(os.Getenv("COLORFGBG")); ok {
		return name, nil
	}

	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("stdout is not a terminal")
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return "", fmt.Errorf("cannot enter raw mode: %w", err)
	}
	defer func() { _ = term.Restore(fd, oldState) }()

	// OSC 11: request the default background color.
	if _, err := os.Stdout.WriteString("\x1b]11;?\x07"); err != nil {
		return "", err
	}

	replies := make(chan string, 1)
	go func() {
		buf := make([]byte, 64)
		n, err := os.Stdin.Read(buf)
		if err != nil {
			return
		}
		replies <- string(buf[:n])
	}()

	select {
	case reply := <-replies:
		if light, ok := parseOSCBackground(reply); ok {
			if light {
				return DefaultLight(), nil
			}
			return DefaultDark(), nil
		}
		return "", fmt.Errorf("unrecognised terminal reply %q", reply)
	case <-time.After(timeout):
		return "", fmt.Errorf("no background reply within %s", timeout)
	}
}

// themeFromColorFgBg interprets the "fg;bg" convention used by rxvt
// and a few other terminals. Background codes 0-6 and 8 mean dark.
func themeFromColorFgBg(value string) (string, bool) {
	parts := strings.Split(value, ";")
	if len(parts) < 2 {
		return "", false
	}
	bg, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return "", false
	}
	if bg == 7 || bg > 8 {
		return DefaultLight(), true
	}
	return DefaultDark(), true
}

// parseOSCBackground extracts the rgb:RRRR/GGGG/BBBB payload from an
// OSC 11 reply and reports whether the color is light.
func parseOSCBackground(reply string) (light, ok bool) {
	idx := strings.Index(reply, "rgb:")
	if idx < 0 {
		return false, false
	}
	spec := reply[idx+len("rgb:"):]
	if end := strings.IndexAny(spec, "\x07\x1b"); end >= 0 {
		spec = spec[:end]
	}
	parts := strings.Split(spec, "/")
	if len(parts) != 3 {
		return false, false
	}

	var sum int64
	for _, part := range parts {
		if len(part) > 2 {
			part = part[:2] // High byte carries enough precision
		}
		v, err := strconv.ParseInt(part, 16, 32)
		if err != nil {
			return false, false
		}
		sum += v
	}
	// Average channel above mid-range reads as a light background.
	return sum/3 > 0x80, true
}
