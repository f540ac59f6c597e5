// Package display renders terminal output: ANSI styling and aligned tables.
//
// Styling honours NO_COLOR (https://no-color.org/) and FORCE_COLOR, and is
// otherwise on only when stdout is a terminal.
package display

import (
	"os"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-isatty"
)

// SGR parameters.
const (
	sgrBold   = "1"
	sgrDim    = "2"
	sgrRed    = "31"
	sgrGreen  = "32"
	sgrYellow = "33"
	sgrCyan   = "36"
	sgrGray   = "90" // bright black
)

const (
	csi   = "\033["
	reset = csi + "0m"
)

// enabled reports whether color output is active.
// It is set once at init time.
var enabled bool

func init() {
	enabled = shouldEnable(os.LookupEnv, IsTerminal(os.Stdout))
}

// shouldEnable decides the initial colour state. NO_COLOR beats FORCE_COLOR,
// which beats terminal detection.
func shouldEnable(lookup func(string) (string, bool), tty bool) bool {
	if _, ok := lookup("NO_COLOR"); ok {
		return false
	}
	if _, ok := lookup("FORCE_COLOR"); ok {
		return true
	}
	return tty
}

// IsTerminal reports whether f is connected to a terminal, including Cygwin
// and MSYS pseudo-terminals.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SetEnabled overrides the auto-detected color state.
// Useful for testing or when --json forces plain output.
func SetEnabled(b bool) {
	enabled = b
}

// Enabled reports whether color output is currently active.
func Enabled() bool {
	return enabled
}

// paint wraps text in one SGR sequence, only when colors are enabled.
func paint(text string, params ...string) string {
	if !enabled || text == "" {
		return text
	}
	return csi + strings.Join(params, ";") + "m" + text + reset
}

// Bold returns text rendered in bold.
func Bold(text string) string { return paint(text, sgrBold) }

// Dim returns text rendered faint. Used for prayers already passed.
func Dim(text string) string { return paint(text, sgrDim) }

// Green marks observances and exact agreement.
func Green(text string) string { return paint(text, sgrGreen) }

// Yellow marks approximate times and small differences.
func Yellow(text string) string { return paint(text, sgrYellow) }

// Red marks large differences.
func Red(text string) string { return paint(text, sgrRed) }

// Gray returns text rendered in gray (bright black).
func Gray(text string) string { return paint(text, sgrGray) }

// Accent is bold cyan, used for the next prayer and today's row.
func Accent(text string) string { return paint(text, sgrBold, sgrCyan) }

// Strip removes ANSI CSI sequences from s.
func Strip(s string) string {
	if !strings.Contains(s, csi) {
		return s
	}
	var sb strings.Builder
	for {
		i := strings.Index(s, csi)
		if i < 0 {
			sb.WriteString(s)
			return sb.String()
		}
		sb.WriteString(s[:i])
		s = s[i+len(csi):]
		// A sequence ends at its first byte in 0x40..0x7E.
		j := strings.IndexFunc(s, func(r rune) bool { return r >= 0x40 && r <= 0x7e })
		if j < 0 {
			return sb.String()
		}
		s = s[j+1:]
	}
}

// Width returns the number of runes s occupies on screen, ignoring styling.
func Width(s string) int {
	return utf8.RuneCountInString(Strip(s))
}
