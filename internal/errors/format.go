package errors

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const wrapWidth = 70

var (
	styleError = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	styleCode  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	styleHint  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// colorEnabled controls whether Format styles its output.
var colorEnabled = true

// DisableColors makes Format emit plain text.
func DisableColors() { colorEnabled = false }

// EnableColors restores styled output.
func EnableColors() { colorEnabled = true }

func paint(s lipgloss.Style, text string) string {
	if !colorEnabled {
		return text
	}
	return s.Render(text)
}

// Format renders the error for a terminal: a headline, the wrapped detail,
// the wrapped cause and a hint.
func (e *HydraError) Format() string {
	var b strings.Builder

	headline := "ERROR: "
	if e.Code != "" {
		headline = "ERROR " + e.Code + ": "
	}
	fmt.Fprintf(&b, "\n%s%s\n\n", paint(styleError, headline), paint(styleCode, e.Message))

	indent := func(text string) {
		for _, line := range wrapText(text, wrapWidth) {
			fmt.Fprintf(&b, "  %s\n", line)
		}
		b.WriteString("\n")
	}
	if e.Detail != "" {
		indent(e.Detail)
	}
	if e.Wrapped != nil {
		indent(e.Wrapped.Error())
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "  %s%s\n\n", paint(styleHint, "Hint: "), e.Suggestion)
	}
	return b.String()
}

// FormatCompact renders "CODE: message (detail)" on one line.
func (e *HydraError) FormatCompact() string {
	s := e.Message
	if e.Code != "" {
		s = e.Code + ": " + s
	}
	if e.Detail != "" {
		s += " (" + e.Detail + ")"
	}
	return s
}

// FormatJSON renders the error as a JSON object for machine consumers.
func (e *HydraError) FormatJSON() string {
	out, err := json.Marshal(struct {
		Code       string   `json:"code,omitempty"`
		Category   Category `json:"category"`
		Message    string   `json:"message"`
		Detail     string   `json:"detail,omitempty"`
		Suggestion string   `json:"suggestion,omitempty"`
	}{e.Code, e.Category, e.Message, e.Detail, e.Suggestion})
	if err != nil {
		return fmt.Sprintf(`{"message":%q}`, e.Message)
	}
	return string(out)
}

// wrapText breaks text into lines of at most width bytes at word
// boundaries. A single word longer than width gets its own line.
func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	lines := []string{words[0]}
	for _, w := range words[1:] {
		last := &lines[len(lines)-1]
		if len(*last)+1+len(w) > width {
			lines = append(lines, w)
			continue
		}
		*last += " " + w
	}
	return lines
}

// PrintError writes err to stderr, formatted when it is a HydraError.
func PrintError(err error) { fprintError(os.Stderr, err) }

func fprintError(w io.Writer, err error) {
	if he, ok := err.(*HydraError); ok {
		fmt.Fprint(w, he.Format())
		return
	}
	fmt.Fprintf(w, "\n%s %s\n\n", paint(styleError, "ERROR:"), err.Error())
}
