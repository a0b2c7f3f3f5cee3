package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/reqpipe/reqpipe/pipeline"
)

// colorScheme holds the colors used for response output.
type colorScheme struct {
	statusOK    *color.Color
	statusWarn  *color.Color
	statusError *color.Color
	headerKey   *color.Color
	headerValue *color.Color
	errorText   *color.Color
	successText *color.Color
}

func newColorScheme(noColor bool) *colorScheme {
	s := &colorScheme{
		statusOK:    color.New(color.FgGreen, color.Bold),
		statusWarn:  color.New(color.FgYellow, color.Bold),
		statusError: color.New(color.FgRed, color.Bold),
		headerKey:   color.New(color.FgYellow),
		headerValue: color.New(color.FgWhite),
		errorText:   color.New(color.FgRed),
		successText: color.New(color.FgGreen),
	}

	if noColor || !isatty.IsTerminal(os.Stdout.Fd()) {
		for _, c := range []*color.Color{
			s.statusOK, s.statusWarn, s.statusError,
			s.headerKey, s.headerValue, s.errorText, s.successText,
		} {
			c.DisableColor()
		}
	}

	return s
}

// formatter renders responses and results for the terminal.
type formatter struct {
	scheme  *colorScheme
	verbose bool
}

func newFormatter(verbose, noColor bool) *formatter {
	return &formatter{
		scheme:  newColorScheme(noColor),
		verbose: verbose,
	}
}

func (f *formatter) statusColor(code int) *color.Color {
	switch {
	case code >= 200 && code < 300:
		return f.scheme.statusOK
	case code >= 300 && code < 400:
		return f.scheme.statusWarn
	default:
		return f.scheme.statusError
	}
}

// FormatResponse renders status, optionally headers, and the body.
// JSON bodies are pretty-printed.
func (f *formatter) FormatResponse(resp *pipeline.Response, elapsed time.Duration) string {
	var sb strings.Builder

	sb.WriteString(f.statusColor(resp.StatusCode).Sprintf("HTTP %d", resp.StatusCode))
	sb.WriteString(fmt.Sprintf("  (%s)\n", elapsed.Round(time.Millisecond)))

	if f.verbose {
		for _, field := range resp.Header.Fields() {
			sb.WriteString(f.scheme.headerKey.Sprint(field.Name))
			sb.WriteString(": ")
			sb.WriteString(f.scheme.headerValue.Sprint(field.Value))
			sb.WriteByte('\n')
		}
	}

	if len(resp.Body) > 0 {
		sb.WriteByte('\n')
		sb.WriteString(f.formatBody(resp))
		sb.WriteByte('\n')
	}

	return sb.String()
}

func (f *formatter) formatBody(resp *pipeline.Response) string {
	if strings.Contains(strings.ToLower(resp.ContentType()), "json") {
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, resp.Body, "", "  "); err == nil {
			return pretty.String()
		}
	}

	return string(resp.Body)
}

// FormatError renders a task failure.
func (f *formatter) FormatError(err error) string {
	return f.scheme.errorText.Sprintf("FAILED: %v", err) + "\n"
}

// FormatPass renders a suite check outcome line.
func (f *formatter) FormatPass(name string, pass bool, detail string) string {
	if pass {
		return fmt.Sprintf("%s %s\n", f.scheme.successText.Sprint("PASS"), name)
	}
	if detail != "" {
		return fmt.Sprintf("%s %s: %s\n", f.scheme.errorText.Sprint("FAIL"), name, detail)
	}

	return fmt.Sprintf("%s %s\n", f.scheme.errorText.Sprint("FAIL"), name)
}
