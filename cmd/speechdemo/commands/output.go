package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-yaml"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff9f"))
	labelStyle   = lipgloss.NewStyle().Bold(true)
	partialStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681")).Italic(true)
	promptStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00afff"))
)

// listing is printed for the version and model discovery calls.
type listing struct {
	Version map[string]string `json:"version" yaml:"version"`
	Models  []model           `json:"models,omitempty" yaml:"models,omitempty"`
}

type model struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Language   string `json:"language,omitempty" yaml:"language,omitempty"`
	SampleRate uint32 `json:"sampleRate,omitempty" yaml:"sampleRate,omitempty"`
}

// printListing writes l as JSON with --json, otherwise as YAML under a
// styled title.
func printListing(w io.Writer, title string, l listing) error {
	if flags.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(l)
	}

	data, err := yaml.Marshal(l)
	if err != nil {
		return fmt.Errorf("format %s: %w", title, err)
	}
	fmt.Fprintln(w, titleStyle.Render(title))
	_, err = w.Write(data)
	fmt.Fprintln(w)
	return err
}

func printLabel(w io.Writer, label string, v any) {
	fmt.Fprintln(w, labelStyle.Render(label+":"), v)
}

// printPartial overwrites the current terminal line.
func printPartial(w io.Writer, text string) {
	fmt.Fprintf(w, "\r\033[K%s", partialStyle.Render(text))
}

func printFinal(w io.Writer, text string) {
	fmt.Fprintf(w, "\r\033[K%s\n", text)
}
