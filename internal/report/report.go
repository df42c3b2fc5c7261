// Package report encodes the outcome of a solved puzzle for output.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/CaptShanks/cratestack/internal/crane"
)

// Format selects how a Summary is written
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists every supported output format
var Formats = []Format{FormatText, FormatJSON, FormatYAML}

// ParseFormat validates a user-supplied format name
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatText, nil
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (expected %s)", s, FormatNames())
}

// FormatNames lists Formats comma-separated, for help and error text
func FormatNames() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// StackSummary is one stack of the final arrangement
type StackSummary struct {
	Label  int    `json:"label" yaml:"label"`
	Crates string `json:"crates" yaml:"crates"`
}

// Summary describes a solved puzzle
type Summary struct {
	Tops   string         `json:"tops" yaml:"tops"`
	Moves  int            `json:"moves" yaml:"moves"`
	Crates int            `json:"crates" yaml:"crates"`
	Stacks []StackSummary `json:"stacks" yaml:"stacks"`
}

// New summarizes the final stacks after moves were applied
func New(final crane.Stacks, moves int, tops string) Summary {
	s := Summary{
		Tops:   tops,
		Moves:  moves,
		Crates: final.Total(),
		Stacks: make([]StackSummary, len(final)),
	}
	for i, st := range final {
		s.Stacks[i] = StackSummary{Label: i + 1, Crates: st.String()}
	}
	return s
}

// Write encodes s to w. The text format is the bare tops string on one line.
func Write(w io.Writer, format Format, s Summary) error {
	switch format {
	case FormatText, "":
		_, err := fmt.Fprintln(w, s.Tops)
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown output format %q", format)
}
