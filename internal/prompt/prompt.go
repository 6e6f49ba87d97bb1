// Package prompt provides interactive prompts for the damngood CLI.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/5LV10/damngood/internal/importer"
	"github.com/5LV10/damngood/internal/output"
)

// Prompter handles interactive prompts.
type Prompter struct {
	out    *output.Writer
	reader *bufio.Reader
}

// New creates a Prompter reading from stdin.
func New(out *output.Writer) *Prompter {
	return NewReader(out, os.Stdin)
}

// NewReader creates a Prompter reading from r (for tests).
func NewReader(out *output.Writer, r io.Reader) *Prompter {
	return &Prompter{
		out:    out,
		reader: bufio.NewReader(r),
	}
}

// CanPrompt returns true if interactive prompts are available.
func (p *Prompter) CanPrompt() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) && !p.out.NoInput
}

// Confirm prompts for a yes/no confirmation.
func (p *Prompter) Confirm(message string, defaultValue bool) (bool, error) {
	defaultStr := "y/N"
	if defaultValue {
		defaultStr = "Y/n"
	}

	p.out.Print("%s [%s]: ", message, defaultStr)

	input, err := p.reader.ReadString('\n')
	if err != nil {
		return defaultValue, fmt.Errorf("failed to read input: %w", err)
	}

	input = strings.TrimSpace(strings.ToLower(input))
	if input == "" {
		return defaultValue, nil
	}

	return input == "y" || input == "yes", nil
}

// Decide implements importer.Decider: it asks whether to import one entry
// found in a client file. Unrecognized answers are treated as no.
func (p *Prompter) Decide(serverName, clientName string) (importer.Decision, error) {
	p.out.Println()
	p.out.Print("Found server '%s' in %s\n", serverName, clientName)
	p.out.Print("Import? [y]es / [n]o / [s]kip all: ")

	input, err := p.reader.ReadString('\n')
	if err != nil {
		return importer.No, fmt.Errorf("failed to read input: %w", err)
	}

	switch strings.TrimSpace(strings.ToLower(input)) {
	case "y", "yes":
		return importer.Yes, nil
	case "s", "skip":
		return importer.SkipAll, nil
	default:
		return importer.No, nil
	}
}
