package digest

import (
	"context"
	"fmt"
	"strings"

	"github.com/pepetopia/topi/internal/gemini"
)

// partSeparator is the delimiter the model is told to place between
// day-sized update parts.
const partSeparator = "===SPLIT==="

const summarizerInstruction = `You are the investor-relations writer for a
crypto community project. You turn raw commit data into short, exciting,
non-technical progress updates for stakeholders. Plain language only: no
file names, no jargon, no code. Never promise returns or mention price.`

// Generator is the slice of the gemini client the summarizer needs.
type Generator interface {
	Generate(ctx context.Context, req gemini.Request) (text, model string, err error)
}

// Summarizer turns a commit into one or more investor update parts.
type Summarizer struct {
	gen Generator
}

// NewSummarizer creates a commit summarizer.
func NewSummarizer(gen Generator) *Summarizer {
	return &Summarizer{gen: gen}
}

// Summarize asks the model for an update, split into up to three parts for
// multi-day delivery when the commit is large. Always returns at least one
// non-empty part on success.
func (s *Summarizer) Summarize(ctx context.Context, detail *CommitDetail) ([]string, error) {
	prompt := fmt.Sprintf(
		"Commit message:\n%s\n\nChanged files:\n%s\n\n"+
			"TASK: write a development update for investors (2-4 sentences per part). "+
			"If this commit contains enough material for several daily updates, "+
			"write up to 3 parts separated by a line containing only %s. "+
			"Otherwise write a single part.",
		detail.Message, detail.FilesAnalysis, partSeparator)

	text, _, err := s.gen.Generate(ctx, gemini.Request{
		Prompt:            prompt,
		SystemInstruction: summarizerInstruction,
		Temperature:       0.7,
		MaxOutputTokens:   1024,
	})
	if err != nil {
		return nil, err
	}

	var parts []string
	for _, part := range strings.Split(text, partSeparator) {
		part = strings.TrimSpace(part)
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("summarizer returned no usable text")
	}
	return parts, nil
}
