package reply

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pepetopia/topi/internal/gemini"
	"github.com/pepetopia/topi/internal/persona"
)

// maxInputRunes caps pasted input before it reaches the model.
const maxInputRunes = 2000

// Generator is the slice of the gemini client the engine needs.
type Generator interface {
	Generate(ctx context.Context, req gemini.Request) (text, model string, err error)
}

// Engine runs the full reply-draft pipeline for one pasted post.
type Engine struct {
	gen Generator
	log *zap.Logger
}

// NewEngine creates a reply engine.
func NewEngine(gen Generator, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{gen: gen, log: log}
}

// Draft turns raw pasted text into a validated, ranked Session.
// A malformed model response is re-requested once with a stricter
// instruction before ErrMalformedResponse is surfaced.
func (e *Engine) Draft(ctx context.Context, rawInput string) (*Session, error) {
	input := normalize(rawInput)
	if input == "" {
		return nil, fmt.Errorf("%w: empty input", ErrValidationRejected)
	}

	p, input := persona.Detect(input)
	e.log.Info("reply session started",
		zap.String("persona", string(p.Name)), zap.Int("input_len", len(input)))

	system := BuildSystemPrompt(p)

	var resp *modelResponse
	var model string
	for _, strict := range []bool{false, true} {
		text, servedBy, err := e.gen.Generate(ctx, gemini.Request{
			Prompt:            BuildUserPrompt(input, strict),
			SystemInstruction: system,
			Temperature:       0.7,
			MaxOutputTokens:   2048,
			JSONOutput:        true,
		})
		if err != nil {
			return nil, err
		}
		model = servedBy

		resp, err = decodeResponse(text)
		if err == nil {
			break
		}
		e.log.Warn("model response failed structural contract",
			zap.Bool("strict_retry", strict), zap.Error(err))
		if strict {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
	}

	candidates, err := Validate(resp.Candidates, AsksAboutProject(input))
	if err != nil {
		return nil, err
	}

	session := &Session{
		ID:            uuid.NewString(),
		Input:         input,
		Persona:       p,
		Analysis:      resp.Analysis,
		Candidates:    candidates,
		RecommendedID: candidates[0].ID,
		Model:         model,
	}
	e.log.Info("reply session complete",
		zap.String("session", session.ID),
		zap.Int("candidates", len(candidates)),
		zap.String("model", model))
	return session, nil
}

func normalize(raw string) string {
	runes := []rune(strings.TrimSpace(raw))
	if len(runes) > maxInputRunes {
		runes = runes[:maxInputRunes]
	}
	return string(runes)
}

// IsSessionError reports whether err is one of the pipeline's own error
// kinds (as opposed to transport failures).
func IsSessionError(err error) bool {
	return errors.Is(err, ErrMalformedResponse) ||
		errors.Is(err, ErrValidationRejected) ||
		errors.Is(err, gemini.ErrModelUnavailable)
}
