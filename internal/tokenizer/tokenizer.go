// Package tokenizer estimates how many model tokens a rendered diagram occupies.
package tokenizer

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

// Config captures tokenizer selection parameters.
type Config struct {
	Model string
}

const (
	// DefaultModel is used when no model is configured.
	DefaultModel        = "gpt-4o"
	defaultEncodingName = "cl100k_base"
)

// ErrNilCounter is returned when counting is requested without a counter.
var ErrNilCounter = errors.New("nil tokenizer counter")

// NewCounter returns a Counter for the requested model together with the
// name of the model or encoding actually used. Unknown models fall back to
// the cl100k_base encoding.
func NewCounter(cfg Config) (Counter, string, error) {
	model := NormalizeModel(cfg.Model)
	encoding, encodingErr := tiktoken.EncodingForModel(model)
	if encodingErr == nil && encoding != nil {
		return openAICounter{encoding: encoding, name: model}, model, nil
	}
	fallback, fallbackErr := tiktoken.GetEncoding(defaultEncodingName)
	if fallbackErr != nil {
		return nil, "", errors.Wrap(fallbackErr, "initialize fallback tokenizer")
	}
	return openAICounter{encoding: fallback, name: defaultEncodingName}, defaultEncodingName, nil
}

// NormalizeModel trims and lowercases a model name, substituting DefaultModel for blanks.
func NormalizeModel(model string) string {
	trimmed := strings.ToLower(strings.TrimSpace(model))
	if trimmed == "" {
		return DefaultModel
	}
	return trimmed
}

// CountText estimates the tokens in text.
func CountText(counter Counter, text string) (int, error) {
	if counter == nil {
		return 0, ErrNilCounter
	}
	tokens, countErr := counter.CountString(text)
	if countErr != nil {
		return 0, errors.Wrapf(countErr, "count tokens with %s", counter.Name())
	}
	return tokens, nil
}
