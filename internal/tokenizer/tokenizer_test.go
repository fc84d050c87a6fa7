package tokenizer

import (
	"errors"
	"testing"
)

type testCounter struct {
	failure error
}

func (testCounter) Name() string { return "stub" }

func (counter testCounter) CountString(input string) (int, error) {
	if counter.failure != nil {
		return 0, counter.failure
	}
	return len([]rune(input)), nil
}

func TestCountText(t *testing.T) {
	tokens, err := CountText(testCounter{}, "/proj\n└── a")
	if err != nil {
		t.Fatalf("CountText error: %v", err)
	}
	if tokens != len([]rune("/proj\n└── a")) {
		t.Fatalf("unexpected token count %d", tokens)
	}
}

func TestCountTextErrors(t *testing.T) {
	if _, err := CountText(nil, "text"); !errors.Is(err, ErrNilCounter) {
		t.Fatalf("expected ErrNilCounter, got %v", err)
	}
	failure := errors.New("boom")
	if _, err := CountText(testCounter{failure: failure}, "text"); !errors.Is(err, failure) {
		t.Fatalf("expected wrapped failure, got %v", err)
	}
}

func TestNormalizeModel(t *testing.T) {
	testCases := map[string]string{
		"":              DefaultModel,
		"   ":           DefaultModel,
		" GPT-4o ":      "gpt-4o",
		"gpt-3.5-turbo": "gpt-3.5-turbo",
	}
	for input, expected := range testCases {
		if actual := NormalizeModel(input); actual != expected {
			t.Errorf("NormalizeModel(%q) = %q, want %q", input, actual, expected)
		}
	}
}
