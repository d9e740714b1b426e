// Package quiz holds the trivia question bank and the per-battle deck that
// deals questions without repeats until the bank is exhausted.
package quiz

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ChoiceCount is the number of answers every question offers.
const ChoiceCount = 3

var (
	ErrEmptyBank      = errors.New("question bank is empty")
	ErrChoiceOutRange = errors.New("choice index out of range")
)

//go:embed questions.json
var defaultQuestions []byte

// Question is one trivia entry. Answer must equal one of Choices.
type Question struct {
	Question string   `json:"question" yaml:"question"`
	Choices  []string `json:"choices" yaml:"choices"`
	Answer   string   `json:"answer" yaml:"answer"`
}

// IsCorrect reports whether the choice at index i is the answer.
func (q Question) IsCorrect(i int) (bool, error) {
	if i < 0 || i >= len(q.Choices) {
		return false, ErrChoiceOutRange
	}
	return q.Choices[i] == q.Answer, nil
}

// Prompt is a question with the answer stripped, safe to send to players.
type Prompt struct {
	Question string   `json:"question"`
	Choices  []string `json:"choices"`
}

func (q Question) Prompt() Prompt {
	ch := make([]string, len(q.Choices))
	copy(ch, q.Choices)
	return Prompt{Question: q.Question, Choices: ch}
}

// Bank is an immutable list of validated questions.
type Bank []Question

// Validate checks every entry has text, exactly ChoiceCount distinct
// choices, and an answer among them.
func (b Bank) Validate() error {
	if len(b) == 0 {
		return ErrEmptyBank
	}
	for i, q := range b {
		if strings.TrimSpace(q.Question) == "" {
			return fmt.Errorf("question %d: empty text", i)
		}
		if len(q.Choices) != ChoiceCount {
			return fmt.Errorf("question %d (%q): has %d choices, want %d", i, q.Question, len(q.Choices), ChoiceCount)
		}
		seen := make(map[string]struct{}, len(q.Choices))
		found := false
		for _, c := range q.Choices {
			if _, dup := seen[c]; dup {
				return fmt.Errorf("question %d (%q): duplicate choice %q", i, q.Question, c)
			}
			seen[c] = struct{}{}
			if c == q.Answer {
				found = true
			}
		}
		if !found {
			return fmt.Errorf("question %d (%q): answer %q is not one of the choices", i, q.Question, q.Answer)
		}
	}
	return nil
}

// DefaultBank returns the built-in questions.
func DefaultBank() Bank {
	b, err := Parse(defaultQuestions, ".json")
	if err != nil {
		panic(fmt.Sprintf("embedded questions are invalid: %v", err))
	}
	return b
}

// LoadBank reads a bank from a .json, .yaml or .yml file.
func LoadBank(path string) (Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question file %s: %w", path, err)
	}
	b, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("question file %s: %w", path, err)
	}
	return b, nil
}

// Parse decodes and validates a bank. ext selects the format; anything other
// than .yaml or .yml is treated as JSON.
func Parse(data []byte, ext string) (Bank, error) {
	var b Bank
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("failed to parse json: %w", err)
		}
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}
