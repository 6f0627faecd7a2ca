package sentiment

import (
	"context"
	"strings"
	"unicode"

	"NewsPulse/internal/ports"
)

const (
	negationWindow = 3
	negationFactor = -0.5
)

// Lexicon is an offline, deterministic word-polarity scorer.
// The polarity of a text is the mean polarity of its sentiment-bearing words,
// adjusted for a preceding intensifier and for negation, clamped to [-1, 1].
type Lexicon struct {
	words        map[string]float64
	intensifiers map[string]float64
	negators     map[string]struct{}
}

var _ ports.SentimentScorer = (*Lexicon)(nil)

// NewLexicon returns a scorer backed by the built-in English word list.
func NewLexicon() *Lexicon {
	return NewLexiconWithWords(defaultWords)
}

// NewLexiconWithWords builds a scorer from a custom word list; intensifiers and negators stay built-in.
func NewLexiconWithWords(words map[string]float64) *Lexicon {
	return &Lexicon{
		words:        words,
		intensifiers: defaultIntensifiers,
		negators:     defaultNegators,
	}
}

// Score implements ports.SentimentScorer. It never fails.
func (l *Lexicon) Score(_ context.Context, text string) (float64, error) {
	return l.Polarity(text), nil
}

// Polarity scores text; empty or whitespace-only text is 0.
func (l *Lexicon) Polarity(text string) float64 {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return 0
	}

	var (
		sum     float64
		matched int
	)
	for i, tok := range tokens {
		p, ok := l.words[tok]
		if !ok {
			continue
		}
		if i > 0 {
			if m, ok := l.intensifiers[tokens[i-1]]; ok {
				p *= m
			}
		}
		if l.negated(tokens, i) {
			p *= negationFactor
		}
		sum += p
		matched++
	}

	if matched == 0 {
		return 0
	}
	return clamp(sum / float64(matched))
}

func (l *Lexicon) negated(tokens []string, i int) bool {
	start := i - negationWindow
	if start < 0 {
		start = 0
	}
	for _, tok := range tokens[start:i] {
		if _, ok := l.negators[tok]; ok {
			return true
		}
		if strings.HasSuffix(tok, "n't") {
			return true
		}
	}
	return false
}

func tokenize(text string) []string {
	text = strings.ToLower(strings.ReplaceAll(text, "’", "'"))
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\'' && r != '-'
	})

	tokens := fields[:0]
	for _, f := range fields {
		if f = strings.Trim(f, "'-"); f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func clamp(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	default:
		return v
	}
}
