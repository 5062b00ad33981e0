package service

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/contextoduel/contexto-backend/internal/apperror"
)

const minWordLength = 2

// EmbeddingProvider is the narrow view of the word-vector store the game
// needs: similarity and vocabulary membership.
type EmbeddingProvider interface {
	Similarity(wordA, wordB string) (float64, error)
	Contains(word string) bool
}

// VocabularyGate decides whether a candidate word is an admissible move.
type VocabularyGate interface {
	Admit(word string, used map[string]struct{}) error
}

type vocabularyGate struct {
	vocabulary interface{ Contains(word string) bool }
}

func NewVocabularyGate(vocabulary interface{ Contains(word string) bool }) VocabularyGate {
	return &vocabularyGate{vocabulary: vocabulary}
}

// Admit checks a normalized candidate against the house rules. The distinct
// sentinels matter: callers surface "unknown word" and "already guessed"
// differently.
func (that *vocabularyGate) Admit(word string, used map[string]struct{}) error {
	if word == "" {
		return apperror.ErrEmptyInput
	}

	if len(word) < minWordLength {
		return fmt.Errorf("%w: %q", apperror.ErrWordTooShort, word)
	}

	if _, ok := used[word]; ok {
		return fmt.Errorf("%w: %q", apperror.ErrAlreadyGuessed, word)
	}

	if !that.vocabulary.Contains(word) {
		return fmt.Errorf("%w: %q", apperror.ErrUnknownWord, word)
	}

	return nil
}

// NormalizeWord lower-cases a candidate and strips surrounding whitespace and
// punctuation. Guesses are stored and compared in this form.
func NormalizeWord(word string) string {
	word = strings.ToLower(strings.TrimSpace(word))

	return strings.TrimFunc(word, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
	})
}
