package service

import (
	"testing"

	"github.com/contextoduel/contexto-backend/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVocabulary struct {
	words map[string]struct{}
}

func newFakeVocabulary(words ...string) *fakeVocabulary {
	vocabulary := &fakeVocabulary{words: make(map[string]struct{}, len(words))}
	for _, word := range words {
		vocabulary.words[word] = struct{}{}
	}

	return vocabulary
}

func (that *fakeVocabulary) Contains(word string) bool {
	_, ok := that.words[word]
	return ok
}

func TestVocabularyGate_Admit(t *testing.T) {
	gate := NewVocabularyGate(newFakeVocabulary("house", "table", "roof"))

	t.Run("Admits a known unused word", func(t *testing.T) {
		err := gate.Admit("roof", map[string]struct{}{"table": {}})

		require.NoError(t, err)
	})

	t.Run("Rejects empty input", func(t *testing.T) {
		err := gate.Admit("", nil)

		require.ErrorIs(t, err, apperror.ErrEmptyInput)
	})

	t.Run("Rejects single-letter words", func(t *testing.T) {
		err := gate.Admit("a", nil)

		require.ErrorIs(t, err, apperror.ErrWordTooShort)
	})

	t.Run("Rejects words already guessed", func(t *testing.T) {
		err := gate.Admit("table", map[string]struct{}{"table": {}})

		require.ErrorIs(t, err, apperror.ErrAlreadyGuessed)
	})

	t.Run("Rejects words outside the vocabulary distinctly from used ones", func(t *testing.T) {
		err := gate.Admit("zzzz", map[string]struct{}{"table": {}})

		require.ErrorIs(t, err, apperror.ErrUnknownWord)
		assert.NotErrorIs(t, err, apperror.ErrAlreadyGuessed)
	})
}

func TestNormalizeWord(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trims whitespace", input: "  house \n", want: "house"},
		{name: "lower-cases", input: "House", want: "house"},
		{name: "strips surrounding punctuation", input: `"roof."`, want: "roof"},
		{name: "keeps inner hyphens", input: "well-known", want: "well-known"},
		{name: "empty after stripping", input: "!?.", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeWord(tt.input))
		})
	}
}
