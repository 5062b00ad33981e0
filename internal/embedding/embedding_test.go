package embedding

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/contextoduel/contexto-backend/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeVectors(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "vectors.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Loads well-formed vectors and skips junk lines", func(t *testing.T) {
		// Given: a vector file with a header line and one malformed line
		path := writeVectors(t, "2 3\nhouse 1.0 0.0 0.0\ntable 0.0 1.0 0.0\nbroken 1.0 oops 0.0\n")

		// When: loading the file
		store, err := Load(path)

		// Then: only the two parsable words are known
		require.NoError(t, err)
		assert.Equal(t, 2, store.VocabularySize())
		assert.True(t, store.Contains("house"))
		assert.True(t, store.Contains("table"))
		assert.False(t, store.Contains("broken"))
	})

	t.Run("Fails when the file has no usable vectors", func(t *testing.T) {
		path := writeVectors(t, "just a header\n")

		_, err := Load(path)

		require.Error(t, err)
	})

	t.Run("Fails when the file does not exist", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))

		require.Error(t, err)
	})
}

func TestStore_Similarity(t *testing.T) {
	// Given: three orthogonal-ish vectors
	path := writeVectors(t, "house 1.0 0.0 0.0\nvilla 2.0 0.0 0.0\ntable 0.0 1.0 0.0\n")
	store, err := Load(path)
	require.NoError(t, err)

	t.Run("Identical directions score 1.0", func(t *testing.T) {
		// When: comparing a word with a scaled copy of itself
		similarity, err := store.Similarity("house", "villa")

		// Then: unit normalization makes the similarity 1.0
		require.NoError(t, err)
		assert.InDelta(t, 1.0, similarity, 1e-6)
	})

	t.Run("Orthogonal vectors score 0.0", func(t *testing.T) {
		similarity, err := store.Similarity("house", "table")

		require.NoError(t, err)
		assert.InDelta(t, 0.0, similarity, 1e-6)
	})

	t.Run("Unknown word yields ErrUnknownWord", func(t *testing.T) {
		_, err := store.Similarity("house", "zzzz")

		require.ErrorIs(t, err, apperror.ErrUnknownWord)
	})
}

func TestStore_RandomTarget(t *testing.T) {
	t.Run("Targets come from the easy pool when present", func(t *testing.T) {
		// Given: a vocabulary containing two easy-pool words and one outsider
		path := writeVectors(t, "house 1.0 0.0\nwater 0.0 1.0\nxylophone 1.0 1.0\n")
		store, err := Load(path)
		require.NoError(t, err)

		// When/Then: every draw lands in the pool
		for i := 0; i < 20; i++ {
			target := store.RandomTarget()
			assert.Contains(t, []string{"house", "water"}, target)
		}
	})

	t.Run("Falls back to any known word when the pool is empty", func(t *testing.T) {
		path := writeVectors(t, "xylophone 1.0 1.0\n")
		store, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "xylophone", store.RandomTarget())
	})
}
