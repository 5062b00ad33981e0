// Package embedding implements the word-vector side of the game: vocabulary
// membership and cosine similarity between word pairs. Vectors are loaded
// once at startup from a GloVe-style text file ("word v1 v2 ... vN" per
// line) and unit-normalized, so similarity is a plain dot product.
package embedding

import (
	"bufio"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/contextoduel/contexto-backend/internal/apperror"
)

// easyTargets is the pool of simple, common words a match can hide.
// Words missing from the loaded vocabulary are skipped at load time.
var easyTargets = []string{
	"house", "table", "chair", "book", "phone",
	"water", "bread", "shoes", "clock", "door",
	"paper", "glass", "plate", "shirt", "light",
	"music", "plant", "apple", "knife", "spoon",
	"pencil", "window", "bottle", "flower", "camera",
	"pillow", "coffee", "mirror", "carpet", "picture",
}

type Store struct {
	vectors map[string][]float32
	targets []string
}

// Load reads the vector file at path into memory. Lines that do not parse as
// a word followed by floats (such as a word2vec count header) are skipped.
func Load(path string) (*Store, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("can't open embeddings file: %w", err)
	}
	defer file.Close()

	store := &Store{vectors: make(map[string][]float32)}

	scanner := bufio.NewScanner(file)
	// GloVe lines for 300-dim vectors run a few KB; the default token size is too small.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	dims := 0
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			continue
		}

		vector := make([]float32, 0, len(fields)-1)
		ok := true
		for _, field := range fields[1:] {
			value, parseErr := strconv.ParseFloat(field, 32)
			if parseErr != nil {
				ok = false
				break
			}
			vector = append(vector, float32(value))
		}
		if !ok {
			continue
		}

		if dims == 0 {
			dims = len(vector)
		}
		if len(vector) != dims {
			continue
		}

		normalize(vector)
		store.vectors[strings.ToLower(fields[0])] = vector
	}
	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("can't read embeddings file: %w", err)
	}

	if len(store.vectors) == 0 {
		return nil, fmt.Errorf("embeddings file %s: no vectors loaded", path)
	}

	for _, word := range easyTargets {
		if _, ok := store.vectors[word]; ok {
			store.targets = append(store.targets, word)
		}
	}

	return store, nil
}

// Contains reports whether the word has a vector.
func (that *Store) Contains(word string) bool {
	_, ok := that.vectors[word]
	return ok
}

// Similarity returns the cosine similarity between two words, or
// apperror.ErrUnknownWord when either has no vector.
func (that *Store) Similarity(wordA, wordB string) (float64, error) {
	vecA, okA := that.vectors[wordA]
	if !okA {
		return 0, fmt.Errorf("%w: %s", apperror.ErrUnknownWord, wordA)
	}

	vecB, okB := that.vectors[wordB]
	if !okB {
		return 0, fmt.Errorf("%w: %s", apperror.ErrUnknownWord, wordB)
	}

	var dot float64
	for i := range vecA {
		dot += float64(vecA[i]) * float64(vecB[i])
	}

	return dot, nil
}

// RandomTarget picks a hidden word for a new match from the easy-target pool.
// When none of the pool words made it into the vocabulary, any known word
// will do.
func (that *Store) RandomTarget() string {
	if len(that.targets) > 0 {
		return that.targets[rand.Intn(len(that.targets))] //nolint: gosec // it's ok
	}

	for word := range that.vectors {
		return word
	}

	return ""
}

// VocabularySize reports how many words were loaded.
func (that *Store) VocabularySize() int {
	return len(that.vectors)
}

func normalize(vector []float32) {
	var sum float64
	for _, v := range vector {
		sum += float64(v) * float64(v)
	}

	norm := math.Sqrt(sum)
	if norm == 0 {
		return
	}

	for i := range vector {
		vector[i] = float32(float64(vector[i]) / norm)
	}
}
