package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/contextoduel/contexto-backend/internal/entity"
	"github.com/contextoduel/contexto-backend/internal/scorer"
)

const (
	maxNegotiatorAttempts = 5
	maxContextGuesses     = 10

	defaultAttemptTimeout = 20 * time.Second
)

// TextProvider produces one completion for one prompt. The model behind it
// is treated as a stochastic black box: it may return punctuation, repeat an
// excluded word or invent tokens, and the negotiator has to cope.
type TextProvider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// NegotiatorService drives the automated opponent's guessing.
type NegotiatorService interface {
	ProposeGuess(ctx context.Context, match *entity.Match) (*entity.GuessRecord, error)
}

type negotiatorService struct {
	logger *slog.Logger

	textProvider   TextProvider
	embeddings     EmbeddingProvider
	gate           VocabularyGate
	attemptTimeout time.Duration
}

func NewNegotiatorService(logger *slog.Logger, textProvider TextProvider, embeddings EmbeddingProvider, gate VocabularyGate, attemptTimeout time.Duration) NegotiatorService {
	if attemptTimeout <= 0 {
		attemptTimeout = defaultAttemptTimeout
	}

	return &negotiatorService{
		logger:         logger.With("component", "negotiator"),
		textProvider:   textProvider,
		embeddings:     embeddings,
		gate:           gate,
		attemptTimeout: attemptTimeout,
	}
}

// ProposeGuess asks the text provider for an admissible guess, retrying with
// a growing exclusion list. A nil record with a nil error means the opponent
// passes: every attempt in the budget was spent on inadmissible or failed
// replies. Match state is not touched here; the caller appends the record.
func (that *negotiatorService) ProposeGuess(ctx context.Context, match *entity.Match) (*entity.GuessRecord, error) {
	log := that.logger.With("matchID", match.ID)

	used := match.UsedWords()
	promptContext := buildPromptContext(match)
	excluded := make(map[string]struct{})

	for attempt := 1; attempt <= maxNegotiatorAttempts; attempt++ {
		prompt := promptContext + promptInstruction

		reply, err := that.completeWithTimeout(ctx, prompt)
		if err != nil {
			// a transport failure spends an attempt, it never fails the match
			log.Warn("completion attempt failed", "attempt", attempt, "error", err)
			continue
		}

		guess := NormalizeWord(reply)

		if admitErr := that.gate.Admit(guess, used); admitErr != nil {
			log.Debug("inadmissible guess", "attempt", attempt, "guess", guess, "reason", admitErr)
			// one exclusion clause per distinct word, a repeating model
			// must not bloat the prompt
			if _, alreadyExcluded := excluded[guess]; guess != "" && !alreadyExcluded {
				excluded[guess] = struct{}{}
				promptContext += fmt.Sprintf("\nDo not use %q, it has already been guessed or is not a valid word.", guess)
			}
			continue
		}

		similarity, err := that.embeddings.Similarity(guess, match.TargetWord)
		if err != nil {
			log.Warn("failed to score admissible guess", "attempt", attempt, "guess", guess, "error", err)
			continue
		}

		rank := scorer.Rank(similarity)
		if guess == match.TargetWord {
			rank = 1
		}

		log.Info("opponent guessed", "guess", guess, "rank", rank, "attempt", attempt)

		return &entity.GuessRecord{Word: guess, Rank: rank, Similarity: similarity}, nil
	}

	log.Info("opponent passes", "attempts", maxNegotiatorAttempts)

	return nil, nil
}

func (that *negotiatorService) completeWithTimeout(ctx context.Context, prompt string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, that.attemptTimeout)
	defer cancel()

	return that.textProvider.Complete(attemptCtx, prompt)
}

const promptInstruction = "\n\nBased on these ranks (lower is better, 1 is correct), suggest a single word" +
	" that you think is closest to the target word. Requirements:\n" +
	"1. Must be a common English word\n" +
	"2. Must NOT be any word that has been guessed before\n" +
	"3. Should aim for a better rank than the best guess so far\n\n" +
	"Respond with just the word, no punctuation or explanation."

// buildPromptContext summarizes prior play: the best-ranked guesses as
// few-shot examples, the rank to beat, and the full exclusion list.
func buildPromptContext(match *entity.Match) string {
	ranked := match.AllGuesses()
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Rank < ranked[j].Rank })

	relevant := ranked
	if len(relevant) > maxContextGuesses {
		relevant = relevant[:maxContextGuesses]
	}

	var builder strings.Builder
	builder.WriteString("Previous guesses and their ranks (lower is better):\n")
	for _, guess := range relevant {
		fmt.Fprintf(&builder, "%s (rank %d)\n", guess.Word, guess.Rank)
	}

	if len(ranked) > 0 {
		fmt.Fprintf(&builder, "\nThe best guess so far had rank %d. Try to find a word that would get an even better rank.", ranked[0].Rank)
	}

	usedWords := lo.Map(match.AllGuesses(), func(guess entity.GuessRecord, _ int) string { return guess.Word })
	if len(usedWords) > 0 {
		builder.WriteString("\nDo not use any of these words that have already been guessed: ")
		builder.WriteString(strings.Join(usedWords, ", "))
	}

	return builder.String()
}
