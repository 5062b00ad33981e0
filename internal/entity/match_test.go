package entity

import (
	"testing"

	"github.com/contextoduel/contexto-backend/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch_Start(t *testing.T) {
	t.Run("Start resets histories and hands the turn to the human", func(t *testing.T) {
		// Given: a finished match with guesses on both sides
		match := NewMatch("m1", "house")
		require.NoError(t, match.ApplyGuess(SideHuman, GuessRecord{Word: "table", Rank: 420, Similarity: 0.42}))
		require.NoError(t, match.ApplyGuess(SideOpponent, GuessRecord{Word: "house", Rank: 1, Similarity: 1}))
		require.True(t, match.IsFinished())

		// When: the match is restarted with a new target
		match.Start("water")

		// Then: everything is back to a fresh in-progress state
		assert.Equal(t, "water", match.TargetWord)
		assert.Empty(t, match.HumanGuesses)
		assert.Empty(t, match.OpponentGuesses)
		assert.Equal(t, SideHuman, match.Turn)
		assert.Equal(t, OutcomeInProgress, match.Outcome)
		assert.False(t, match.StartedAt.IsZero())
	})
}

func TestMatch_ApplyGuess(t *testing.T) {
	t.Run("Human guess advances turn to the opponent", func(t *testing.T) {
		// Given: a fresh match
		match := NewMatch("m1", "house")

		// When: the human makes a non-winning guess
		err := match.ApplyGuess(SideHuman, GuessRecord{Word: "table", Rank: 420, Similarity: 0.42})

		// Then: the guess is recorded and the opponent is to move
		require.NoError(t, err)
		assert.Len(t, match.HumanGuesses, 1)
		assert.Equal(t, SideOpponent, match.Turn)
		assert.Equal(t, OutcomeInProgress, match.Outcome)
	})

	t.Run("Guess naming the target word wins the match", func(t *testing.T) {
		// Given: a fresh match
		match := NewMatch("m1", "house")

		// When: the human names the target
		err := match.ApplyGuess(SideHuman, GuessRecord{Word: "house", Rank: 1, Similarity: 1})

		// Then: the match is won by the human and no side is to move
		require.NoError(t, err)
		assert.Equal(t, OutcomeWonHuman, match.Outcome)
		assert.Equal(t, NoTurn, match.Turn)
		assert.Empty(t, match.OpponentGuesses)
	})

	t.Run("Opponent win sets the opponent outcome", func(t *testing.T) {
		// Given: a match where the opponent is to move
		match := NewMatch("m1", "house")
		require.NoError(t, match.ApplyGuess(SideHuman, GuessRecord{Word: "table", Rank: 420, Similarity: 0.42}))

		// When: the opponent names the target
		err := match.ApplyGuess(SideOpponent, GuessRecord{Word: "house", Rank: 1, Similarity: 1})

		// Then: the match is won by the opponent
		require.NoError(t, err)
		assert.Equal(t, OutcomeWonOpponent, match.Outcome)
	})

	t.Run("Returns ErrMatchOver once the match is finished", func(t *testing.T) {
		// Given: a won match
		match := NewMatch("m1", "house")
		require.NoError(t, match.ApplyGuess(SideHuman, GuessRecord{Word: "house", Rank: 1, Similarity: 1}))

		// When: another guess comes in
		err := match.ApplyGuess(SideHuman, GuessRecord{Word: "table", Rank: 420, Similarity: 0.42})

		// Then: it is rejected with ErrMatchOver and state is unchanged
		require.ErrorIs(t, err, apperror.ErrMatchOver)
		assert.Len(t, match.HumanGuesses, 1)
	})

	t.Run("Returns ErrNotYourTurn for out-of-turn guesses", func(t *testing.T) {
		// Given: a fresh match where the human is to move
		match := NewMatch("m1", "house")

		// When: the opponent tries to move first
		err := match.ApplyGuess(SideOpponent, GuessRecord{Word: "table", Rank: 420, Similarity: 0.42})

		// Then: the guess is rejected
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Empty(t, match.OpponentGuesses)
	})

	t.Run("Returns ErrAlreadyGuessed for duplicate words across both sides", func(t *testing.T) {
		// Given: a match where "table" was guessed by the human
		match := NewMatch("m1", "house")
		require.NoError(t, match.ApplyGuess(SideHuman, GuessRecord{Word: "table", Rank: 420, Similarity: 0.42}))

		// When: the opponent repeats the same word
		err := match.ApplyGuess(SideOpponent, GuessRecord{Word: "table", Rank: 420, Similarity: 0.42})

		// Then: the guess is rejected and no duplicate is stored
		require.ErrorIs(t, err, apperror.ErrAlreadyGuessed)
		assert.Empty(t, match.OpponentGuesses)
	})
}

func TestMatch_PassOpponentTurn(t *testing.T) {
	t.Run("Hands the turn back to the human while in progress", func(t *testing.T) {
		// Given: a match where the opponent is to move
		match := NewMatch("m1", "house")
		require.NoError(t, match.ApplyGuess(SideHuman, GuessRecord{Word: "table", Rank: 420, Similarity: 0.42}))
		require.Equal(t, SideOpponent, match.Turn)

		// When: the opponent passes
		match.PassOpponentTurn()

		// Then: the human is to move and the match continues
		assert.Equal(t, SideHuman, match.Turn)
		assert.Equal(t, OutcomeInProgress, match.Outcome)
	})
}

func TestMatch_Concede(t *testing.T) {
	t.Run("Concede finishes the match", func(t *testing.T) {
		// Given: an in-progress match
		match := NewMatch("m1", "house")

		// When: the human concedes
		match.Concede()

		// Then: the outcome is conceded and no side is to move
		assert.Equal(t, OutcomeConceded, match.Outcome)
		assert.Equal(t, NoTurn, match.Turn)
	})

	t.Run("Concede on a finished match keeps the original outcome", func(t *testing.T) {
		// Given: a match already won by the human
		match := NewMatch("m1", "house")
		require.NoError(t, match.ApplyGuess(SideHuman, GuessRecord{Word: "house", Rank: 1, Similarity: 1}))

		// When: concede is called anyway
		match.Concede()

		// Then: the win is preserved
		assert.Equal(t, OutcomeWonHuman, match.Outcome)
	})
}

func TestMatch_AllGuesses(t *testing.T) {
	t.Run("Interleaves both histories chronologically", func(t *testing.T) {
		// Given: two full rounds of play
		match := NewMatch("m1", "house")
		require.NoError(t, match.ApplyGuess(SideHuman, GuessRecord{Word: "table", Rank: 420}))
		require.NoError(t, match.ApplyGuess(SideOpponent, GuessRecord{Word: "roof", Rank: 120}))
		require.NoError(t, match.ApplyGuess(SideHuman, GuessRecord{Word: "door", Rank: 90}))
		require.NoError(t, match.ApplyGuess(SideOpponent, GuessRecord{Word: "window", Rank: 150}))

		// When: merging both histories
		merged := match.AllGuesses()

		// Then: the order follows the rounds as they were played
		words := make([]string, 0, len(merged))
		for _, guess := range merged {
			words = append(words, guess.Word)
		}
		assert.Equal(t, []string{"table", "roof", "door", "window"}, words)
	})

	t.Run("Keeps chronology when the opponent passed a round", func(t *testing.T) {
		// Given: the opponent passes after the first human guess
		match := NewMatch("m1", "house")
		require.NoError(t, match.ApplyGuess(SideHuman, GuessRecord{Word: "table", Rank: 420}))
		match.PassOpponentTurn()
		require.NoError(t, match.ApplyGuess(SideHuman, GuessRecord{Word: "door", Rank: 90}))
		require.NoError(t, match.ApplyGuess(SideOpponent, GuessRecord{Word: "roof", Rank: 120}))

		// When: merging both histories
		merged := match.AllGuesses()

		// Then: the late opponent guess stays after the second human guess
		words := make([]string, 0, len(merged))
		for _, guess := range merged {
			words = append(words, guess.Word)
		}
		assert.Equal(t, []string{"table", "door", "roof"}, words)
	})
}

func TestMatch_BestHumanRank(t *testing.T) {
	t.Run("Returns the lowest rank achieved", func(t *testing.T) {
		// Given: several human guesses
		match := NewMatch("m1", "house")
		require.NoError(t, match.ApplyGuess(SideHuman, GuessRecord{Word: "table", Rank: 420}))
		match.Turn = SideHuman
		require.NoError(t, match.ApplyGuess(SideHuman, GuessRecord{Word: "door", Rank: 90}))

		// When / Then
		assert.Equal(t, 90, match.BestHumanRank())
	})

	t.Run("Returns zero with no guesses", func(t *testing.T) {
		match := NewMatch("m1", "house")
		assert.Equal(t, 0, match.BestHumanRank())
	})
}
