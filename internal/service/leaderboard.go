package service

import (
	"sort"

	"github.com/samber/lo"

	"github.com/contextoduel/contexto-backend/internal/entity"
)

// LeaderboardEntry is one guess tagged with the side that made it.
type LeaderboardEntry struct {
	Word string `json:"word"`
	Rank int    `json:"rank"`
	Side string `json:"side"`
}

// Leaderboard is the merged, rank-sorted view of a match's guesses.
type Leaderboard struct {
	Entries       []LeaderboardEntry `json:"entries"`
	Total         int                `json:"total"`
	HumanCount    int                `json:"human_count"`
	OpponentCount int                `json:"opponent_count"`
}

// Aggregate merges both guess histories sorted ascending by rank, ties kept
// in chronological order. Pure function of the match, no side effects.
func Aggregate(match *entity.Match) *Leaderboard {
	entries := lo.Map(match.AllGuesses(), func(guess entity.GuessRecord, _ int) LeaderboardEntry {
		side := entity.SideOpponent
		if isHumanGuess(match, guess.Word) {
			side = entity.SideHuman
		}

		return LeaderboardEntry{Word: guess.Word, Rank: guess.Rank, Side: side}
	})

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Rank < entries[j].Rank })

	return &Leaderboard{
		Entries:       entries,
		Total:         len(entries),
		HumanCount:    len(match.HumanGuesses),
		OpponentCount: len(match.OpponentGuesses),
	}
}

func isHumanGuess(match *entity.Match, word string) bool {
	return lo.ContainsBy(match.HumanGuesses, func(guess entity.GuessRecord) bool {
		return guess.Word == word
	})
}
