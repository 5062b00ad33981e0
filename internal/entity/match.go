package entity

import (
	"fmt"
	"sort"
	"time"

	"github.com/contextoduel/contexto-backend/internal/apperror"
)

const (
	OutcomeInProgress  = "in_progress"
	OutcomeWonHuman    = "won_human"
	OutcomeWonOpponent = "won_opponent"
	OutcomeConceded    = "conceded"

	SideHuman    = "human"
	SideOpponent = "opponent"

	NoTurn = ""
)

var ErrUnknownSide = fmt.Errorf("unknown side")

// GuessRecord is a single scored guess. Words are stored normalized
// (trimmed, lower-cased), so equality checks are plain string compares.
// Seq is assigned by the match when the guess is applied and orders both
// histories chronologically even when the opponent passed a round.
type GuessRecord struct {
	Word       string  `json:"word"`
	Rank       int     `json:"rank"`
	Similarity float64 `json:"similarity"`
	Seq        int     `json:"seq"`
}

// Match holds the full state of one semantic duel: the hidden target word,
// both guess histories, whose turn it is and the outcome.
type Match struct {
	ID              string        `json:"id"`
	TargetWord      string        `json:"target_word"`
	HumanGuesses    []GuessRecord `json:"human_guesses"`
	OpponentGuesses []GuessRecord `json:"opponent_guesses"`
	Turn            string        `json:"turn"`
	Outcome         string        `json:"outcome"`
	NextSeq         int           `json:"next_seq"`
	StartedAt       time.Time     `json:"started_at"`
}

func NewMatch(id, targetWord string) *Match {
	match := &Match{ID: id}
	match.Start(targetWord)

	return match
}

// Start (re)initializes the match: fresh target, empty histories, human to move.
func (that *Match) Start(targetWord string) {
	that.TargetWord = targetWord
	that.HumanGuesses = []GuessRecord{}
	that.OpponentGuesses = []GuessRecord{}
	that.Turn = SideHuman
	that.Outcome = OutcomeInProgress
	that.NextSeq = 0
	that.StartedAt = time.Now().UTC()
}

func (that *Match) IsInProgress() bool {
	return that.Outcome == OutcomeInProgress
}

func (that *Match) IsFinished() bool {
	return !that.IsInProgress()
}

// UsedWords returns the union of both histories as a lookup set.
func (that *Match) UsedWords() map[string]struct{} {
	used := make(map[string]struct{}, len(that.HumanGuesses)+len(that.OpponentGuesses))
	for _, guess := range that.HumanGuesses {
		used[guess.Word] = struct{}{}
	}
	for _, guess := range that.OpponentGuesses {
		used[guess.Word] = struct{}{}
	}

	return used
}

func (that *Match) HasGuessed(word string) bool {
	_, ok := that.UsedWords()[word]
	return ok
}

// AllGuesses returns both histories merged in chronological order, using the
// sequence numbers assigned at apply time. The per-side slices can fall out
// of lockstep when the opponent passes a round, so slice indexes are not a
// usable ordering.
func (that *Match) AllGuesses() []GuessRecord {
	merged := make([]GuessRecord, 0, len(that.HumanGuesses)+len(that.OpponentGuesses))
	merged = append(merged, that.HumanGuesses...)
	merged = append(merged, that.OpponentGuesses...)
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].Seq < merged[j].Seq })

	return merged
}

// ApplyGuess appends a validated, already-scored guess for the given side and
// advances the turn. A guess naming the target word ends the match in that
// side's favor. The record must carry a normalized word.
func (that *Match) ApplyGuess(side string, record GuessRecord) error {
	if that.IsFinished() {
		return apperror.ErrMatchOver
	}

	if that.Turn != side {
		return apperror.ErrNotYourTurn
	}

	if that.HasGuessed(record.Word) {
		return apperror.ErrAlreadyGuessed
	}

	record.Seq = that.NextSeq

	switch side {
	case SideHuman:
		that.HumanGuesses = append(that.HumanGuesses, record)
	case SideOpponent:
		that.OpponentGuesses = append(that.OpponentGuesses, record)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownSide, side)
	}

	that.NextSeq++

	if record.Word == that.TargetWord {
		that.finish(side)
		return nil
	}

	that.Turn = toggleTurn(side)

	return nil
}

// PassOpponentTurn hands the turn back to the human when the opponent could
// not produce an admissible guess. The match simply continues.
func (that *Match) PassOpponentTurn() {
	if that.IsInProgress() {
		that.Turn = SideHuman
	}
}

// Concede ends the match in the opponent's favor. Calling it on an already
// finished match is a no-op on the outcome.
func (that *Match) Concede() {
	if that.IsFinished() {
		return
	}

	that.Outcome = OutcomeConceded
	that.Turn = NoTurn
}

// GuessCount reports the number of guesses made by the human side.
func (that *Match) GuessCount() int {
	return len(that.HumanGuesses)
}

// BestHumanRank returns the best (lowest) rank the human achieved, or 0 when
// no guess has been made yet.
func (that *Match) BestHumanRank() int {
	best := 0
	for _, guess := range that.HumanGuesses {
		if best == 0 || guess.Rank < best {
			best = guess.Rank
		}
	}

	return best
}

// ElapsedSeconds reports whole seconds since the match started.
func (that *Match) ElapsedSeconds() int {
	return int(time.Since(that.StartedAt).Seconds())
}

func (that *Match) finish(winner string) {
	switch winner {
	case SideHuman:
		that.Outcome = OutcomeWonHuman
	case SideOpponent:
		that.Outcome = OutcomeWonOpponent
	}
	that.Turn = NoTurn
}

func toggleTurn(side string) string {
	if side == SideHuman {
		return SideOpponent
	}
	return SideHuman
}
