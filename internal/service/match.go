package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/contextoduel/contexto-backend/internal/apperror"
	"github.com/contextoduel/contexto-backend/internal/entity"
	"github.com/contextoduel/contexto-backend/internal/scorer"
)

// dailyEpoch anchors the daily match number shown in stats.
var dailyEpoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

type matchRepo interface {
	CreateOrUpdate(ctx context.Context, match *entity.Match) error
	GetByID(ctx context.Context, id string) (*entity.Match, error)
	DeleteByID(ctx context.Context, id string) error
}

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

type historyRepo interface {
	Save(ctx context.Context, record *entity.MatchRecord) error
}

type targetPicker interface {
	RandomTarget() string
}

// GuessResult is the full outcome of one round: the human's scored guess and
// the opponent's reply, if it produced one.
type GuessResult struct {
	Match         *entity.Match
	Rank          int
	OpponentGuess *entity.GuessRecord
}

// ConcedeResult reveals the target once the human gives up.
type ConcedeResult struct {
	TargetWord string
	GuessCount int
	Outcome    string
}

// MatchStats is the lightweight per-match stats view.
type MatchStats struct {
	DailyNumber int    `json:"daily_number"`
	GuessCount  int    `json:"guess_count"`
	Outcome     string `json:"outcome"`
}

// MatchService sequences the human-guess -> opponent-guess round trip and
// owns all match state mutation.
type MatchService interface {
	StartMatch(ctx context.Context, playerID string) (*entity.Player, *entity.Match, error)
	SubmitGuess(ctx context.Context, playerID, word string) (*GuessResult, error)
	Concede(ctx context.Context, playerID string) (*ConcedeResult, error)
	Leaderboard(ctx context.Context, playerID string) (*Leaderboard, error)
	Stats(ctx context.Context, playerID string) (*MatchStats, error)
}

type matchService struct {
	logger *slog.Logger

	matchRepo   matchRepo
	playerRepo  playerRepo
	historyRepo historyRepo
	embeddings  EmbeddingProvider
	targets     targetPicker
	gate        VocabularyGate
	negotiator  NegotiatorService

	// one writer per match: the human-guess -> opponent-guess sequence is
	// not atomic at the provider boundary and must not interleave
	locks sync.Map // match id -> *sync.Mutex
}

func NewMatchService(
	logger *slog.Logger,
	matchRepo matchRepo,
	playerRepo playerRepo,
	historyRepo historyRepo,
	embeddings EmbeddingProvider,
	targets targetPicker,
	gate VocabularyGate,
	negotiator NegotiatorService,
) MatchService {
	return &matchService{
		logger:      logger.With("component", "match-service"),
		matchRepo:   matchRepo,
		playerRepo:  playerRepo,
		historyRepo: historyRepo,
		embeddings:  embeddings,
		targets:     targets,
		gate:        gate,
		negotiator:  negotiator,
	}
}

// StartMatch creates (or resets) the match bound to the player. An empty
// player id registers a fresh player.
func (that *matchService) StartMatch(ctx context.Context, playerID string) (*entity.Player, *entity.Match, error) {
	player, err := that.getOrCreatePlayer(ctx, playerID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get or create player: %w", err)
	}

	match := entity.NewMatch(uuid.NewString(), that.targets.RandomTarget())
	if err = that.matchRepo.CreateOrUpdate(ctx, match); err != nil {
		return nil, nil, fmt.Errorf("failed to create match: %w", err)
	}

	oldMatchID := player.MatchID
	player.MatchID = match.ID
	if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, nil, fmt.Errorf("failed to bind player to match: %w", err)
	}

	if oldMatchID != "" {
		if err = that.matchRepo.DeleteByID(ctx, oldMatchID); err != nil {
			that.logger.Warn("failed to discard previous match", "matchID", oldMatchID, "error", err)
		}
		that.locks.Delete(oldMatchID)
	}

	that.logger.Info("match started", "matchID", match.ID, "playerID", player.ID)

	return player, match, nil
}

// SubmitGuess runs one full round. Validation failures leave the stored
// match untouched; no guess is appended before it is fully scored.
func (that *matchService) SubmitGuess(ctx context.Context, playerID, word string) (*GuessResult, error) {
	match, unlock, err := that.lockMatch(ctx, playerID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if match.IsFinished() {
		return nil, apperror.ErrMatchOver
	}

	if match.Turn != entity.SideHuman {
		return nil, apperror.ErrNotYourTurn
	}

	guess := NormalizeWord(word)
	if err = that.gate.Admit(guess, match.UsedWords()); err != nil {
		return nil, err
	}

	similarity, err := that.embeddings.Similarity(guess, match.TargetWord)
	if err != nil {
		return nil, fmt.Errorf("failed to score guess: %w", err)
	}

	rank := scorer.Rank(similarity)
	if guess == match.TargetWord {
		rank = 1
	}

	record := entity.GuessRecord{Word: guess, Rank: rank, Similarity: similarity}
	if err = match.ApplyGuess(entity.SideHuman, record); err != nil {
		return nil, fmt.Errorf("failed to apply guess: %w", err)
	}

	result := &GuessResult{Match: match, Rank: rank}

	// a human win ends the round immediately, the opponent never moves
	if match.IsFinished() {
		that.persistRound(ctx, playerID, match)
		return result, nil
	}

	opponentGuess, err := that.negotiator.ProposeGuess(ctx, match)
	if err != nil {
		that.logger.Error("negotiator failed", "matchID", match.ID, "error", err)
	}

	if opponentGuess != nil {
		if err = match.ApplyGuess(entity.SideOpponent, *opponentGuess); err != nil {
			return nil, fmt.Errorf("failed to apply opponent guess: %w", err)
		}
		result.OpponentGuess = opponentGuess
	} else {
		match.PassOpponentTurn()
	}

	that.persistRound(ctx, playerID, match)

	return result, nil
}

// Concede reveals the target. Safe to call on an already finished match.
func (that *matchService) Concede(ctx context.Context, playerID string) (*ConcedeResult, error) {
	match, unlock, err := that.lockMatch(ctx, playerID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	wasInProgress := match.IsInProgress()
	match.Concede()

	if wasInProgress {
		that.persistRound(ctx, playerID, match)
	}

	return &ConcedeResult{
		TargetWord: match.TargetWord,
		GuessCount: match.GuessCount(),
		Outcome:    match.Outcome,
	}, nil
}

func (that *matchService) Leaderboard(ctx context.Context, playerID string) (*Leaderboard, error) {
	match, err := that.getPlayerMatch(ctx, playerID)
	if err != nil {
		return nil, err
	}

	return Aggregate(match), nil
}

func (that *matchService) Stats(ctx context.Context, playerID string) (*MatchStats, error) {
	match, err := that.getPlayerMatch(ctx, playerID)
	if err != nil {
		return nil, err
	}

	return &MatchStats{
		DailyNumber: int(match.StartedAt.Sub(dailyEpoch).Hours() / 24),
		GuessCount:  match.GuessCount(),
		Outcome:     match.Outcome,
	}, nil
}

// persistRound saves the match and, on a terminal outcome, archives it.
// Persistence failures are logged but never roll back the in-memory result.
func (that *matchService) persistRound(ctx context.Context, playerID string, match *entity.Match) {
	log := that.logger.With("matchID", match.ID)

	if err := that.matchRepo.CreateOrUpdate(ctx, match); err != nil {
		log.Error("failed to save match", "error", err)
	}

	if match.IsInProgress() {
		return
	}

	finalRank := match.BestHumanRank()
	if match.Outcome == entity.OutcomeWonHuman {
		finalRank = 1
	}

	record := &entity.MatchRecord{
		ID:             match.ID,
		UserID:         playerID,
		TargetWord:     match.TargetWord,
		GuessCount:     match.GuessCount(),
		FinalRank:      finalRank,
		ElapsedSeconds: match.ElapsedSeconds(),
		Completed:      match.Outcome == entity.OutcomeWonHuman || match.Outcome == entity.OutcomeWonOpponent,
		PlayedAt:       time.Now().UTC(),
	}

	if err := that.historyRepo.Save(ctx, record); err != nil {
		log.Error("failed to archive match record", "error", err)
	}
}

func (that *matchService) getOrCreatePlayer(ctx context.Context, playerID string) (*entity.Player, error) {
	if playerID == "" {
		player := &entity.Player{ID: uuid.NewString()}
		if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
			return nil, fmt.Errorf("failed to create player: %w", err)
		}

		return player, nil
	}

	player, err := that.playerRepo.GetByID(ctx, playerID)
	if errors.Is(err, apperror.ErrPlayerNotFound) {
		player = &entity.Player{ID: playerID}
		if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
			return nil, fmt.Errorf("failed to create player: %w", err)
		}

		return player, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return player, nil
}

func (that *matchService) getPlayerMatch(ctx context.Context, playerID string) (*entity.Match, error) {
	player, err := that.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	if player.MatchID == "" {
		return nil, apperror.ErrNoActiveMatch
	}

	match, err := that.matchRepo.GetByID(ctx, player.MatchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	return match, nil
}

// lockMatch resolves the player's match and takes its single-writer lock.
func (that *matchService) lockMatch(ctx context.Context, playerID string) (*entity.Match, func(), error) {
	match, err := that.getPlayerMatch(ctx, playerID)
	if err != nil {
		return nil, nil, err
	}

	value, _ := that.locks.LoadOrStore(match.ID, &sync.Mutex{})
	lock := value.(*sync.Mutex)
	lock.Lock()

	// re-read under the lock so a concurrent round is fully visible
	match, err = that.matchRepo.GetByID(ctx, match.ID)
	if err != nil {
		lock.Unlock()
		return nil, nil, fmt.Errorf("failed to get match: %w", err)
	}

	return match, lock.Unlock, nil
}
