package apperror

import "errors"

var (
	ErrEmptyInput     = errors.New("guess is empty")
	ErrWordTooShort   = errors.New("word is too short")
	ErrAlreadyGuessed = errors.New("word has already been guessed")
	ErrUnknownWord    = errors.New("word is not in the vocabulary")

	ErrMatchOver     = errors.New("match is already over")
	ErrNotYourTurn   = errors.New("it's not your turn")
	ErrNoActiveMatch = errors.New("player has no active match")

	ErrMatchNotFound  = errors.New("match not found")
	ErrPlayerNotFound = errors.New("player not found")
	ErrUserNotFound   = errors.New("user not found")
)
