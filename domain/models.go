package domain

import (
	"errors"
	"time"
)

type UserID int64
type Username string
type Sorter string

const (
	SortByCreated Sorter = "created"
	SortByScore   Sorter = "score"
)

const (
	ScoreCooldown    = time.Minute
	LeaderboardLimit = 20
)

type User struct {
	ID           UserID    `db:"id"`
	Username     Username  `db:"username"`
	PasswordHash string    `db:"password_hash"`
	Registered   time.Time `db:"registered"`
}

type Score struct {
	ID      int64     `db:"id"`
	UserID  UserID    `db:"user_id"`
	Score   int64     `db:"score"`
	Created time.Time `db:"created"`
}

// ScoreRow - строка score соединённая с никнеймом владельца, для leaderboard и personal
type ScoreRow struct {
	Username Username  `db:"username"`
	Score    int64     `db:"score"`
	Created  time.Time `db:"created"`
}

var ErrUserNotFound = errors.New("user not found")
var ErrUsernameTaken = errors.New("username already taken")
var ErrNoScores = errors.New("user has no scores")
var ErrScoreCooldown = errors.New("score submitted too soon")
var ErrBadSorter = errors.New("invalid order_by value")

// ParseSorter пропускает только created и score, всё остальное отдаём хендлеру как 400
func ParseSorter(s string) (Sorter, error) {
	switch s {
	case "", string(SortByCreated):
		return SortByCreated, nil
	case string(SortByScore):
		return SortByScore, nil
	}
	return "", ErrBadSorter
}

// ValidateNewUser проверяет правила регистрации, останавливается на первом нарушении,
// текст ошибки уходит клиенту как есть
func ValidateNewUser(username, password string) error {
	if username == "" {
		return errors.New("Username is required.")
	}
	if !validUsername(username) {
		return errors.New("Username must be 3-20 characters long and contain only letters and numbers.")
	}
	if password == "" {
		return errors.New("Password is required.")
	}
	if !validPassword(password) {
		return errors.New("Password must be 6-64 characters long and contain at least one uppercase letter, one lowercase letter and one digit.")
	}
	return nil
}

func validUsername(s string) bool {
	if len(s) < 3 || len(s) > 20 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

func validPassword(s string) bool {
	if len(s) < 6 || len(s) > 64 {
		return false
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	return hasUpper && hasLower && hasDigit
}
