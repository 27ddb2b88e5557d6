package server

import (
	"time"

	"typegame/domain"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type scoreRequest struct {
	Score int64 `json:"score"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type statusResponse struct {
	LoggedIn bool            `json:"logged_in"`
	UserID   domain.UserID   `json:"user_id,omitempty"`
	Username domain.Username `json:"username,omitempty"`
}

type scoreEntry struct {
	Username domain.Username `json:"username"`
	Score    int64           `json:"score"`
	Created  time.Time       `json:"created"`
}

type leaderboardResponse struct {
	Leaderboard []scoreEntry `json:"leaderboard"`
}

type personalResponse struct {
	Personal []scoreEntry `json:"personal"`
}

func toEntries(rows []domain.ScoreRow) []scoreEntry {
	entries := make([]scoreEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, scoreEntry{
			Username: r.Username,
			Score:    r.Score,
			Created:  r.Created,
		})
	}
	return entries
}

const userContextKey = "user"
const tokenContextKey = "token"
