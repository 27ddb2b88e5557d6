package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"typegame/iternal/pkg"
)

type UserService struct {
	store UserStore
	log   *slog.Logger
	cl    pkg.Clock
}

type UserStore interface {
	AddUser(ctx context.Context, username Username, passwordHash string) error
	GetUser(ctx context.Context, id UserID) (User, error)
	GetUserByName(ctx context.Context, username Username) (User, error)
	DeleteUser(ctx context.Context, id UserID) error
	AddScore(ctx context.Context, id UserID, points int64) error
	LastScore(ctx context.Context, id UserID) (Score, error)
	UserScores(ctx context.Context, id UserID, sorter Sorter, limit int) ([]ScoreRow, error)
	TopScores(ctx context.Context, limit int) ([]ScoreRow, error)
}

func NewUserService(store UserStore, log *slog.Logger, cl pkg.Clock) *UserService {
	return &UserService{
		store: store,
		log:   log,
		cl:    cl,
	}
}

// Register сохраняет нового пользователя, пароль сюда приходит уже захешированным.
// Предпроверка имени нужна для человеческой ошибки, гонку всё равно ловит
// uniqueness constraint в сторе
func (s UserService) Register(ctx context.Context, username Username, passwordHash string) error {
	const op = "UserService.Register"
	_, err := s.store.GetUserByName(ctx, username)
	if err == nil {
		s.log.Debug(op, "username", username)
		return ErrUsernameTaken
	}
	if !errors.Is(err, ErrUserNotFound) {
		s.log.Error(op, "err", err)
		return err
	}
	err = s.store.AddUser(ctx, username, passwordHash)
	if err != nil {
		return err
	}
	s.log.Info(op, "registered", username)
	return nil
}

func (s UserService) UserByName(ctx context.Context, username Username) (User, error) {
	return s.store.GetUserByName(ctx, username)
}

func (s UserService) UserByID(ctx context.Context, id UserID) (User, error) {
	return s.store.GetUser(ctx, id)
}

// SubmitScore вставляет новый score, не чаще чем раз в ScoreCooldown на пользователя.
// check-then-insert, это мягкий лимит а не строгая гарантия
func (s UserService) SubmitScore(ctx context.Context, id UserID, points int64) error {
	const op = "UserService.SubmitScore"
	last, err := s.store.LastScore(ctx, id)
	if err != nil && !errors.Is(err, ErrNoScores) {
		s.log.Error(op, "err", err)
		return err
	}
	if err == nil && s.cl.Now().Sub(last.Created) < ScoreCooldown {
		s.log.Debug(op, "cooldown", fmt.Sprintf("user %v submitted too soon", id))
		return ErrScoreCooldown
	}
	err = s.store.AddScore(ctx, id, points)
	if err != nil {
		s.log.Error(op, "err", err)
		return err
	}
	return nil
}

func (s UserService) PersonalScores(ctx context.Context, id UserID, sorter Sorter) ([]ScoreRow, error) {
	const op = "UserService.PersonalScores"
	rows, err := s.store.UserScores(ctx, id, sorter, LeaderboardLimit)
	if err != nil {
		s.log.Error(op, "err", err)
		return nil, err
	}
	return rows, nil
}

func (s UserService) Leaderboard(ctx context.Context) ([]ScoreRow, error) {
	const op = "UserService.Leaderboard"
	rows, err := s.store.TopScores(ctx, LeaderboardLimit)
	if err != nil {
		s.log.Error(op, "err", err)
		return nil, err
	}
	return rows, nil
}

// DeleteProfile удаляет пользователя вместе со всеми его score, в сторе это одна транзакция
func (s UserService) DeleteProfile(ctx context.Context, id UserID) error {
	const op = "UserService.DeleteProfile"
	err := s.store.DeleteUser(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			s.log.Error(op, "err", err)
		}
		return err
	}
	s.log.Info(op, "deleted", id)
	return nil
}
