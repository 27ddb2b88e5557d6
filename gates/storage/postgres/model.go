package storage

import (
	"errors"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/bool64/sqluct"
	"github.com/jmoiron/sqlx"

	"typegame/domain"
)

type Store struct {
	db  *sqlx.DB
	sq  sq.StatementBuilderType
	sm  sqluct.Mapper
	log *slog.Logger
}

type user struct {
	ID           domain.UserID   `db:"id"`
	Username     domain.Username `db:"username"`
	PasswordHash string          `db:"password_hash"`
	Registered   time.Time       `db:"registered"`
}

type score struct {
	ID      int64         `db:"id"`
	UserID  domain.UserID `db:"user_id"`
	Score   int64         `db:"score"`
	Created time.Time     `db:"created"`
}

// scoreRow - результат джойна scores с users, наружу уходит без user_id
type scoreRow struct {
	Username domain.Username `db:"username"`
	Score    int64           `db:"score"`
	Created  time.Time       `db:"created"`
}

var errNoRowsAffected = errors.New("No rows affected")

func userToDomain(usr user) domain.User {
	return domain.User{
		ID:           usr.ID,
		Username:     usr.Username,
		PasswordHash: usr.PasswordHash,
		Registered:   usr.Registered,
	}
}

func scoreToDomain(s score) domain.Score {
	return domain.Score{
		ID:      s.ID,
		UserID:  s.UserID,
		Score:   s.Score,
		Created: s.Created,
	}
}

func rowToDomain(r scoreRow) domain.ScoreRow {
	return domain.ScoreRow{
		Username: r.Username,
		Score:    r.Score,
		Created:  r.Created,
	}
}
