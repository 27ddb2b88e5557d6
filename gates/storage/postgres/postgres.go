package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/bool64/sqluct"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"typegame/domain"
)

// код ошибки postgres unique_violation, ловим гонку на нике
const pqUniqueViolation = "23505"

func NewDB(db *sqlx.DB, log *slog.Logger) *Store {
	return &Store{
		db:  db,
		sm:  sqluct.Mapper{Dialect: sqluct.DialectPostgres},
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		log: log,
	}
}

// добавление нового пользователя, пароль приходит уже захешированным
func (p *Store) AddUser(ctx context.Context, username domain.Username, passwordHash string) error {
	const op = "storage.Postgres.AddUser"
	p.log.Debug(op, "username", username)
	query := p.sq.Insert("users").
		Columns("username", "password_hash").
		Values(username, passwordHash)
	qry, args, err := query.ToSql()
	if err != nil {
		p.log.Error(op, "err", err)
		return err
	}
	_, err = p.db.ExecContext(ctx, qry, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			p.log.Debug(op, "msg", "username already taken")
			return domain.ErrUsernameTaken
		}
		p.log.Error(op, "err", err)
		return err
	}
	p.log.Debug(fmt.Sprintf("%v: sucessfully added new user", op))
	return nil
}

// Получение информации по пользователю
func (p *Store) GetUser(ctx context.Context, id domain.UserID) (domain.User, error) {
	const op = "storage.Postgres.GetUser"
	query := p.sm.Select(p.sq.Select(), &user{}).
		From("users").
		Where(sq.Eq{"id": id})
	qry, args, err := query.ToSql()
	if err != nil {
		p.log.Error(op, "err", err)
		return domain.User{}, err
	}
	var usr user
	err = p.db.GetContext(ctx, &usr, qry, args...)
	if errors.Is(err, sql.ErrNoRows) {
		p.log.Debug(op, "msg", "user not found")
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		p.log.Error(op, "err", err)
		return domain.User{}, err
	}
	return userToDomain(usr), nil
}

func (p *Store) GetUserByName(ctx context.Context, username domain.Username) (domain.User, error) {
	const op = "storage.Postgres.GetUserByName"
	query := p.sm.Select(p.sq.Select(), &user{}).
		From("users").
		Where(sq.Eq{"username": username})
	qry, args, err := query.ToSql()
	if err != nil {
		p.log.Error(op, "err", err)
		return domain.User{}, err
	}
	var usr user
	err = p.db.GetContext(ctx, &usr, qry, args...)
	if errors.Is(err, sql.ErrNoRows) {
		p.log.Debug(op, "msg", "user not found")
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		p.log.Error(op, "err", err)
		return domain.User{}, err
	}
	return userToDomain(usr), nil
}

// DeleteUser удаляет пользователя и все его score одной транзакцией,
// либо коммитится всё либо ничего
func (p *Store) DeleteUser(ctx context.Context, id domain.UserID) error {
	const op = "storage.Postgres.DeleteUser"
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		p.log.Error(op, "err", err)
		return err
	}
	defer tx.Rollback() //после коммита откат уже no-op

	qry, args, err := p.sq.Delete("scores").Where(sq.Eq{"user_id": id}).ToSql()
	if err != nil {
		p.log.Error(op, "err", err)
		return err
	}
	if _, err = tx.ExecContext(ctx, qry, args...); err != nil {
		p.log.Error(op, "err", err)
		return err
	}

	qry, args, err = p.sq.Delete("users").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		p.log.Error(op, "err", err)
		return err
	}
	res, err := tx.ExecContext(ctx, qry, args...)
	if err != nil {
		p.log.Error(op, "err", err)
		return err
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		p.log.Error(op, "err", err)
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrUserNotFound
	}

	if err = tx.Commit(); err != nil {
		p.log.Error(op, "err", err)
		return err
	}
	p.log.Debug(fmt.Sprintf("%v: successfully deleted user %v with scores", op, id))
	return nil
}

// добавление score для user по id, created ставит база
func (p *Store) AddScore(ctx context.Context, id domain.UserID, points int64) error {
	const op = "storage.Postgres.AddScore"
	query := p.sq.Insert("scores").
		Columns("user_id", "score").
		Values(id, points)
	qry, args, err := query.ToSql()
	if err != nil {
		p.log.Error(op, "err", err)
		return err
	}
	res, err := p.db.ExecContext(ctx, qry, args...)
	if err != nil {
		p.log.Error(op, "err", err)
		return err
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		p.log.Error(op, "err", err)
		return err
	}
	if rowsAffected == 0 {
		p.log.Error(op, "err", errNoRowsAffected)
		return errNoRowsAffected
	}
	p.log.Debug(fmt.Sprintf("%v: successfully added score (%v) for user (%v)", op, points, id))
	return nil
}

// LastScore - самый свежий score пользователя, нужен для куллдауна
func (p *Store) LastScore(ctx context.Context, id domain.UserID) (domain.Score, error) {
	const op = "storage.Postgres.LastScore"
	query := p.sm.Select(p.sq.Select(), &score{}).
		From("scores").
		Where(sq.Eq{"user_id": id}).
		OrderBy("created DESC").
		Limit(1)
	qry, args, err := query.ToSql()
	if err != nil {
		p.log.Error(op, "err", err)
		return domain.Score{}, err
	}
	var s score
	err = p.db.GetContext(ctx, &s, qry, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Score{}, domain.ErrNoScores
	}
	if err != nil {
		p.log.Error(op, "err", err)
		return domain.Score{}, err
	}
	return scoreToDomain(s), nil
}

// UserScores - score пользователя с никнеймом, сортировка по created или score
func (p *Store) UserScores(ctx context.Context, id domain.UserID, sorter domain.Sorter, limit int) ([]domain.ScoreRow, error) {
	const op = "storage.Postgres.UserScores"
	query := p.sq.Select("users.username", "scores.score", "scores.created").
		From("scores").
		Join("users ON users.id = scores.user_id").
		Where(sq.Eq{"scores.user_id": id})

	//sorter уже провалидирован доменом, но default на всякий случай
	switch sorter {
	case domain.SortByScore:
		query = query.OrderBy("scores.score DESC")
	default:
		query = query.OrderBy("scores.created DESC")
	}
	query = query.Limit(uint64(limit))

	qry, args, err := query.ToSql()
	if err != nil {
		p.log.Error(op, "err", err)
		return nil, err
	}
	var rows []scoreRow
	err = p.db.SelectContext(ctx, &rows, qry, args...)
	if err != nil {
		p.log.Error(op, "err", err)
		return nil, err
	}
	result := make([]domain.ScoreRow, 0, len(rows))
	for _, r := range rows {
		result = append(result, rowToDomain(r))
	}
	return result, nil
}

// TopScores - глобальный топ, сортировка по score, при равенстве по created ASC
// чтоб порядок был детерминированным
func (p *Store) TopScores(ctx context.Context, limit int) ([]domain.ScoreRow, error) {
	const op = "storage.Postgres.TopScores"
	query := p.sq.Select("users.username", "scores.score", "scores.created").
		From("scores").
		Join("users ON users.id = scores.user_id").
		OrderBy("scores.score DESC", "scores.created ASC").
		Limit(uint64(limit))
	qry, args, err := query.ToSql()
	if err != nil {
		p.log.Error(op, "err", err)
		return nil, err
	}
	var rows []scoreRow
	err = p.db.SelectContext(ctx, &rows, qry, args...)
	if err != nil {
		p.log.Error(op, "err", err)
		return nil, err
	}
	result := make([]domain.ScoreRow, 0, len(rows))
	for _, r := range rows {
		result = append(result, rowToDomain(r))
	}
	return result, nil
}
