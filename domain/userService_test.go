package domain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

// fakeStore - минимальный стор в памяти для тестов сервиса
type fakeStore struct {
	users    map[Username]User
	nextID   UserID
	scores   []Score
	failWith error
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[Username]User{}, nextID: 1}
}

func (f *fakeStore) AddUser(_ context.Context, username Username, passwordHash string) error {
	if f.failWith != nil {
		return f.failWith
	}
	if _, ok := f.users[username]; ok {
		return ErrUsernameTaken
	}
	f.users[username] = User{ID: f.nextID, Username: username, PasswordHash: passwordHash}
	f.nextID++
	return nil
}

func (f *fakeStore) GetUser(_ context.Context, id UserID) (User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (f *fakeStore) GetUserByName(_ context.Context, username Username) (User, error) {
	u, ok := f.users[username]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (f *fakeStore) DeleteUser(_ context.Context, id UserID) error {
	for name, u := range f.users {
		if u.ID == id {
			delete(f.users, name)
			f.dropScores(id)
			return nil
		}
	}
	return ErrUserNotFound
}

func (f *fakeStore) dropScores(id UserID) {
	kept := f.scores[:0]
	for _, s := range f.scores {
		if s.UserID != id {
			kept = append(kept, s)
		}
	}
	f.scores = kept
}

func (f *fakeStore) AddScore(_ context.Context, id UserID, points int64) error {
	f.scores = append(f.scores, Score{ID: int64(len(f.scores) + 1), UserID: id, Score: points})
	return nil
}

func (f *fakeStore) LastScore(_ context.Context, id UserID) (Score, error) {
	var last *Score
	for i := range f.scores {
		s := &f.scores[i]
		if s.UserID != id {
			continue
		}
		if last == nil || s.Created.After(last.Created) {
			last = s
		}
	}
	if last == nil {
		return Score{}, ErrNoScores
	}
	return *last, nil
}

func (f *fakeStore) UserScores(_ context.Context, id UserID, _ Sorter, limit int) ([]ScoreRow, error) {
	var rows []ScoreRow
	for _, s := range f.scores {
		if s.UserID == id && len(rows) < limit {
			rows = append(rows, ScoreRow{Score: s.Score, Created: s.Created})
		}
	}
	return rows, nil
}

func (f *fakeStore) TopScores(_ context.Context, limit int) ([]ScoreRow, error) {
	var rows []ScoreRow
	for _, s := range f.scores {
		if len(rows) < limit {
			rows = append(rows, ScoreRow{Score: s.Score, Created: s.Created})
		}
	}
	return rows, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	srv := NewUserService(store, testLogger(), &testClock{now: time.Now()})

	require.NoError(t, srv.Register(ctx, "alice", "hash"))

	//повторная регистрация того же ника
	err := srv.Register(ctx, "alice", "otherhash")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	//ошибка стора не маскируется под "занято"
	store.failWith = errors.New("connection reset")
	err = srv.Register(ctx, "bob", "hash")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUsernameTaken)
}

func TestSubmitScore_Cooldown(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	cl := &testClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	srv := NewUserService(store, testLogger(), cl)

	require.NoError(t, store.AddUser(ctx, "alice", "hash"))
	user, err := store.GetUserByName(ctx, "alice")
	require.NoError(t, err)

	//первый score проходит
	require.NoError(t, srv.SubmitScore(ctx, user.ID, 100))
	store.scores[0].Created = cl.now

	//второй через 59 секунд - куллдаун
	cl.now = cl.now.Add(59 * time.Second)
	err = srv.SubmitScore(ctx, user.ID, 120)
	assert.ErrorIs(t, err, ErrScoreCooldown)

	//ровно через минуту снова можно
	cl.now = cl.now.Add(time.Second)
	require.NoError(t, srv.SubmitScore(ctx, user.ID, 120))
}

func TestSubmitScore_CooldownPerUser(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	cl := &testClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	srv := NewUserService(store, testLogger(), cl)

	require.NoError(t, store.AddUser(ctx, "alice", "hash"))
	require.NoError(t, store.AddUser(ctx, "bob", "hash"))
	alice, _ := store.GetUserByName(ctx, "alice")
	bob, _ := store.GetUserByName(ctx, "bob")

	require.NoError(t, srv.SubmitScore(ctx, alice.ID, 100))
	store.scores[0].Created = cl.now

	//куллдаун алисы не мешает бобу
	require.NoError(t, srv.SubmitScore(ctx, bob.ID, 50))
}

func TestDeleteProfile(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	srv := NewUserService(store, testLogger(), &testClock{now: time.Now()})

	require.NoError(t, store.AddUser(ctx, "alice", "hash"))
	alice, _ := store.GetUserByName(ctx, "alice")
	require.NoError(t, store.AddScore(ctx, alice.ID, 10))

	require.NoError(t, srv.DeleteProfile(ctx, alice.ID))
	_, err := store.GetUserByName(ctx, "alice")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Empty(t, store.scores)

	//повторное удаление - юзера уже нет
	err = srv.DeleteProfile(ctx, alice.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
