package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kyoto-kentei/internal/app"
	"kyoto-kentei/internal/domain"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr := runMiniredis(t)
	store := NewSessionStore(newClient(mr), time.Minute, nil)

	store.Put(app.NewSession(newTestQuiz(t, "quiz-1")))
	assert.True(t, mr.Exists("quiz:session:quiz-1"))
	_, ok := store.Get("quiz-1")
	assert.True(t, ok)

	store.Delete("quiz-1")
	assert.False(t, mr.Exists("quiz:session:quiz-1"))
	_, ok = store.Get("quiz-1")
	assert.False(t, ok)
}

func TestSessionStoreExpiresIdleSessions(t *testing.T) {
	mr := runMiniredis(t)
	store := NewSessionStore(newClient(mr), time.Minute, nil)
	store.Put(app.NewSession(newTestQuiz(t, "quiz-1")))

	mr.FastForward(30 * time.Second)
	_, ok := store.Get("quiz-1")
	require.True(t, ok, "alive within ttl")
	assert.Equal(t, time.Minute, mr.TTL("quiz:session:quiz-1"), "ttl refreshed on read")

	mr.FastForward(2 * time.Minute)
	_, ok = store.Get("quiz-1")
	assert.False(t, ok)
}

func TestSessionStoreWithoutTTL(t *testing.T) {
	mr := runMiniredis(t)
	store := NewSessionStore(newClient(mr), 0, nil)
	store.Put(app.NewSession(newTestQuiz(t, "quiz-1")))

	_, ok := store.Get("quiz-1")
	assert.True(t, ok)
	_, ok = store.Get("quiz-1")
	assert.True(t, ok, "survives repeated reads")
}

func TestSessionStoreSweepDropsExpiredSessions(t *testing.T) {
	mr := runMiniredis(t)
	store := NewSessionStore(newClient(mr), time.Minute, nil)
	for i := 0; i < 100; i++ {
		store.Put(app.NewSession(newTestQuiz(t, fmt.Sprintf("quiz-%d", i))))
	}

	assert.Equal(t, 0, store.Sweep(context.Background()), "live keys are kept")
	assert.Equal(t, 100, store.Len())

	mr.FastForward(time.Hour)
	store.Put(app.NewSession(newTestQuiz(t, "quiz-fresh")))

	assert.Equal(t, 100, store.Sweep(context.Background()))
	assert.Equal(t, 1, store.Len())
	_, ok := store.Get("quiz-fresh")
	assert.True(t, ok)
}

func TestSessionStoreSweepKeepsSessionsDuringOutage(t *testing.T) {
	mr := runMiniredis(t)
	store := NewSessionStore(newClient(mr), time.Minute, nil)
	store.Put(app.NewSession(newTestQuiz(t, "quiz-1")))
	mr.Close()

	assert.Equal(t, 0, store.Sweep(context.Background()))
	assert.Equal(t, 1, store.Len())
}

func newTestQuiz(t *testing.T, id string) *domain.Quiz {
	t.Helper()
	quiz, err := domain.NewQuiz(domain.QuizID(id), domain.Level3, sampleQuestions(t), time.Now())
	require.NoError(t, err)
	return quiz
}
