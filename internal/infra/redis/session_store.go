package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"kyoto-kentei/internal/app"
	"kyoto-kentei/internal/domain"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Sessions themselves stay in process memory; Redis carries a liveness key
// per quiz that expires after ttl of inactivity, so other tooling can see
// which quizzes are in flight.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger

	mu       sync.RWMutex
	sessions map[domain.QuizID]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration, logger *zap.Logger) *SessionStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		logger:   logger,
		sessions: make(map[domain.QuizID]*app.Session),
	}
}

func (s *SessionStore) Put(session *app.Session) {
	s.mu.Lock()
	s.sessions[session.ID()] = session
	s.mu.Unlock()

	// best-effort liveness marker
	if err := s.client.Set(context.Background(), s.key(session.ID()), session.UpdatedAt().Unix(), s.ttl).Err(); err != nil {
		s.logger.Warn("mark session live", zap.String("quiz_id", session.ID().String()), zap.Error(err))
	}
}

// Get returns the local session. A session whose liveness key has expired is
// treated as gone and dropped.
func (s *SessionStore) Get(id domain.QuizID) (*app.Session, bool) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	alive, err := s.touch(context.Background(), id)
	if err != nil {
		// Redis is only a marker; keep serving the local session.
		s.logger.Warn("refresh session liveness", zap.String("quiz_id", id.String()), zap.Error(err))
		return session, true
	}
	if !alive {
		s.Delete(id)
		return nil, false
	}
	return session, true
}

func (s *SessionStore) Delete(id domain.QuizID) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	if err := s.client.Del(context.Background(), s.key(id)).Err(); err != nil {
		s.logger.Warn("clear session liveness", zap.String("quiz_id", id.String()), zap.Error(err))
	}
}

// Len returns the number of sessions held in process.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep drops local sessions whose liveness key has expired and returns how
// many were removed. Sessions are kept when Redis cannot be reached.
func (s *SessionStore) Sweep(ctx context.Context) int {
	s.mu.RLock()
	ids := make([]domain.QuizID, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	removed := 0
	for _, id := range ids {
		n, err := s.client.Exists(ctx, s.key(id)).Result()
		if err != nil {
			s.logger.Warn("sweep sessions", zap.Error(err))
			return removed
		}
		if n == 1 {
			continue
		}
		s.mu.Lock()
		if _, ok := s.sessions[id]; ok {
			delete(s.sessions, id)
			removed++
		}
		s.mu.Unlock()
	}
	return removed
}

// touch extends the liveness key and reports whether it still existed.
func (s *SessionStore) touch(ctx context.Context, id domain.QuizID) (bool, error) {
	if s.ttl <= 0 {
		n, err := s.client.Exists(ctx, s.key(id)).Result()
		return n == 1, err
	}
	return s.client.Expire(ctx, s.key(id), s.ttl).Result()
}

func (s *SessionStore) key(id domain.QuizID) string {
	return "quiz:session:" + id.String()
}
