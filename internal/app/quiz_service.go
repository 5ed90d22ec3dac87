package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"kyoto-kentei/internal/domain"
)

// QuizService drives interactive quiz sessions on top of the use cases.
type QuizService struct {
	sessions  SessionRepository
	questions QuestionRepository
	history   HistoryRepository
	reports   QuestionReportRepository

	startQuiz     *StartQuiz
	answer        AnswerQuestion
	result        *CalculateResult
	report        *ReportQuestion
	listReports   *GetQuestionReports
	summarize     *SummarizeHistory
	weakThreshold int

	now     func() time.Time
	logger  *zap.Logger
	metrics Metrics
}

// Option configures a QuizService.
type Option func(*QuizService)

// WithRandom fixes the source StartQuiz samples from.
func WithRandom(rnd RandomSource) Option {
	return func(s *QuizService) { s.startQuiz.rnd = rnd }
}

// WithClock replaces time.Now for every timestamp the service produces.
func WithClock(now func() time.Time) Option {
	return func(s *QuizService) {
		s.now = now
		s.startQuiz.now = now
		s.result.now = now
		s.report.now = now
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *QuizService) { s.logger = logger }
}

func WithMetrics(m Metrics) Option {
	return func(s *QuizService) { s.metrics = m }
}

// WithWeakThreshold sets the accuracy below which a category is reported as weak.
func WithWeakThreshold(threshold int) Option {
	return func(s *QuizService) { s.weakThreshold = threshold }
}

func NewQuizService(
	sessions SessionRepository,
	questions QuestionRepository,
	history HistoryRepository,
	reports QuestionReportRepository,
	opts ...Option,
) *QuizService {
	s := &QuizService{
		sessions:      sessions,
		questions:     questions,
		history:       history,
		reports:       reports,
		startQuiz:     NewStartQuiz(questions, nil, time.Now),
		result:        NewCalculateResult(time.Now),
		report:        NewReportQuestion(reports, time.Now),
		listReports:   NewGetQuestionReports(reports),
		summarize:     NewSummarizeHistory(history),
		weakThreshold: domain.DefaultWeakThreshold,
		now:           time.Now,
		logger:        zap.NewNop(),
		metrics:       noopMetrics{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start samples a new quiz and opens a session for it.
func (s *QuizService) Start(ctx context.Context, level string, count int) (QuizState, error) {
	quiz, err := s.startQuiz.Execute(ctx, level, count)
	if err != nil {
		return QuizState{}, err
	}
	session := newSession(quiz, s.now)
	s.sessions.Put(session)
	s.metrics.QuizStarted(quiz.Level())
	s.logger.Info("quiz started",
		zap.String("quiz_id", quiz.ID().String()),
		zap.String("level", quiz.Level().String()),
		zap.Int("questions", quiz.TotalQuestions()),
	)
	return session.state(), nil
}

// State returns the current position of a quiz.
func (s *QuizService) State(_ context.Context, quizID string) (QuizState, error) {
	session, err := s.session(quizID)
	if err != nil {
		return QuizState{}, err
	}
	return session.state(), nil
}

// Answer grades index against the current question. Answering again before
// moving on replaces the earlier answer.
func (s *QuizService) Answer(_ context.Context, quizID string, index int) (Feedback, error) {
	session, err := s.session(quizID)
	if err != nil {
		return Feedback{}, err
	}
	return session.applyAnswer(s.answer, index)
}

// Next advances to the following question. Past the last question the
// returned state is completed and carries no question.
func (s *QuizService) Next(_ context.Context, quizID string) (QuizState, error) {
	session, err := s.session(quizID)
	if err != nil {
		return QuizState{}, err
	}
	return session.advance()
}

// Finish scores a completed quiz and appends it to history. Repeated calls
// return the same result without saving it again.
func (s *QuizService) Finish(ctx context.Context, quizID string) (ResultView, error) {
	session, err := s.session(quizID)
	if err != nil {
		return ResultView{}, err
	}

	result, fresh, err := session.finish(s.result)
	if err != nil {
		return ResultView{}, err
	}
	if fresh {
		s.history.Save(ctx, domain.NewResultRecord(result))
		s.metrics.QuizFinished(result.Quiz().Level(), result.Accuracy())
		s.logger.Info("quiz finished",
			zap.String("quiz_id", quizID),
			zap.Int("correct", result.CorrectCount()),
			zap.Int("total", result.TotalQuestions()),
			zap.Int("accuracy", result.Accuracy().Value()),
		)
	}
	return newResultView(result, s.weakThreshold), nil
}

// Abandon drops a session without recording anything.
func (s *QuizService) Abandon(_ context.Context, quizID string) error {
	if _, err := s.session(quizID); err != nil {
		return err
	}
	s.sessions.Delete(domain.QuizID(quizID))
	s.logger.Info("quiz abandoned", zap.String("quiz_id", quizID))
	return nil
}

// Report flags a question. The id must exist in the bank.
func (s *QuizService) Report(ctx context.Context, questionID string) (ReportView, error) {
	id, err := domain.NewQuestionID(questionID)
	if err != nil {
		return ReportView{}, err
	}
	if _, ok, err := s.questions.FindByID(ctx, id); err != nil {
		return ReportView{}, err
	} else if !ok {
		return ReportView{}, domain.ErrQuestionNotFound
	}

	report, err := s.report.Execute(ctx, questionID)
	if err != nil {
		return ReportView{}, err
	}
	s.metrics.QuestionReported()
	s.logger.Info("question reported",
		zap.String("question_id", questionID),
		zap.Int("count", report.ReportCount()),
	)
	return ReportView{
		QuestionID:      report.QuestionID().String(),
		ReportCount:     report.ReportCount(),
		FirstReportedAt: report.FirstReportedAt().UTC().Format(time.RFC3339),
		LastReportedAt:  report.LastReportedAt().UTC().Format(time.RFC3339),
	}, nil
}

func (s *QuizService) Reports(ctx context.Context) []ReportView {
	return s.listReports.Execute(ctx)
}

func (s *QuizService) ClearReports(ctx context.Context) {
	s.reports.Clear(ctx)
}

func (s *QuizService) History(ctx context.Context) []domain.ResultRecord {
	return s.history.FindAll(ctx)
}

func (s *QuizService) Summary(ctx context.Context) domain.HistorySummary {
	return s.summarize.Execute(ctx)
}

func (s *QuizService) ClearHistory(ctx context.Context) {
	s.history.Clear(ctx)
}

func (s *QuizService) session(quizID string) (*Session, error) {
	id, err := domain.ParseQuizID(quizID)
	if err != nil {
		return nil, err
	}
	session, ok := s.sessions.Get(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// Session serializes access to one quiz. The domain Quiz itself is not
// safe for concurrent use.
type Session struct {
	mu        sync.Mutex
	quiz      *domain.Quiz
	result    *domain.QuizResult
	updatedAt time.Time
	now       func() time.Time
}

// NewSession wraps quiz for infrastructure layers that need to seed sessions.
func NewSession(quiz *domain.Quiz) *Session {
	return newSession(quiz, time.Now)
}

// NewSessionWithClock is test-only for deterministic timestamps.
func NewSessionWithClock(quiz *domain.Quiz, now func() time.Time) *Session {
	return newSession(quiz, now)
}

func newSession(quiz *domain.Quiz, now func() time.Time) *Session {
	return &Session{quiz: quiz, updatedAt: now(), now: now}
}

func (s *Session) ID() domain.QuizID { return s.quiz.ID() }

// UpdatedAt is the time of the last state change.
func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

func (s *Session) state() QuizState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return newQuizState(s.quiz)
}

func (s *Session) applyAnswer(uc AnswerQuestion, index int) (Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.quiz.CurrentQuestion()
	if !ok {
		return Feedback{}, domain.ErrQuizCompleted
	}
	outcome, err := uc.Execute(s.quiz, index)
	if err != nil {
		return Feedback{}, err
	}
	s.updatedAt = s.now()
	return Feedback{
		QuestionID:         current.ID().String(),
		SelectedIndex:      index,
		IsCorrect:          outcome.IsCorrect,
		CorrectAnswerIndex: outcome.CorrectAnswerIndex,
		Explanation:        outcome.Explanation,
		IsLastQuestion:     s.quiz.CurrentQuestionIndex() == s.quiz.TotalQuestions()-1,
	}, nil
}

func (s *Session) advance() (QuizState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.quiz.MoveToNextQuestion(); err != nil {
		return QuizState{}, err
	}
	s.updatedAt = s.now()
	return newQuizState(s.quiz), nil
}

// finish reports fresh=true only on the call that produced the result.
func (s *Session) finish(uc *CalculateResult) (domain.QuizResult, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.result != nil {
		return *s.result, false, nil
	}
	result, err := uc.Execute(s.quiz)
	if err != nil {
		return domain.QuizResult{}, false, err
	}
	s.result = &result
	s.updatedAt = s.now()
	return result, true, nil
}
