package domain

import (
	"sort"
	"time"
)

// QuizResult is the immutable outcome of a completed quiz.
type QuizResult struct {
	quiz        *Quiz
	correct     int
	accuracy    Accuracy
	stats       []CategoryStatistics
	completedAt time.Time
}

// NewQuizResult snapshots a completed quiz together with its category statistics.
func NewQuizResult(quiz *Quiz, stats []CategoryStatistics, completedAt time.Time) (QuizResult, error) {
	if !quiz.IsCompleted() {
		return QuizResult{}, ErrQuizNotCompleted
	}
	correct := quiz.CorrectCount()
	accuracy, err := CalculateAccuracy(correct, quiz.TotalQuestions())
	if err != nil {
		return QuizResult{}, err
	}
	copied := make([]CategoryStatistics, len(stats))
	copy(copied, stats)
	return QuizResult{
		quiz:        quiz,
		correct:     correct,
		accuracy:    accuracy,
		stats:       copied,
		completedAt: completedAt,
	}, nil
}

func (r QuizResult) Quiz() *Quiz            { return r.quiz }
func (r QuizResult) CorrectCount() int      { return r.correct }
func (r QuizResult) TotalQuestions() int    { return r.quiz.TotalQuestions() }
func (r QuizResult) Accuracy() Accuracy     { return r.accuracy }
func (r QuizResult) CompletedAt() time.Time { return r.completedAt }

// CategoryStatistics returns the per-category tallies in first-seen order.
func (r QuizResult) CategoryStatistics() []CategoryStatistics {
	out := make([]CategoryStatistics, len(r.stats))
	copy(out, r.stats)
	return out
}

// WeakCategories returns categories strictly below threshold, weakest first.
// Categories with equal accuracy keep their original order.
func (r QuizResult) WeakCategories(threshold int) []CategoryStatistics {
	weak := make([]CategoryStatistics, 0, len(r.stats))
	for _, s := range r.stats {
		if s.Accuracy().IsBelow(threshold) {
			weak = append(weak, s)
		}
	}
	sort.SliceStable(weak, func(i, j int) bool {
		return weak[i].Accuracy().Value() < weak[j].Accuracy().Value()
	})
	return weak
}

// CategoryRecord is the stored form of CategoryStatistics.
type CategoryRecord struct {
	Category     string `json:"category"`
	CorrectCount int    `json:"correctCount"`
	TotalCount   int    `json:"totalCount"`
	Accuracy     int    `json:"accuracy"`
}

// ResultRecord is the summary of a QuizResult kept in the history store.
type ResultRecord struct {
	QuizID             string           `json:"quizId"`
	Level              string           `json:"level"`
	CorrectCount       int              `json:"correctCount"`
	TotalQuestions     int              `json:"totalQuestions"`
	Accuracy           int              `json:"accuracy"`
	CompletedAt        time.Time        `json:"completedAt"`
	CategoryStatistics []CategoryRecord `json:"categoryStatistics"`
}

// NewResultRecord flattens r into its history form.
func NewResultRecord(r QuizResult) ResultRecord {
	categories := make([]CategoryRecord, 0, len(r.stats))
	for _, s := range r.stats {
		categories = append(categories, CategoryRecord{
			Category:     s.Category().String(),
			CorrectCount: s.CorrectCount(),
			TotalCount:   s.TotalCount(),
			Accuracy:     s.Accuracy().Value(),
		})
	}
	return ResultRecord{
		QuizID:             r.quiz.ID().String(),
		Level:              r.quiz.Level().String(),
		CorrectCount:       r.correct,
		TotalQuestions:     r.TotalQuestions(),
		Accuracy:           r.accuracy.Value(),
		CompletedAt:        r.completedAt.UTC(),
		CategoryStatistics: categories,
	}
}

// Validate checks that a record read back from storage is internally consistent.
func (rec ResultRecord) Validate() error {
	if _, err := ParseQuizID(rec.QuizID); err != nil {
		return err
	}
	if _, err := ParseLevel(rec.Level); err != nil {
		return err
	}
	if _, err := CalculateAccuracy(rec.CorrectCount, rec.TotalQuestions); err != nil {
		return err
	}
	if _, err := AccuracyFromPercentage(rec.Accuracy); err != nil {
		return err
	}
	for _, c := range rec.CategoryStatistics {
		category, err := NewCategory(c.Category)
		if err != nil {
			return err
		}
		if _, err := NewCategoryStatistics(category, c.CorrectCount, c.TotalCount); err != nil {
			return err
		}
	}
	return nil
}

// Statistics rebuilds the category statistics of a stored record.
func (rec ResultRecord) Statistics() ([]CategoryStatistics, error) {
	stats := make([]CategoryStatistics, 0, len(rec.CategoryStatistics))
	for _, c := range rec.CategoryStatistics {
		category, err := NewCategory(c.Category)
		if err != nil {
			return nil, err
		}
		s, err := NewCategoryStatistics(category, c.CorrectCount, c.TotalCount)
		if err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, nil
}
