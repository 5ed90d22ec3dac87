package domain

import (
	"fmt"
	"time"
)

// QuestionReport counts how many times a question was flagged as defective.
type QuestionReport struct {
	questionID      QuestionID
	count           int
	firstReportedAt time.Time
	lastReportedAt  time.Time
}

// NewQuestionReport records the first flag for id.
func NewQuestionReport(id QuestionID, now time.Time) *QuestionReport {
	return &QuestionReport{
		questionID:      id,
		count:           1,
		firstReportedAt: now,
		lastReportedAt:  now,
	}
}

// RestoreQuestionReport rebuilds a report read from storage.
func RestoreQuestionReport(id QuestionID, count int, first, last time.Time) (*QuestionReport, error) {
	if id == "" {
		return nil, ErrEmptyQuestionID
	}
	if count < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrReportCount, count)
	}
	return &QuestionReport{
		questionID:      id,
		count:           count,
		firstReportedAt: first,
		lastReportedAt:  last,
	}, nil
}

func (r *QuestionReport) QuestionID() QuestionID     { return r.questionID }
func (r *QuestionReport) ReportCount() int           { return r.count }
func (r *QuestionReport) FirstReportedAt() time.Time { return r.firstReportedAt }
func (r *QuestionReport) LastReportedAt() time.Time  { return r.lastReportedAt }

// Increment adds one flag. The last-reported time never moves backwards.
func (r *QuestionReport) Increment(now time.Time) {
	r.count++
	if now.After(r.lastReportedAt) {
		r.lastReportedAt = now
	}
}

// ReportRecord is the stored form of a QuestionReport.
type ReportRecord struct {
	QuestionID      string    `json:"questionId"`
	ReportCount     int       `json:"reportCount"`
	FirstReportedAt time.Time `json:"firstReportedAt"`
	LastReportedAt  time.Time `json:"lastReportedAt"`
}

func NewReportRecord(r *QuestionReport) ReportRecord {
	return ReportRecord{
		QuestionID:      r.questionID.String(),
		ReportCount:     r.count,
		FirstReportedAt: r.firstReportedAt.UTC(),
		LastReportedAt:  r.lastReportedAt.UTC(),
	}
}

// Report rebuilds the entity, rejecting corrupt records.
func (rec ReportRecord) Report() (*QuestionReport, error) {
	id, err := NewQuestionID(rec.QuestionID)
	if err != nil {
		return nil, err
	}
	return RestoreQuestionReport(id, rec.ReportCount, rec.FirstReportedAt, rec.LastReportedAt)
}
