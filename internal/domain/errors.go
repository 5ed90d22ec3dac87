package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every concrete error below wraps exactly one of these, so callers
// can branch with errors.Is(err, domain.ErrValidation) and friends.
var (
	// ErrValidation is raised when a value fails construction-time checks.
	ErrValidation = errors.New("validation error")
	// ErrState is raised when an operation is not allowed in the current quiz state.
	ErrState = errors.New("state error")
	// ErrNotFound marks lookup misses that callers chose to surface as errors.
	ErrNotFound = errors.New("not found")
	// ErrIO marks failures of external collaborators such as the question bank.
	ErrIO = errors.New("io error")
)

var (
	ErrInvalidLevel         = fmt.Errorf("%w: invalid level", ErrValidation)
	ErrEmptyCategory        = fmt.Errorf("%w: category cannot be empty", ErrValidation)
	ErrEmptyQuestionID      = fmt.Errorf("%w: question id cannot be empty", ErrValidation)
	ErrEmptyQuizID          = fmt.Errorf("%w: quiz id cannot be empty", ErrValidation)
	ErrEmptyQuestionText    = fmt.Errorf("%w: question text cannot be empty", ErrValidation)
	ErrOptionCount          = fmt.Errorf("%w: options must have exactly %d choices", ErrValidation, OptionCount)
	ErrCorrectIndexRange    = fmt.Errorf("%w: correct answer index must be between 0 and %d", ErrValidation, OptionCount-1)
	ErrAnswerIndexRange     = fmt.Errorf("%w: answer index must be between 0 and %d", ErrValidation, OptionCount-1)
	ErrAccuracyRange        = fmt.Errorf("%w: accuracy must be between 0 and 100", ErrValidation)
	ErrNonPositiveTotal     = fmt.Errorf("%w: total must be greater than zero", ErrValidation)
	ErrCorrectCountRange    = fmt.Errorf("%w: correct count must be between 0 and total", ErrValidation)
	ErrReportCount          = fmt.Errorf("%w: report count must be at least 1", ErrValidation)
	ErrNoQuestions          = fmt.Errorf("%w: quiz must have at least one question", ErrValidation)
	ErrInvalidQuestionCount = fmt.Errorf("%w: question count must be at least 1", ErrValidation)
	ErrDuplicateQuestionID  = fmt.Errorf("%w: duplicate question id", ErrValidation)
)

var (
	ErrQuizCompleted         = fmt.Errorf("%w: quiz is already completed", ErrState)
	ErrNoMoreQuestions       = fmt.Errorf("%w: no more questions", ErrState)
	ErrQuizNotCompleted      = fmt.Errorf("%w: quiz is not completed yet", ErrState)
	ErrInsufficientQuestions = fmt.Errorf("%w: not enough questions available", ErrState)
)

var (
	// ErrSessionNotFound is returned when no live quiz session exists for an id.
	ErrSessionNotFound = fmt.Errorf("%w: quiz session", ErrNotFound)
	// ErrQuestionNotFound is returned when a question id is unknown to the bank.
	ErrQuestionNotFound = fmt.Errorf("%w: question", ErrNotFound)
)

// ErrQuestionBankLoad indicates the question bank could not be fetched or decoded.
var ErrQuestionBankLoad = fmt.Errorf("%w: failed to load questions", ErrIO)
