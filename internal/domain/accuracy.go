package domain

import "fmt"

// DefaultWeakThreshold is the accuracy below which a category counts as weak.
const DefaultWeakThreshold = 70

// Accuracy is a rounded integer percentage in [0,100].
type Accuracy struct {
	value int
}

// CalculateAccuracy returns round(correct/total*100), rounding halves up.
func CalculateAccuracy(correct, total int) (Accuracy, error) {
	if total <= 0 {
		return Accuracy{}, fmt.Errorf("%w: got %d", ErrNonPositiveTotal, total)
	}
	if correct < 0 || correct > total {
		return Accuracy{}, fmt.Errorf("%w: %d of %d", ErrCorrectCountRange, correct, total)
	}
	// Integer form of floor(correct*100/total + 0.5).
	return Accuracy{value: (correct*200 + total) / (2 * total)}, nil
}

// AccuracyFromPercentage wraps an already computed percentage.
func AccuracyFromPercentage(value int) (Accuracy, error) {
	if value < 0 || value > 100 {
		return Accuracy{}, fmt.Errorf("%w: got %d", ErrAccuracyRange, value)
	}
	return Accuracy{value: value}, nil
}

func (a Accuracy) Value() int { return a.value }

// IsAbove reports a strict greater-than against threshold.
func (a Accuracy) IsAbove(threshold int) bool { return a.value > threshold }

// IsBelow reports a strict less-than against threshold.
func (a Accuracy) IsBelow(threshold int) bool { return a.value < threshold }

func (a Accuracy) String() string { return fmt.Sprintf("%d%%", a.value) }
