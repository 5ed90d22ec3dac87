package domain

import "fmt"

// CategoryStatistics is the correct/total tally for one category.
type CategoryStatistics struct {
	category Category
	correct  int
	total    int
	accuracy Accuracy
}

// NewCategoryStatistics validates the tally and derives its accuracy.
func NewCategoryStatistics(category Category, correct, total int) (CategoryStatistics, error) {
	accuracy, err := CalculateAccuracy(correct, total)
	if err != nil {
		return CategoryStatistics{}, fmt.Errorf("category %q: %w", category, err)
	}
	return CategoryStatistics{
		category: category,
		correct:  correct,
		total:    total,
		accuracy: accuracy,
	}, nil
}

func (s CategoryStatistics) Category() Category { return s.category }
func (s CategoryStatistics) CorrectCount() int  { return s.correct }
func (s CategoryStatistics) TotalCount() int    { return s.total }
func (s CategoryStatistics) Accuracy() Accuracy { return s.accuracy }

// ScoreCategories tallies a quiz per category in first-seen order.
// Unanswered questions count as incorrect; the quiz does not need to be completed.
func ScoreCategories(quiz *Quiz) []CategoryStatistics {
	type tally struct{ correct, total int }

	order := make([]Category, 0)
	tallies := make(map[Category]*tally)
	for _, question := range quiz.questions {
		t, ok := tallies[question.Category()]
		if !ok {
			t = &tally{}
			tallies[question.Category()] = t
			order = append(order, question.Category())
		}
		t.total++
		if answer, ok := quiz.Answer(question.ID()); ok && question.IsCorrectAnswer(answer) {
			t.correct++
		}
	}

	stats := make([]CategoryStatistics, 0, len(order))
	for _, category := range order {
		t := tallies[category]
		// total >= 1 and correct <= total by construction.
		accuracy, _ := CalculateAccuracy(t.correct, t.total)
		stats = append(stats, CategoryStatistics{
			category: category,
			correct:  t.correct,
			total:    t.total,
			accuracy: accuracy,
		})
	}
	return stats
}
