package domain

// CategoryAccuracy pairs a category with an accuracy percentage.
type CategoryAccuracy struct {
	Category string `json:"category"`
	Accuracy int    `json:"accuracy"`
}

// HistorySummary is the cumulative view over every saved result.
type HistorySummary struct {
	TotalAttempts   int               `json:"totalAttempts"`
	AverageAccuracy int               `json:"averageAccuracy"`
	BestCategory    *CategoryAccuracy `json:"bestCategory,omitempty"`
	WeakestCategory *CategoryAccuracy `json:"weakestCategory,omitempty"`
	AttemptsByLevel map[string]int    `json:"attemptsByLevel"`
}

// SummarizeHistory aggregates records. Category accuracy is pooled over all
// answers in that category, not averaged per attempt. Ties keep the category
// that appeared first.
func SummarizeHistory(records []ResultRecord) HistorySummary {
	summary := HistorySummary{AttemptsByLevel: make(map[string]int)}
	if len(records) == 0 {
		return summary
	}

	type tally struct{ correct, total int }
	order := make([]string, 0)
	tallies := make(map[string]*tally)
	accuracySum := 0
	for _, rec := range records {
		summary.TotalAttempts++
		summary.AttemptsByLevel[rec.Level]++
		accuracySum += rec.Accuracy
		for _, c := range rec.CategoryStatistics {
			t, ok := tallies[c.Category]
			if !ok {
				t = &tally{}
				tallies[c.Category] = t
				order = append(order, c.Category)
			}
			t.correct += c.CorrectCount
			t.total += c.TotalCount
		}
	}
	summary.AverageAccuracy = (accuracySum*2 + summary.TotalAttempts) / (2 * summary.TotalAttempts)

	for _, name := range order {
		t := tallies[name]
		accuracy, err := CalculateAccuracy(t.correct, t.total)
		if err != nil {
			continue
		}
		current := CategoryAccuracy{Category: name, Accuracy: accuracy.Value()}
		if summary.BestCategory == nil || current.Accuracy > summary.BestCategory.Accuracy {
			best := current
			summary.BestCategory = &best
		}
		if summary.WeakestCategory == nil || current.Accuracy < summary.WeakestCategory.Accuracy {
			weakest := current
			summary.WeakestCategory = &weakest
		}
	}
	return summary
}
