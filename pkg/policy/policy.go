// Package policy implements the counter threshold policy that decides when
// a session has made enough tool calls to warrant a context compaction
// suggestion. The policy is a pure function over the current counter state
// so hook handlers stay trivially testable.
package policy

// ShouldSuggest reports whether a suggestion should be emitted for the
// current tool call count. A suggestion fires the first time current
// reaches a threshold greater than lastSuggested. When the count has
// jumped past several thresholds since the last suggestion, the crossings
// collapse into a single event and the highest crossed threshold is
// returned so callers can record it as the new lastSuggested value.
//
// thresholds must be in ascending order. lastSuggested of zero means no
// suggestion has been emitted yet.
func ShouldSuggest(current, lastSuggested int, thresholds []int) (bool, int) {
	crossed := 0
	for _, t := range thresholds {
		if t <= lastSuggested {
			continue
		}
		if current >= t {
			crossed = t
		}
	}
	if crossed == 0 {
		return false, lastSuggested
	}
	return true, crossed
}

// Every builds an ascending threshold ladder with the given interval,
// e.g. Every(50, 20) -> [50, 100, ..., 1000]. A non-positive interval or
// count yields an empty ladder, disabling suggestions.
func Every(interval, count int) []int {
	if interval <= 0 || count <= 0 {
		return nil
	}
	thresholds := make([]int, 0, count)
	for i := 1; i <= count; i++ {
		thresholds = append(thresholds, i*interval)
	}
	return thresholds
}
