package round

// streakThresholds are the early streak milestones. Past the last one a
// milestone falls on every multiple of five.
var streakThresholds = []int{3, 5, 10, 15, 20}

// NextStreakThreshold returns the next streak milestone above current.
func NextStreakThreshold(current int) int {
	for _, t := range streakThresholds {
		if t > current {
			return t
		}
	}
	return ((current / 5) + 1) * 5
}

// IsStreakMilestone reports whether a streak of n just reached a milestone.
func IsStreakMilestone(n int) bool {
	return n > 0 && NextStreakThreshold(n-1) == n
}
