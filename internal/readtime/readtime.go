// Package readtime estimates how long a post takes to read.
package readtime

import "strings"

// WordsPerMinute is the assumed reading speed used for the estimate.
const WordsPerMinute = 200

// Estimate returns the estimated reading time of body in whole minutes,
// rounded up. Words are counted by splitting on runs of whitespace.
//
// Empty or whitespace-only content yields 0. Post content is validated
// non-empty before reaching this function, so any real post estimates at
// least 1 minute.
func Estimate(body string) int {
	words := len(strings.Fields(body))
	if words == 0 {
		return 0
	}
	return (words + WordsPerMinute - 1) / WordsPerMinute
}
