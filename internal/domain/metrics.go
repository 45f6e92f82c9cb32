package domain

import (
	"strings"
	"unicode/utf8"
)

const (
	// reviewWordsPerMinute is the reading rate used for review reading time.
	reviewWordsPerMinute = 200
	// minReviewReadingMinutes is the floor for review reading time.
	minReviewReadingMinutes = 1
	// minReplyReadingSeconds is the floor for reply reading time.
	minReplyReadingSeconds = 5
)

// ContentMetrics holds the counters derived from a text body.
type ContentMetrics struct {
	WordCount      int
	CharacterCount int
}

// MeasureContent counts whitespace-delimited words and characters (runes).
func MeasureContent(text string) ContentMetrics {
	return ContentMetrics{
		WordCount:      len(strings.Fields(text)),
		CharacterCount: utf8.RuneCountInString(text),
	}
}

// ReviewReadingMinutes returns words/200 rounded down, never less than 1.
func ReviewReadingMinutes(wordCount int) int {
	return max(minReviewReadingMinutes, wordCount/reviewWordsPerMinute)
}

// ReplyReadingSeconds returns words*60/200 rounded down, never less than 5.
func ReplyReadingSeconds(wordCount int) int {
	return max(minReplyReadingSeconds, wordCount*60/reviewWordsPerMinute)
}

// runeLen returns the character length of s.
func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// truncateRunes cuts s to n characters, appending suffix only when cut.
func truncateRunes(s string, n int, suffix string) string {
	if runeLen(s) <= n {
		return s
	}

	return string([]rune(s)[:n]) + suffix
}
