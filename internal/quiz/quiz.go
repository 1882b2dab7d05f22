// Package quiz turns the model's plain-text quiz replies into question
// records and grades answers against them.
package quiz

import "strings"

// MaxQuestions is the most questions a parsed quiz may hold.
const MaxQuestions = 5

// Question is one multiple-choice question. Correct holds whatever followed
// "Correct:" in the model's reply, normally a single letter A-D.
type Question struct {
	Text        string
	A           string
	B           string
	C           string
	D           string
	Correct     string
	Explanation string
}

// Valid reports whether every field is populated.
func (q Question) Valid() bool {
	return q.Text != "" && q.A != "" && q.B != "" && q.C != "" && q.D != "" &&
		q.Correct != "" && q.Explanation != ""
}

// Options returns the four options labelled the way they are presented,
// e.g. "A) Paris". An answer's first character is its letter.
func Options(q Question) []string {
	return []string{
		"A) " + q.A,
		"B) " + q.B,
		"C) " + q.C,
		"D) " + q.D,
	}
}

// Score counts answers whose first character equals the question's Correct
// value. answers is keyed by question index; missing entries are wrong.
func Score(questions []Question, answers map[int]string) int {
	score := 0
	for i, q := range questions {
		if IsCorrect(q, answers[i]) {
			score++
		}
	}
	return score
}

// IsCorrect reports whether a selected option answers q.
func IsCorrect(q Question, answer string) bool {
	if answer == "" {
		return false
	}
	return answer[:1] == q.Correct
}

// Verdict returns the banner shown under the final score.
func Verdict(score, total int) string {
	switch {
	case total > 0 && score == total:
		return "Perfect score! Excellent work!"
	case score >= 3:
		return "Good job! Keep practicing!"
	default:
		return "Keep studying and try again!"
	}
}

// cut returns the text after the first occurrence of sep, trimmed.
func cut(line, sep string) string {
	_, after, _ := strings.Cut(line, sep)
	return strings.TrimSpace(after)
}
