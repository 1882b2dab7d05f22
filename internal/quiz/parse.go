package quiz

import "strings"

var questionPrefixes = []string{"Q1:", "Q2:", "Q3:", "Q4:", "Q5:"}

// Parse extracts questions from a model reply in the quiz wire format:
//
//	Q1: question text
//	A) option
//	B) option
//	C) option
//	D) option
//	Correct: B
//	Explanation: why
//
// Matching is by line prefix and tolerant: blank and unrecognized lines are
// skipped, incomplete records are dropped, and at most MaxQuestions are kept
// in their original order. Parse never fails; unusable text yields an empty
// slice.
func Parse(text string) []Question {
	var (
		records []Question
		cur     Question
	)

	flush := func() {
		if cur.Text != "" {
			records = append(records, cur)
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case hasAnyPrefix(line, questionPrefixes):
			flush()
			cur = Question{Text: cut(line, ":")}
		case strings.HasPrefix(line, "A)"):
			cur.A = strings.TrimSpace(line[2:])
		case strings.HasPrefix(line, "B)"):
			cur.B = strings.TrimSpace(line[2:])
		case strings.HasPrefix(line, "C)"):
			cur.C = strings.TrimSpace(line[2:])
		case strings.HasPrefix(line, "D)"):
			cur.D = strings.TrimSpace(line[2:])
		case strings.HasPrefix(line, "Correct:"):
			cur.Correct = cut(line, ":")
		case strings.HasPrefix(line, "Explanation:"):
			cur.Explanation = cut(line, ":")
		}
	}
	flush()

	valid := make([]Question, 0, MaxQuestions)
	for _, q := range records {
		if !q.Valid() {
			continue
		}
		valid = append(valid, q)
		if len(valid) == MaxQuestions {
			break
		}
	}
	return valid
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
