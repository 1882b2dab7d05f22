package quiz

import (
	"fmt"
	"strings"
)

const blockTemplate = `Q%d: [Question text]
A) [Option A]
B) [Option B]
C) [Option C]
D) [Option D]
Correct: [A/B/C/D]
Explanation: [Brief explanation]`

// BuildPrompt asks the model for exactly MaxQuestions questions on topic in
// the format Parse understands.
func BuildPrompt(topic string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate exactly %d multiple-choice questions about: %s\n\n", MaxQuestions, topic)
	b.WriteString("Format your response EXACTLY as follows (use this exact format):\n")
	for i := 1; i <= MaxQuestions; i++ {
		b.WriteString("\n")
		fmt.Fprintf(&b, blockTemplate, i)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Format renders questions back into the wire format.
func Format(questions []Question) string {
	blocks := make([]string, 0, len(questions))
	for i, q := range questions {
		blocks = append(blocks, fmt.Sprintf(
			"Q%d: %s\nA) %s\nB) %s\nC) %s\nD) %s\nCorrect: %s\nExplanation: %s",
			i+1, q.Text, q.A, q.B, q.C, q.D, q.Correct, q.Explanation,
		))
	}
	return strings.Join(blocks, "\n\n")
}
