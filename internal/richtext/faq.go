package richtext

import (
	"regexp"
	"strings"
)

var (
	questionPrefix = regexp.MustCompile(`^Q:\s*`)
	answerPrefix   = regexp.MustCompile(`^A:\s*`)
)

// QA is one question and answer pair. Answer may contain HTML.
type QA struct {
	Question string
	Answer   string
}

// ParseFAQ reads the "Q: ...|A: ..." one-pair-per-line format. Lines without
// a pipe are dropped. Each line is split on its first pipe only.
func ParseFAQ(text string) []QA {
	pairs := []QA{}
	for _, line := range strings.Split(text, "\n") {
		question, answer, ok := strings.Cut(line, "|")
		if !ok {
			continue
		}
		pairs = append(pairs, QA{
			Question: strings.TrimSpace(questionPrefix.ReplaceAllString(question, "")),
			Answer:   strings.TrimSpace(answerPrefix.ReplaceAllString(answer, "")),
		})
	}
	return pairs
}
