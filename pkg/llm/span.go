package llm

import (
	"context"
	"strings"
	"unicode"
)

// SpanExtractor is the built-in extractive QA model. It scores
// context sentences by question-keyword overlap and selects the span
// that follows the matched keywords, so a question like "What is the
// capital of France?" over "The capital of France is Paris." yields
// exactly "Paris". Deterministic; no model server involved.
type SpanExtractor struct{}

func NewSpanExtractor() *SpanExtractor {
	return &SpanExtractor{}
}

func (s *SpanExtractor) ExtractSpan(ctx context.Context, question, contextText string) (string, float64, error) {
	if strings.TrimSpace(contextText) == "" {
		return "", 0, nil
	}

	keywords := questionKeywords(question)
	sentences := splitSentences(contextText)
	if len(sentences) == 0 {
		return "", 0, nil
	}
	if len(keywords) == 0 {
		return sentences[0], 0, nil
	}

	phrase := ""
	if len(keywords) > 1 {
		phrase = strings.Join(keywords, " ")
	}

	bestIdx, bestScore := 0, 0
	for i, sentence := range sentences {
		score := scoreSentence(sentence, keywords, phrase)
		if score > bestScore {
			bestIdx, bestScore = i, score
		}
	}

	if bestScore == 0 {
		// Nothing matched; surface the opening sentence with zero
		// confidence and let the caller decide what to do with it.
		return sentences[0], 0, nil
	}

	confidence := float64(bestScore) / float64(len(keywords))
	if confidence > 1 {
		confidence = 1
	}

	return selectSpan(sentences[bestIdx], keywords), confidence, nil
}

// scoreSentence counts distinct question keywords present in the
// sentence, plus a bonus of 2 when the keywords occur as a contiguous
// phrase in question order. The bonus lets a definition sentence beat
// an earlier sentence that merely scatters the same keywords.
func scoreSentence(sentence string, keywords []string, phrase string) int {
	fields := strings.Fields(sentence)
	normalized := make([]string, len(fields))
	present := make(map[string]bool, len(fields))
	for i, word := range fields {
		word = normalizeWord(word)
		normalized[i] = word
		present[word] = true
	}

	score := 0
	for _, keyword := range keywords {
		if present[keyword] {
			score++
		}
	}

	if phrase != "" &&
		strings.Contains(" "+strings.Join(normalized, " ")+" ", " "+phrase+" ") {
		score += 2
	}
	return score
}

// selectSpan picks the contiguous tail of the sentence that follows
// the last matched keyword, skipping a copula and articles. If the
// keywords sit at the end of the sentence the whole sentence is the
// answer.
func selectSpan(sentence string, keywords []string) string {
	keywordSet := make(map[string]bool, len(keywords))
	for _, keyword := range keywords {
		keywordSet[keyword] = true
	}

	words := strings.Fields(sentence)
	lastMatch := -1
	for i, word := range words {
		if keywordSet[normalizeWord(word)] {
			lastMatch = i
		}
	}

	if lastMatch >= 0 && lastMatch < len(words)-1 {
		j := lastMatch + 1
		if j < len(words)-1 && isCopula(normalizeWord(words[j])) {
			j++
		}
		for j < len(words)-1 && isArticle(normalizeWord(words[j])) {
			j++
		}

		span := strings.Join(words[j:], " ")
		span = strings.TrimRight(span, ".,;:!?")
		if span != "" {
			return span
		}
	}

	return strings.TrimRight(strings.TrimSpace(sentence), ".,;:!?")
}

// questionKeywords keeps the content words of the question.
func questionKeywords(question string) []string {
	var keywords []string
	seen := make(map[string]bool)

	for _, word := range strings.Fields(strings.ToLower(question)) {
		word = normalizeWord(word)
		if len(word) <= 2 || isStopword(word) || seen[word] {
			continue
		}
		seen[word] = true
		keywords = append(keywords, word)
	}

	return keywords
}

// splitSentences breaks running text at sentence-ending punctuation
// and newlines.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	flush := func() {
		sentence := strings.TrimSpace(current.String())
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		current.Reset()
	}

	for _, r := range text {
		switch {
		case r == '.' || r == '!' || r == '?' || r == '\n':
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return sentences
}

func normalizeWord(word string) string {
	return strings.TrimFunc(strings.ToLower(word), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func isCopula(word string) bool {
	switch word {
	case "is", "are", "was", "were", "be", "been":
		return true
	}
	return false
}

func isArticle(word string) bool {
	switch word {
	case "a", "an", "the":
		return true
	}
	return false
}

func isStopword(word string) bool {
	switch word {
	case "a", "an", "and", "are", "as", "at", "be", "by", "for",
		"from", "has", "he", "in", "is", "it", "its", "of", "on",
		"that", "the", "to", "was", "were", "will", "with",
		"what", "which", "who", "whom", "whose", "where", "when",
		"why", "how", "does", "do", "did", "can", "could", "this",
		"these", "those", "about", "tell", "list":
		return true
	}
	return false
}
