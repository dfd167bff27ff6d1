package ingest

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	sentenceRe   = regexp.MustCompile(`[^.!?]+[.!?]+`)
)

// splitSentences normalises whitespace and splits on terminal punctuation.
// A trailing fragment without terminal punctuation is kept as a sentence.
func splitSentences(text string) []string {
	text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
	if text == "" {
		return nil
	}

	matches := sentenceRe.FindAllStringIndex(text, -1)
	var sentences []string
	last := 0
	for _, m := range matches {
		s := strings.TrimSpace(text[m[0]:m[1]])
		if s != "" {
			sentences = append(sentences, s)
		}
		last = m[1]
	}
	if tail := strings.TrimSpace(text[last:]); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

// chunkText packs sentences greedily into chunks of at most maxSize
// characters. Consecutive chunks share trailing sentences worth roughly
// overlap characters so context survives chunk boundaries. A single
// sentence longer than maxSize is emitted whole.
func chunkText(text string, maxSize, overlap int) []string {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []string
	i := 0
	for i < len(sentences) {
		size := 0
		j := i
		for j < len(sentences) {
			sLen := len(sentences[j])
			if j > i {
				sLen++ // joining space
			}
			if size+sLen > maxSize && j > i {
				break
			}
			size += sLen
			j++
		}
		chunks = append(chunks, strings.Join(sentences[i:j], " "))
		if j >= len(sentences) {
			break
		}

		// Walk back from the emission boundary until the shared tail
		// would exceed the overlap budget. The next chunk always starts
		// at least one sentence past the current start.
		next := j
		overlapSize := 0
		for next > i+1 {
			prevLen := len(sentences[next-1]) + 1
			if overlapSize+prevLen > overlap {
				break
			}
			overlapSize += prevLen
			next--
		}
		i = next
	}
	return chunks
}
