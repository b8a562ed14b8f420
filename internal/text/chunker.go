package text

import (
	"regexp"
	"strings"
)

// Chunk is a bounded-size span of source text assembled from whole sentences.
type Chunk struct {
	Content       string
	Size          int
	SentenceCount int
}

// Chunker splits plain text into overlapping, sentence-aligned chunks.
// Sizes are measured in raw characters, not tokens.
type Chunker struct {
	chunkSize    int
	chunkOverlap int
}

func NewChunker(chunkSize, chunkOverlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = 512
	}
	if chunkOverlap < 0 {
		chunkOverlap = 0
	}
	return &Chunker{chunkSize: chunkSize, chunkOverlap: chunkOverlap}
}

// SplitSentences splits text at sentence boundaries. A boundary is a '.',
// '!' or '?' followed by whitespace and an uppercase letter starting the
// next sentence. This is a heuristic, not a grammatical parser: it
// under-splits abbreviations ("e.g. Foo") and over-splits multi-sentence
// quotations.
func SplitSentences(text string) []string {
	var sentences []string
	start := 0
	i := 0
	for i < len(text) {
		c := text[i]
		if c == '.' || c == '!' || c == '?' {
			j := i + 1
			for j < len(text) && isSpace(text[j]) {
				j++
			}
			if j > i+1 && j < len(text) && text[j] >= 'A' && text[j] <= 'Z' {
				if s := strings.TrimSpace(text[start : i+1]); s != "" {
					sentences = append(sentences, s)
				}
				start = j
				i = j
				continue
			}
		}
		i++
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// CreateChunks greedily packs sentences into chunks bounded by the size
// budget, seeding each new chunk with the trailing sentences of the previous
// one that fit within the overlap budget. A single sentence longer than the
// budget is never split; it forms its own chunk.
func (c *Chunker) CreateChunks(text string) []Chunk {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []Chunk
	var current []string
	currentSize := 0

	for _, sentence := range sentences {
		sentenceSize := len(sentence)

		if currentSize+sentenceSize > c.chunkSize && len(current) > 0 {
			chunks = append(chunks, newChunk(current))

			// Seed the next chunk: walk backward through the closed
			// chunk collecting sentences that fit the overlap budget.
			overlapSize := 0
			var overlap []string
			for i := len(current) - 1; i >= 0; i-- {
				s := current[i]
				if overlapSize+len(s) > c.chunkOverlap {
					break
				}
				overlap = append([]string{s}, overlap...)
				overlapSize += len(s)
			}
			current = overlap
			currentSize = overlapSize
		}

		current = append(current, sentence)
		currentSize += sentenceSize
	}

	if len(current) > 0 {
		chunks = append(chunks, newChunk(current))
	}

	return chunks
}

func newChunk(sentences []string) Chunk {
	content := strings.Join(sentences, " ")
	return Chunk{
		Content:       content,
		Size:          len(content),
		SentenceCount: len(sentences),
	}
}

var (
	fenceRe      = regexp.MustCompile("(?s)```[a-zA-Z0-9_]*[[:space:]]*\\n(.*?)\\n[[:space:]]*```")
	inlineCodeRe = regexp.MustCompile("`([^`]*)`")
	imageRe      = regexp.MustCompile(`!\[[^\]]*\]\([^\)]*\)`)
	linkRe       = regexp.MustCompile(`\[([^\]]*)\]\([^\)]*\)`)
	headingRe    = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	emphasisRe   = regexp.MustCompile(`(\*{1,3}|_{1,3})([^*_]+)(\*{1,3}|_{1,3})`)
	listRe       = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	htmlTagRe    = regexp.MustCompile(`<[^<>]+>`)
	spaceRe      = regexp.MustCompile(`\s+`)
)

// CleanMarkdown reduces markdown to plain prose before chunking: code fence
// markers, inline formatting, link targets, headings and HTML tags are
// stripped and whitespace is collapsed to single spaces.
func CleanMarkdown(text string) string {
	text = fenceRe.ReplaceAllString(text, "$1")
	text = imageRe.ReplaceAllString(text, "")
	text = linkRe.ReplaceAllString(text, "$1")
	text = inlineCodeRe.ReplaceAllString(text, "$1")
	text = headingRe.ReplaceAllString(text, "")
	text = emphasisRe.ReplaceAllString(text, "$2")
	text = listRe.ReplaceAllString(text, "")
	text = htmlTagRe.ReplaceAllString(text, "")
	return strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
}
