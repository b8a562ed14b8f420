package text

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSentences(t *testing.T) {
	t.Run("Basic Boundaries", func(t *testing.T) {
		sentences := SplitSentences("Hello world. This is a Test. Another Sentence here.")
		assert.Equal(t, []string{"Hello world.", "This is a Test.", "Another Sentence here."}, sentences)
	})

	t.Run("Exclamation And Question", func(t *testing.T) {
		sentences := SplitSentences("Stop! Why though? Because.")
		assert.Equal(t, []string{"Stop!", "Why though?", "Because."}, sentences)
	})

	t.Run("Abbreviations Not Split", func(t *testing.T) {
		// lowercase after the period means no boundary
		sentences := SplitSentences("Use e.g. this one. Then proceed.")
		assert.Equal(t, []string{"Use e.g. this one.", "Then proceed."}, sentences)
	})

	t.Run("No Terminator", func(t *testing.T) {
		sentences := SplitSentences("no punctuation at all")
		assert.Equal(t, []string{"no punctuation at all"}, sentences)
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Empty(t, SplitSentences(""))
		assert.Empty(t, SplitSentences("   \n\t "))
	})

	t.Run("Newline As Whitespace", func(t *testing.T) {
		sentences := SplitSentences("First line.\nSecond line.")
		assert.Equal(t, []string{"First line.", "Second line."}, sentences)
	})
}

func TestCreateChunks(t *testing.T) {
	t.Run("Empty Input", func(t *testing.T) {
		c := NewChunker(20, 5)
		assert.Empty(t, c.CreateChunks(""))
	})

	t.Run("Reference Input", func(t *testing.T) {
		// "Hello world." (12), "This is a Test." (15), "Another Sentence here." (22)
		// budget 20, overlap 5: every sentence closes the previous chunk and
		// none fits the 5-char overlap, so three disjoint single-sentence chunks.
		c := NewChunker(20, 5)
		chunks := c.CreateChunks("Hello world. This is a Test. Another Sentence here.")
		assert.Len(t, chunks, 3)
		assert.Equal(t, "Hello world.", chunks[0].Content)
		assert.Equal(t, "This is a Test.", chunks[1].Content)
		assert.Equal(t, "Another Sentence here.", chunks[2].Content)
		for _, ch := range chunks {
			assert.Equal(t, len(ch.Content), ch.Size)
			assert.Equal(t, 1, ch.SentenceCount)
		}
	})

	t.Run("Overlap Seeding", func(t *testing.T) {
		// Three 6-char sentences, budget 14, overlap 7:
		// chunk 1 holds the first two, chunk 2 is seeded with the second.
		c := NewChunker(14, 7)
		chunks := c.CreateChunks("Aa bb. Cc dd. Ee ff.")
		assert.Len(t, chunks, 2)
		assert.Equal(t, "Aa bb. Cc dd.", chunks[0].Content)
		assert.Equal(t, 2, chunks[0].SentenceCount)
		assert.Equal(t, "Cc dd. Ee ff.", chunks[1].Content)
		assert.Equal(t, 2, chunks[1].SentenceCount)
	})

	t.Run("Zero Overlap Disjoint", func(t *testing.T) {
		c := NewChunker(14, 0)
		chunks := c.CreateChunks("Aa bb. Cc dd. Ee ff.")
		assert.Len(t, chunks, 2)
		assert.Equal(t, "Aa bb. Cc dd.", chunks[0].Content)
		assert.Equal(t, "Ee ff.", chunks[1].Content)
	})

	t.Run("Oversized Sentence Kept Whole", func(t *testing.T) {
		long := "This single sentence is far longer than the tiny budget allows."
		c := NewChunker(10, 0)
		chunks := c.CreateChunks(long + " Ok done.")
		assert.Len(t, chunks, 2)
		assert.Equal(t, long, chunks[0].Content)
		assert.Equal(t, "Ok done.", chunks[1].Content)
	})

	t.Run("Sentences Never Split", func(t *testing.T) {
		input := "One two three. Four five six. Seven eight nine. Ten eleven twelve. The End arrives."
		sentences := SplitSentences(input)
		c := NewChunker(35, 16)
		chunks := c.CreateChunks(input)
		assert.NotEmpty(t, chunks)
		joined := strings.Join(sentences, " ")
		for _, ch := range chunks {
			// every chunk is a space-join of whole input sentences
			assert.Contains(t, joined, ch.Content)
		}
	})

	t.Run("Overlap Prefix Property", func(t *testing.T) {
		input := "Aa bb. Cc dd. Ee ff. Gg hh. Ii jj. Kk ll."
		c := NewChunker(20, 7)
		chunks := c.CreateChunks(input)
		assert.Greater(t, len(chunks), 1)
		for i := 1; i < len(chunks); i++ {
			prev := strings.Split(chunks[i-1].Content, " ")
			// last sentence of the previous chunk ("Xx yy.") fits the 7-char
			// overlap, so the next chunk must start with it
			lastSentence := strings.Join(prev[len(prev)-2:], " ")
			assert.True(t, strings.HasPrefix(chunks[i].Content, lastSentence),
				"chunk %d %q should start with %q", i, chunks[i].Content, lastSentence)
		}
	})

	t.Run("Budget Respected", func(t *testing.T) {
		input := "Aa bb. Cc dd. Ee ff. Gg hh. Ii jj. Kk ll. Mm nn. Oo pp."
		c := NewChunker(25, 6)
		for _, ch := range c.CreateChunks(input) {
			// the greedy check bounds the sum of sentence lengths; joining
			// adds one space between sentences
			assert.LessOrEqual(t, ch.Size, 25+ch.SentenceCount-1)
		}
	})
}

func TestCleanMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Heading", "# Title\nBody text.", "Title Body text."},
		{"Link Keeps Text", "See [the docs](https://example.com) here.", "See the docs here."},
		{"Image Removed", "Before ![alt](img.png) after.", "Before after."},
		{"Inline Code", "Run `go build` now.", "Run go build now."},
		{"Emphasis", "This is **bold** and _italic_.", "This is bold and italic."},
		{"Code Fence", "Intro.\n```go\nfunc main() {}\n```\nOutro.", "Intro. func main() {} Outro."},
		{"List Markers", "- one\n- two\n", "one two"},
		{"HTML Tags", "Hello <b>world</b>.", "Hello world."},
		{"Whitespace Collapse", "a \n\n  b\tc", "a b c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanMarkdown(tt.in))
		})
	}
}
