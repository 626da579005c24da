package rag

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Chunk is a piece of text with its position and size within the cleaned
// page content it came from.
type Chunk struct {
	// Text contains the actual content of the chunk
	Text string
	// TokenSize is the number of tokens in this chunk
	TokenSize int
	// StartSentence is the index of the first sentence in this chunk
	StartSentence int
	// EndSentence is the index of the last sentence in this chunk (exclusive)
	EndSentence int
}

// Chunker splits text into chunks according to the implementation's strategy.
type Chunker interface {
	Chunk(text string) []Chunk
}

// TokenCounter counts tokens in a string. The word-based default is what the
// crawler's word counts use; the tiktoken counter matches LLM tokenization.
type TokenCounter interface {
	Count(text string) int
}

// TextChunker splits text into overlapping chunks while preserving sentence
// boundaries.
type TextChunker struct {
	// ChunkSize is the target size of each chunk in tokens
	ChunkSize int
	// ChunkOverlap is the number of tokens shared between adjacent chunks
	ChunkOverlap int
	// TokenCounter counts tokens in text segments
	TokenCounter TokenCounter
	// SentenceSplitter splits text into sentences
	SentenceSplitter func(string) []string
}

// TextChunkerOption configures a TextChunker.
type TextChunkerOption func(*TextChunker)

// WithChunkSize sets the target chunk size in tokens.
func WithChunkSize(size int) TextChunkerOption {
	return func(tc *TextChunker) {
		tc.ChunkSize = size
	}
}

// WithChunkOverlap sets the token overlap between adjacent chunks.
func WithChunkOverlap(overlap int) TextChunkerOption {
	return func(tc *TextChunker) {
		tc.ChunkOverlap = overlap
	}
}

// WithTokenCounter sets the token counting strategy.
func WithTokenCounter(counter TokenCounter) TextChunkerOption {
	return func(tc *TextChunker) {
		tc.TokenCounter = counter
	}
}

// WithSentenceSplitter sets the sentence splitting function.
func WithSentenceSplitter(splitter func(string) []string) TextChunkerOption {
	return func(tc *TextChunker) {
		tc.SentenceSplitter = splitter
	}
}

// NewTextChunker creates a TextChunker. Defaults: 200 token chunks with 50
// token overlap, word-based token counting, punctuation sentence splitting.
func NewTextChunker(options ...TextChunkerOption) (*TextChunker, error) {
	tc := &TextChunker{
		ChunkSize:        200,
		ChunkOverlap:     50,
		TokenCounter:     &WordTokenCounter{},
		SentenceSplitter: DefaultSentenceSplitter,
	}
	for _, option := range options {
		option(tc)
	}
	if tc.ChunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", tc.ChunkSize)
	}
	if tc.ChunkOverlap < 0 || tc.ChunkOverlap >= tc.ChunkSize {
		return nil, fmt.Errorf("chunk overlap must be in [0, %d), got %d", tc.ChunkSize, tc.ChunkOverlap)
	}
	return tc, nil
}

// Chunk splits the input text into chunks:
//  1. Split the text into sentences
//  2. Add sentences until the chunk size limit is reached
//  3. Start the next chunk with the tail sentences of the previous one so
//     adjacent chunks share roughly ChunkOverlap tokens
func (tc *TextChunker) Chunk(text string) []Chunk {
	sentences := tc.SentenceSplitter(text)
	var chunks []Chunk
	var currentChunk Chunk
	currentTokenCount := 0

	for i, sentence := range sentences {
		sentenceTokenCount := tc.TokenCounter.Count(sentence)

		if currentTokenCount+sentenceTokenCount > tc.ChunkSize && currentTokenCount > 0 {
			chunks = append(chunks, currentChunk)

			overlapStart := max(currentChunk.StartSentence, currentChunk.EndSentence-tc.overlapSentences(sentences, currentChunk.EndSentence))
			currentChunk = Chunk{
				Text:          strings.Join(sentences[overlapStart:i+1], " "),
				StartSentence: overlapStart,
				EndSentence:   i + 1,
			}
			currentTokenCount = 0
			for j := overlapStart; j <= i; j++ {
				currentTokenCount += tc.TokenCounter.Count(sentences[j])
			}
		} else {
			if currentTokenCount == 0 {
				currentChunk.StartSentence = i
			}
			currentChunk.Text += sentence + " "
			currentChunk.EndSentence = i + 1
			currentTokenCount += sentenceTokenCount
		}
		currentChunk.TokenSize = currentTokenCount
	}

	if currentChunk.TokenSize > 0 {
		currentChunk.Text = strings.TrimSpace(currentChunk.Text)
		chunks = append(chunks, currentChunk)
	}
	for i := range chunks {
		chunks[i].Text = strings.TrimSpace(chunks[i].Text)
	}

	return chunks
}

// overlapSentences counts how many sentences from the end of the previous
// chunk are needed to reach the configured token overlap.
func (tc *TextChunker) overlapSentences(sentences []string, endSentence int) int {
	overlapTokens := 0
	count := 0
	for i := endSentence - 1; i >= 0 && overlapTokens < tc.ChunkOverlap; i-- {
		overlapTokens += tc.TokenCounter.Count(sentences[i])
		count++
	}
	return count
}

// DefaultSentenceSplitter splits on sentence-ending punctuation (., !, ?).
func DefaultSentenceSplitter(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
}

// WordTokenCounter approximates token counts by splitting on whitespace,
// so default chunk sizing works in words.
type WordTokenCounter struct{}

// Count returns the number of whitespace-delimited words in the text.
func (c *WordTokenCounter) Count(text string) int {
	return len(strings.Fields(text))
}

// TikTokenCounter counts tokens with the tiktoken library, matching the
// tokenization used by OpenAI-compatible models.
type TikTokenCounter struct {
	tke *tiktoken.Tiktoken
}

// NewTikTokenCounter creates a TikTokenCounter for the given encoding,
// e.g. "cl100k_base".
func NewTikTokenCounter(encoding string) (*TikTokenCounter, error) {
	tke, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to get encoding: %w", err)
	}
	return &TikTokenCounter{tke: tke}, nil
}

// Count returns the exact token count for the configured encoding.
func (c *TikTokenCounter) Count(text string) int {
	return len(c.tke.Encode(text, nil, nil))
}
