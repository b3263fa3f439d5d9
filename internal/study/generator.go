package study

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"brainifi/internal/llm"
	"brainifi/internal/pdftext"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// GeneratorOptions bounds how much of a document is sent to the model.
type GeneratorOptions struct {
	// ChunkSize is the maximum size of one chunk in bytes.
	ChunkSize int
	// MaxChunks caps the number of model calls per mode.
	MaxChunks int
	// Workers caps the number of concurrent model calls per mode.
	Workers int
}

// Generator produces study questions from document text.
type Generator struct {
	provider llm.Provider
	opts     GeneratorOptions
}

// NewGenerator creates a Generator, filling zero options with defaults.
func NewGenerator(provider llm.Provider, opts GeneratorOptions) *Generator {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 2000
	}
	if opts.MaxChunks <= 0 {
		opts.MaxChunks = 8
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	return &Generator{provider: provider, opts: opts}
}

type chunkResult struct {
	questions []Question
	err       error
}

// Generate asks the model for n questions in the given mode. The text is
// split into chunks, each chunk is asked for its share of the questions in
// parallel, and the replies are joined in chunk order with duplicates removed.
// A failing chunk is skipped; only when every chunk fails is an error returned.
func (g *Generator) Generate(ctx context.Context, text string, mode Mode, n int) ([]Question, llm.Usage, error) {
	var usage llm.Usage
	if !mode.Valid() {
		return nil, usage, fmt.Errorf("unknown study mode %q", mode)
	}
	if n <= 0 {
		n = mode.DefaultCount()
	}

	chunks := selectChunks(pdftext.Chunk(text, g.opts.ChunkSize), min(g.opts.MaxChunks, n))
	if len(chunks) == 0 {
		return nil, usage, ErrNoContent
	}
	perChunk := (n + len(chunks) - 1) / len(chunks)

	results := make([]chunkResult, len(chunks))
	var mu sync.Mutex

	var eg errgroup.Group
	eg.SetLimit(g.opts.Workers)
	for i, chunk := range chunks {
		eg.Go(func() error {
			qs, u, err := g.generateChunk(ctx, chunk, mode, perChunk)
			if err != nil {
				log.Printf("WARN: %s chunk %d/%d failed: %v", mode, i+1, len(chunks), err)
			}
			results[i] = chunkResult{questions: qs, err: err}
			mu.Lock()
			usage = usage.Add(u)
			mu.Unlock()
			return nil
		})
	}
	_ = eg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, usage, err
	}

	failed := lo.CountBy(results, func(r chunkResult) bool { return r.err != nil })
	if failed == len(results) {
		return nil, usage, fmt.Errorf("generate %s questions: %w", mode, results[0].err)
	}

	questions := lo.FlatMap(results, func(r chunkResult, _ int) []Question { return r.questions })
	questions = lo.UniqBy(questions, func(q Question) string { return normalizeQuestion(q.Question) })
	if len(questions) == 0 {
		return nil, usage, ErrNoQuestions
	}
	if len(questions) > n {
		questions = questions[:n]
	}
	for i := range questions {
		questions[i].Mode = mode
	}
	return questions, usage, nil
}

func (g *Generator) generateChunk(ctx context.Context, chunk string, mode Mode, n int) ([]Question, llm.Usage, error) {
	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      questionSystemPrompt,
		Prompt:      questionPrompt(chunk, mode, n, pdftext.FocusConcepts(chunk, 5)),
		MaxTokens:   4096,
		Temperature: 0.7,
		JSON:        true,
	})
	if err != nil {
		return nil, llm.Usage{}, err
	}
	questions := ParseQuestions(resp.Text)
	if len(questions) == 0 {
		return nil, resp.Usage, ErrNoQuestions
	}
	return questions, resp.Usage, nil
}

// GenerateAll produces each mode's default number of questions, running the
// modes concurrently. A mode that fails is logged and left empty; an error is
// returned only when no mode produced anything.
func (g *Generator) GenerateAll(ctx context.Context, text string) (map[Mode][]Question, llm.Usage, error) {
	var (
		mu       sync.Mutex
		usage    llm.Usage
		firstErr error
		out      = make(map[Mode][]Question, len(AllModes))
	)

	var eg errgroup.Group
	for _, mode := range AllModes {
		eg.Go(func() error {
			qs, u, err := g.Generate(ctx, text, mode, mode.DefaultCount())
			mu.Lock()
			defer mu.Unlock()
			usage = usage.Add(u)
			if err != nil {
				log.Printf("ERROR: Generating %s questions: %v", mode.Label(), err)
				if firstErr == nil {
					firstErr = err
				}
				qs = []Question{}
			}
			out[mode] = qs
			return nil
		})
	}
	_ = eg.Wait()

	total := lo.SumBy(lo.Values(out), func(qs []Question) int { return len(qs) })
	if total == 0 {
		if firstErr == nil {
			firstErr = ErrNoQuestions
		}
		return nil, usage, firstErr
	}
	return out, usage, nil
}

// selectChunks keeps at most limit chunks, spread evenly across the document.
func selectChunks(chunks []string, limit int) []string {
	if limit <= 0 || len(chunks) <= limit {
		return chunks
	}
	out := make([]string, 0, limit)
	for i := range limit {
		out = append(out, chunks[i*len(chunks)/limit])
	}
	return out
}

func normalizeQuestion(s string) string {
	s = strings.ToLower(s)
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r > 127:
			return r
		case r == ' ' || r == '\t' || r == '\n':
			return ' '
		}
		return -1
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
