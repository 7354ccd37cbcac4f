package recommender

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/edumate/internal/embed"
	"github.com/abhisek/edumate/internal/llm"
)

var (
	photosynthesis = LearningResource{Topic: "Photosynthesis", Content: "plants and light", ResourceType: "article", Difficulty: Beginner, TeachingMethod: "visual"}
	algebra        = LearningResource{Topic: "Algebra", Content: "solving for x", ResourceType: "video", Difficulty: Beginner, TeachingMethod: "interactive"}
)

// scenarioEmbedder scores Photosynthesis at 0.9 and Algebra at 0.1 against
// every query.
func scenarioEmbedder() *embed.Static {
	return &embed.Static{
		Vectors: map[string][]float32{
			photosynthesis.embeddingText(): {0.9, float32(math.Sqrt(1 - 0.81))},
			algebra.embeddingText():        {0.1, float32(math.Sqrt(1 - 0.01))},
		},
		Default: []float32{1, 0},
	}
}

func newTestService(t *testing.T, e embed.Embedder, p llm.Provider, resources ...LearningResource) *Service {
	t.Helper()
	store := NewKnowledgeStore(e)
	if len(resources) > 0 {
		require.NoError(t, store.Add(context.Background(), resources))
	}
	return NewService(store, p, DefaultConfig(), nil)
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
		{"both zero", []float32{0, 0}, []float32{0, 0}, 0},
		{"length mismatch", []float32{1, 0}, []float32{1, 0, 0}, 0},
		{"empty", nil, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cosine(tt.a, tt.b)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.False(t, math.IsNaN(got))
		})
	}
}

func TestKnowledgeStore_AddKeepsVectorsParallel(t *testing.T) {
	e := embed.NewHash(32)
	store := NewKnowledgeStore(e)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		batch := []LearningResource{
			{Topic: fmt.Sprintf("topic %d", i), Content: "content"},
			{Topic: fmt.Sprintf("topic %d", i), Content: "content"}, // duplicates are kept
		}
		require.NoError(t, store.Add(ctx, batch))
		assert.Equal(t, 2*i, store.Len())
		assert.Len(t, store.vectors, store.Len())
	}
}

func TestKnowledgeStore_AddReembedsWholeCorpus(t *testing.T) {
	e := &countingEmbedder{Embedder: embed.NewHash(8)}
	store := NewKnowledgeStore(e)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, []LearningResource{photosynthesis}))
	require.NoError(t, store.Add(ctx, []LearningResource{algebra}))
	assert.Equal(t, []int{1, 2}, e.batchSizes)
}

func TestKnowledgeStore_AddIsAtomic(t *testing.T) {
	e := scenarioEmbedder()
	store := NewKnowledgeStore(e)
	ctx := context.Background()
	require.NoError(t, store.Add(ctx, []LearningResource{photosynthesis}))

	e.Err = errors.New("model offline")
	err := store.Add(ctx, []LearningResource{algebra})
	require.Error(t, err)
	assert.ErrorIs(t, err, embed.ErrUnavailable)
	assert.Equal(t, 1, store.Len())
	assert.Len(t, store.vectors, 1)
	assert.Equal(t, []LearningResource{photosynthesis}, store.Resources())
}

func TestKnowledgeStore_AddRejectsShortBatch(t *testing.T) {
	store := NewKnowledgeStore(&droppingEmbedder{Embedder: embed.NewHash(8)})
	err := store.Add(context.Background(), []LearningResource{photosynthesis, algebra})
	assert.ErrorIs(t, err, embed.ErrUnavailable)
	assert.Zero(t, store.Len())
}

func TestRank_EmptyStore(t *testing.T) {
	e := scenarioEmbedder()
	store := NewKnowledgeStore(e)

	got, err := store.Rank(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Zero(t, e.Calls(), "empty store must not embed the query")
}

func TestRank_InvalidTopK(t *testing.T) {
	store := NewKnowledgeStore(scenarioEmbedder())
	_, err := store.Rank(context.Background(), "q", 0)
	assert.Error(t, err)
}

func TestRank_QueryEmbeddingFailure(t *testing.T) {
	e := scenarioEmbedder()
	store := NewKnowledgeStore(e)
	require.NoError(t, store.Add(context.Background(), []LearningResource{photosynthesis}))

	e.Err = errors.New("quota")
	_, err := store.Rank(context.Background(), "q", 1)
	assert.ErrorIs(t, err, embed.ErrUnavailable)
}

func TestRank_OrderAndBound(t *testing.T) {
	store := NewKnowledgeStore(embed.NewHash(64))
	ctx := context.Background()
	var resources []LearningResource
	for i := range 6 {
		resources = append(resources, LearningResource{Topic: fmt.Sprintf("Topic %d", i), Content: fmt.Sprintf("content number %d about science", i)})
	}
	require.NoError(t, store.Add(ctx, resources))

	for _, k := range []int{1, 3, 6, 10} {
		got, err := store.Rank(ctx, "science content", k)
		require.NoError(t, err)
		assert.Len(t, got, min(k, 6))
		for i := 1; i < len(got); i++ {
			assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
		}
	}
}

func TestRank_TiesKeepInsertionOrder(t *testing.T) {
	e := &embed.Static{Default: []float32{1, 1}}
	store := NewKnowledgeStore(e)
	resources := []LearningResource{
		{Topic: "first", Content: "x"},
		{Topic: "second", Content: "x"},
		{Topic: "third", Content: "x"},
	}
	require.NoError(t, store.Add(context.Background(), resources))

	got, err := store.Rank(context.Background(), "q", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].Topic)
	assert.Equal(t, "second", got[1].Topic)
	assert.Equal(t, "third", got[2].Topic)
}

func TestScenario_RankAndMethodFilter(t *testing.T) {
	mock := llm.NewMockProvider()
	svc := newTestService(t, scenarioEmbedder(), mock, photosynthesis, algebra)
	ctx := context.Background()

	top, err := svc.Store().Rank(ctx, "photosynthesis", 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "Photosynthesis", top[0].Topic)
	assert.InDelta(t, 0.9, top[0].Score, 1e-6)

	rec, err := svc.Recommend(ctx, RecommendRequest{Topic: "photosynthesis", Level: Beginner, Method: "Visual", Count: 3})
	require.NoError(t, err)
	require.Len(t, rec.Candidates, 1)
	assert.Equal(t, "Photosynthesis", rec.Candidates[0].Topic)

	// Photosynthesis ranks higher but is filtered out by method.
	rec, err = svc.Recommend(ctx, RecommendRequest{Topic: "photosynthesis", Level: Beginner, Method: "interactive", Count: 3})
	require.NoError(t, err)
	require.Len(t, rec.Candidates, 1)
	assert.Equal(t, "Algebra", rec.Candidates[0].Topic)

	rec, err = svc.Recommend(ctx, RecommendRequest{Topic: "photosynthesis", Level: Beginner, Method: "discussion", Count: 3})
	require.NoError(t, err)
	assert.Empty(t, rec.Candidates)
}

func TestRecommend_NoMatchSkipsGeneration(t *testing.T) {
	mock := llm.NewMockProvider(llm.Text("should not be used"))
	svc := newTestService(t, scenarioEmbedder(), mock, photosynthesis)

	rec, err := svc.Recommend(context.Background(), RecommendRequest{Topic: "photosynthesis", Level: Beginner, Method: "interactive", Count: 3})
	require.NoError(t, err)
	assert.Empty(t, rec.Candidates)
	assert.Equal(t, NoMatchesExplanation, rec.Explanation)
	assert.Zero(t, mock.CallCount())
}

func TestRecommend_FilterNeverBackfills(t *testing.T) {
	var resources []LearningResource
	for i := range 8 {
		method := "lecture"
		if i == 2 || i == 6 {
			method = "Hands-On"
		}
		resources = append(resources, LearningResource{
			Topic:          fmt.Sprintf("Fractions %d", i),
			Content:        "fractions practice",
			TeachingMethod: method,
		})
	}
	mock := llm.NewMockProvider(llm.Text("because"))
	svc := newTestService(t, embed.NewHash(64), mock, resources...)

	rec, err := svc.Recommend(context.Background(), RecommendRequest{Topic: "fractions", Level: Beginner, Method: "hands-on", Count: 3})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(rec.Candidates), 2)
	for _, c := range rec.Candidates {
		assert.Equal(t, "Hands-On", c.TeachingMethod)
	}
	assert.Equal(t, "because", rec.Explanation)
}

func TestRecommend_TruncatesAndForwardsOnlyCandidates(t *testing.T) {
	var resources []LearningResource
	for i := range 5 {
		resources = append(resources, LearningResource{Topic: fmt.Sprintf("Cells %d", i), Content: "cell biology", ResourceType: "article", Difficulty: Beginner})
	}
	mock := llm.NewMockProvider(llm.Text("explained"))
	svc := newTestService(t, embed.NewHash(64), mock, resources...)

	rec, err := svc.Recommend(context.Background(), RecommendRequest{Topic: "cells", Count: 2})
	require.NoError(t, err)
	require.Len(t, rec.Candidates, 2)

	req := mock.LastCall()
	assert.Equal(t, curatorSystemPrompt, req.System)
	assert.Equal(t, 0.6, req.Temperature)
	assert.Equal(t, 800, req.MaxTokens)
	prompt := req.Messages[0].Content
	assert.Contains(t, prompt, rec.Candidates[0].Topic)
	assert.Contains(t, prompt, rec.Candidates[1].Topic)
	assert.Contains(t, prompt, "intermediate student", "default level is intermediate")
}

func TestRecommend_GenerationFailureKeepsCandidates(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: errors.New("quota exceeded")})
	svc := newTestService(t, scenarioEmbedder(), mock, photosynthesis, algebra)

	rec, err := svc.Recommend(context.Background(), RecommendRequest{Topic: "photosynthesis", Level: Beginner, Count: 2})
	require.NoError(t, err)
	require.Len(t, rec.Candidates, 2)
	assert.Equal(t, "Photosynthesis", rec.Candidates[0].Topic)
	assert.Contains(t, rec.Explanation, "Error getting recommendations")
	assert.Contains(t, rec.Explanation, "quota exceeded")
}

func TestRecommend_EmbeddingFailurePropagates(t *testing.T) {
	e := scenarioEmbedder()
	svc := newTestService(t, e, llm.NewMockProvider(), photosynthesis)
	e.Err = errors.New("down")

	_, err := svc.Recommend(context.Background(), RecommendRequest{Topic: "x"})
	assert.ErrorIs(t, err, embed.ErrUnavailable)
}

func TestFetchSize(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 10, cfg.fetchSize(1))
	assert.Equal(t, 10, cfg.fetchSize(3))
	assert.Equal(t, 15, cfg.fetchSize(5))
}

func TestAnswer_EmptyStoreHasNoConfidence(t *testing.T) {
	for _, mock := range []*llm.MockProvider{
		llm.NewMockProvider(llm.Text("I don't know")),
		llm.NewMockProvider(llm.MockResponse{Err: errors.New("boom")}),
	} {
		svc := newTestService(t, scenarioEmbedder(), mock)
		res, err := svc.Answer(context.Background(), AnswerRequest{Question: "What is light?"})
		require.NoError(t, err)
		assert.Equal(t, ConfidenceNone, res.Confidence)
		assert.Empty(t, res.Sources)
	}
}

func TestAnswer_GroundsOnRankedSources(t *testing.T) {
	mock := llm.NewMockProvider(llm.Text("Plants make food from light."))
	svc := newTestService(t, scenarioEmbedder(), mock, algebra, photosynthesis)

	res, err := svc.Answer(context.Background(), AnswerRequest{Question: "How do plants eat?", ContextTopic: "Biology"})
	require.NoError(t, err)
	assert.Equal(t, ConfidenceHigh, res.Confidence)
	assert.Equal(t, []string{"Photosynthesis", "Algebra"}, res.Sources)
	assert.Equal(t, "Plants make food from light.", res.Answer)

	req := mock.LastCall()
	assert.Equal(t, 0.4, req.Temperature)
	assert.Equal(t, 600, req.MaxTokens)
	prompt := req.Messages[0].Content
	assert.Contains(t, prompt, "Resource: Photosynthesis\nplants and light\n\nResource: Algebra")
	assert.Contains(t, prompt, "Question: How do plants eat?")
}

func TestAnswer_GenerationFailureKeepsSources(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: errors.New("timeout")})
	svc := newTestService(t, scenarioEmbedder(), mock, photosynthesis, algebra)

	res, err := svc.Answer(context.Background(), AnswerRequest{Question: "q", RetrieveN: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"Photosynthesis"}, res.Sources)
	assert.Equal(t, ConfidenceHigh, res.Confidence)
	assert.Contains(t, res.Answer, "Error answering question")
}

func TestAnswer_NilProviderDegrades(t *testing.T) {
	svc := newTestService(t, scenarioEmbedder(), nil, photosynthesis)
	res, err := svc.Answer(context.Background(), AnswerRequest{Question: "q"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Photosynthesis"}, res.Sources)
	assert.Contains(t, res.Answer, "Error answering question")
}

func TestWorksheet(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.Text("Sure!\n```json\n" +
			`{"title":"Fractions Drill","questions":[{"question":"1/2+1/4?","type":"short","answer":"3/4","explanation":"common denominator"}]}` +
			"\n```"))
		svc := newTestService(t, scenarioEmbedder(), mock)

		ws := svc.Worksheet(context.Background(), WorksheetRequest{Topic: "Fractions", Difficulty: Beginner, NumQuestions: 1})
		assert.Equal(t, "Fractions Drill", ws.Title)
		require.Len(t, ws.Questions, 1)
		assert.Equal(t, "3/4", ws.Questions[0].Answer)
		assert.Equal(t, 1500, mock.LastCall().MaxTokens)
	})

	t.Run("fallback", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.Text("1. What is 1/2 of 8?"))
		svc := newTestService(t, scenarioEmbedder(), mock)

		ws := svc.Worksheet(context.Background(), WorksheetRequest{Topic: "Fractions"})
		assert.Equal(t, "Fractions Practice Worksheet", ws.Title)
		require.Len(t, ws.Questions, 1)
		assert.Equal(t, "general", ws.Questions[0].Type)
		assert.Equal(t, "1. What is 1/2 of 8?", ws.Questions[0].Question)
		assert.Contains(t, mock.LastCall().Messages[0].Content, "Number of Questions: 5")
	})

	t.Run("generation error", func(t *testing.T) {
		mock := llm.NewMockProvider(llm.MockResponse{Err: errors.New("offline")})
		svc := newTestService(t, scenarioEmbedder(), mock)

		ws := svc.Worksheet(context.Background(), WorksheetRequest{Topic: "Fractions"})
		assert.Equal(t, "Error", ws.Title)
		require.Len(t, ws.Questions, 1)
		assert.Equal(t, "error", ws.Questions[0].Type)
		assert.Contains(t, ws.Questions[0].Question, "offline")
	})
}

func TestKnowledgeStore_ConcurrentAddAndRank(t *testing.T) {
	store := NewKnowledgeStore(embed.NewHash(16))
	ctx := context.Background()
	require.NoError(t, store.Add(ctx, []LearningResource{photosynthesis}))

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Add(ctx, []LearningResource{{Topic: fmt.Sprintf("t%d", i), Content: "c"}}))
		}()
		go func() {
			defer wg.Done()
			got, err := store.Rank(ctx, "plants", 3)
			assert.NoError(t, err)
			assert.NotEmpty(t, got)
		}()
	}
	wg.Wait()

	assert.Equal(t, 9, store.Len())
	store.mu.RLock()
	assert.Len(t, store.vectors, 9)
	store.mu.RUnlock()
}

func TestSampleResources(t *testing.T) {
	res := SampleResources()
	require.NotEmpty(t, res)
	for _, r := range res {
		assert.NotEmpty(t, r.Topic)
		assert.Contains(t, []string{Beginner, Intermediate, Advanced}, r.Difficulty)
	}
}

func TestLoadResources(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("b.yaml", "resources:\n  - topic: B\n    content: second file\n")
	write("a.yml", "resources:\n  - topic: A\n    content: first file\n    teaching_method: visual\n")
	write("notes.txt", "ignored")

	res, err := LoadResources(dir)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "A", res[0].Topic)
	assert.Equal(t, "visual", res[0].TeachingMethod)
	assert.Equal(t, "B", res[1].Topic)

	single, err := LoadResources(filepath.Join(dir, "b.yaml"))
	require.NoError(t, err)
	assert.Len(t, single, 1)

	write("bad.yaml", "resources:\n  - topik: typo\n")
	_, err = LoadResources(filepath.Join(dir, "bad.yaml"))
	assert.Error(t, err)

	write("empty.yaml", "resources:\n  - topic: X\n")
	_, err = LoadResources(filepath.Join(dir, "empty.yaml"))
	assert.Error(t, err)

	_, err = LoadResources(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

type countingEmbedder struct {
	embed.Embedder
	batchSizes []int
}

func (c *countingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	c.batchSizes = append(c.batchSizes, len(texts))
	return c.Embedder.EmbedBatch(ctx, texts)
}

type droppingEmbedder struct{ embed.Embedder }

func (d *droppingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vecs, err := d.Embedder.EmbedBatch(ctx, texts)
	if err != nil || len(vecs) == 0 {
		return vecs, err
	}
	return vecs[:len(vecs)-1], nil
}
