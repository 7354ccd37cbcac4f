package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/edumate/internal/config"
	"github.com/abhisek/edumate/internal/embed"
	"github.com/abhisek/edumate/internal/grading"
	"github.com/abhisek/edumate/internal/llm"
	"github.com/abhisek/edumate/internal/recommender"
	"github.com/abhisek/edumate/internal/rewards"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		DBPath: filepath.Join(t.TempDir(), "nested", "edumate.db"),
		User:   config.UserConfig{ID: "ms_rivera", Kind: "teacher"},
		LLM:    llm.Config{Provider: "mock"},
		Embed:  embed.Config{Provider: "hash", HashDims: 64},
	}
}

func TestNew_WiresServices(t *testing.T) {
	mock := llm.NewMockProvider()
	a, err := New(context.Background(), testConfig(t), nil, Options{Provider: mock, Embedder: embed.NewHash(64)})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	assert.Equal(t, User{ID: "ms_rivera", Kind: rewards.KindTeacher}, a.User)
	assert.Same(t, mock, a.Provider)
	assert.NotNil(t, a.Grading)
	assert.NotNil(t, a.Wellbeing)
	assert.NotNil(t, a.Schedule)
	assert.NotNil(t, a.Rewards)
}

func TestNew_RejectsUnknownKind(t *testing.T) {
	cfg := testConfig(t)
	cfg.User.Kind = "parent"
	_, err := New(context.Background(), cfg, nil, Options{})
	assert.Error(t, err)
}

func TestNew_UnconfiguredProviderIsNil(t *testing.T) {
	cfg := testConfig(t)
	cfg.LLM = llm.Config{Provider: "groq"}
	a, err := New(context.Background(), cfg, nil, Options{})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	assert.Nil(t, a.Provider)
	assert.Nil(t, a.Vision)

	res := a.Grading.Grade(context.Background(), gradeReq())
	assert.Contains(t, res.Feedback, "Error grading")
}

func TestRecommender_LoadsSampleKnowledgeOnce(t *testing.T) {
	a, err := New(context.Background(), testConfig(t), nil, Options{Provider: llm.NewMockProvider(), Embedder: embed.NewHash(64)})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	rec, err := a.Recommender(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(recommender.SampleResources()), rec.Store().Len())

	again, err := a.Recommender(context.Background())
	require.NoError(t, err)
	assert.Same(t, rec, again)
}

func TestRecommender_BadKnowledgeBasePath(t *testing.T) {
	cfg := testConfig(t)
	cfg.KnowledgeBase = filepath.Join(t.TempDir(), "missing.yaml")
	a, err := New(context.Background(), cfg, nil, Options{Provider: llm.NewMockProvider(), Embedder: embed.NewHash(64)})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	_, err = a.Recommender(context.Background())
	assert.ErrorContains(t, err, "load knowledge base")
}

func gradeReq() grading.GradeRequest {
	return grading.GradeRequest{StudentAnswer: "4", CorrectAnswer: "4", Subject: "Math"}
}

func TestCreditTeacher(t *testing.T) {
	a, err := New(context.Background(), testConfig(t), nil, Options{Provider: llm.NewMockProvider(), Embedder: embed.NewHash(64)})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		a.CreditTeacher(ctx, rewards.StatsDelta{GradedCount: 1})
	}
	p, err := a.Rewards.Profile(ctx, "ms_rivera", rewards.KindTeacher)
	require.NoError(t, err)
	require.True(t, p.Found)
	require.Len(t, p.Badges, 1)
	assert.Equal(t, "dedicated_teacher", p.Badges[0].ID)

	a.User.Kind = rewards.KindStudent
	a.CreditTeacher(ctx, rewards.StatsDelta{GradedCount: 1})
	p, err = a.Rewards.Profile(ctx, "ms_rivera", rewards.KindStudent)
	require.NoError(t, err)
	assert.False(t, p.Found)
}
