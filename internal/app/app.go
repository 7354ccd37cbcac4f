// Package app wires configuration, storage, model providers and feature
// services into one context shared by the CLI and the HTTP API.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/edumate/internal/config"
	"github.com/abhisek/edumate/internal/embed"
	"github.com/abhisek/edumate/internal/grading"
	"github.com/abhisek/edumate/internal/llm"
	"github.com/abhisek/edumate/internal/recommender"
	"github.com/abhisek/edumate/internal/rewards"
	"github.com/abhisek/edumate/internal/schedule"
	"github.com/abhisek/edumate/internal/store"
	"github.com/abhisek/edumate/internal/wellbeing"
)

// User is the person the current process acts for.
type User struct {
	ID   string
	Kind rewards.Kind
}

// App holds every long-lived dependency. Build it with New and release it
// with Close.
type App struct {
	Config config.Config
	Logger *zap.Logger
	Store  *store.Store
	User   User

	// Provider is nil when no LLM is configured; features then report
	// generation errors in their results.
	Provider llm.Provider
	Vision   llm.VisionReader

	Grading   *grading.Service
	Wellbeing *wellbeing.Service
	Schedule  *schedule.Service
	Rewards   *rewards.Service

	// The recommender needs embeddings, which may mean downloading a model,
	// so it is built on first use.
	recMu    sync.Mutex
	rec      *recommender.Service
	embedder embed.Embedder
	closer   io.Closer
}

// Options override dependencies, mainly for tests.
type Options struct {
	Provider llm.Provider
	Vision   llm.VisionReader
	Embedder embed.Embedder
	Store    *store.Store
}

// New builds the application context.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	kind, ok := rewards.ParseKind(cfg.User.Kind)
	if !ok {
		return nil, fmt.Errorf("unknown user kind %q", cfg.User.Kind)
	}

	st := opts.Store
	if st == nil {
		dbPath := cfg.DBPath
		var err error
		if dbPath == "" {
			if dbPath, err = store.DefaultDBPath(); err != nil {
				return nil, fmt.Errorf("resolve DB path: %w", err)
			}
		} else if err := store.EnsureDir(dbPath); err != nil {
			return nil, fmt.Errorf("create DB dir: %w", err)
		}
		if st, err = store.Open(dbPath); err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		logger.Debug("store opened", zap.String("path", dbPath))
	}

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Store:    st,
		User:     User{ID: cfg.User.ID, Kind: kind},
		Provider: opts.Provider,
		Vision:   opts.Vision,
		embedder: opts.Embedder,
	}

	if a.Provider == nil {
		a.Provider = buildProvider(ctx, cfg.LLM, st.EventRepo(), logger)
	}
	if a.Vision == nil {
		v, err := llm.NewVisionReader(ctx, cfg.LLM)
		switch {
		case errors.Is(err, llm.ErrVisionUnavailable):
			logger.Debug("no vision model configured; image grading disabled")
		case err != nil:
			logger.Warn("vision model unavailable", zap.Error(err))
		default:
			a.Vision = v
		}
	}

	a.Grading = grading.NewService(a.Provider, a.Vision, grading.DefaultConfig(), logger.Named("grading"))
	a.Wellbeing = wellbeing.NewService(a.Provider, st.ReflectionRepo(), wellbeing.DefaultConfig(), logger.Named("wellbeing"))
	a.Rewards = rewards.NewService(st.RewardRepo(), a.Provider, rewards.DefaultConfig(), logger.Named("rewards"))
	a.Schedule = schedule.NewService(st.ScheduleRepo(), a.Rewards, a.Provider, schedule.DefaultConfig(), logger.Named("schedule"))
	return a, nil
}

// buildProvider returns nil when the LLM is not configured so that the
// non-generative features keep working.
func buildProvider(ctx context.Context, cfg llm.Config, events store.EventRepo, logger *zap.Logger) llm.Provider {
	if err := cfg.Validate(); err != nil {
		logger.Warn("LLM provider not configured; AI features will be unavailable", zap.Error(err))
		return nil
	}
	p, err := llm.NewProvider(ctx, cfg, events, logger.Named("llm"))
	if err != nil {
		logger.Warn("LLM provider unavailable", zap.Error(err))
		return nil
	}
	return p
}

// Recommender returns the content recommender, loading the knowledge base
// and embedding it on first call.
func (a *App) Recommender(ctx context.Context) (*recommender.Service, error) {
	a.recMu.Lock()
	defer a.recMu.Unlock()
	if a.rec != nil {
		return a.rec, nil
	}

	if a.embedder == nil {
		e, closer, err := embed.New(ctx, a.Config.Embed, a.Logger.Named("embed"))
		if err != nil {
			return nil, fmt.Errorf("build embedder: %w", err)
		}
		a.embedder, a.closer = e, closer
	}

	ks := recommender.NewKnowledgeStore(a.embedder)
	if err := a.loadKnowledge(ctx, ks); err != nil {
		return nil, err
	}
	a.rec = recommender.NewService(ks, a.Provider, recommender.DefaultConfig(), a.Logger.Named("recommender"))
	return a.rec, nil
}

func (a *App) loadKnowledge(ctx context.Context, ks *recommender.KnowledgeStore) error {
	resources := recommender.SampleResources()
	if path := a.Config.KnowledgeBase; path != "" {
		var err error
		if resources, err = recommender.LoadResources(path); err != nil {
			return fmt.Errorf("load knowledge base: %w", err)
		}
	}
	if err := ks.Add(ctx, resources); err != nil {
		return fmt.Errorf("index knowledge base: %w", err)
	}
	a.Logger.Info("knowledge base indexed", zap.Int("resources", ks.Len()))
	return nil
}

// CreditTeacher records teaching activity for the current user. It does
// nothing for students, and failures are only logged.
func (a *App) CreditTeacher(ctx context.Context, delta rewards.StatsDelta) {
	if a.User.Kind != rewards.KindTeacher {
		return
	}
	if delta.ActiveOn.IsZero() {
		delta.ActiveOn = time.Now()
	}
	if _, err := a.Rewards.RecordStats(ctx, a.User.ID, a.User.Kind, delta); err != nil {
		a.Logger.Warn("failed to record teaching activity", zap.String("user", a.User.ID), zap.Error(err))
	}
}

// Close releases the store and embedder.
func (a *App) Close() error {
	var errs []error
	a.recMu.Lock()
	if a.closer != nil {
		errs = append(errs, a.closer.Close())
		a.closer = nil
	}
	a.recMu.Unlock()
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	_ = a.Logger.Sync()
	return errors.Join(errs...)
}
