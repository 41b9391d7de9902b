package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hongduc/quiz11/internal/catalog"
	"github.com/hongduc/quiz11/internal/config"
	"github.com/hongduc/quiz11/internal/llm"
	"github.com/hongduc/quiz11/internal/logging"
	"github.com/hongduc/quiz11/internal/questiongen"
	"github.com/hongduc/quiz11/internal/quiz"
	"github.com/hongduc/quiz11/internal/results"
	"github.com/hongduc/quiz11/internal/store"
	"github.com/spf13/cobra"
)

// loadConfig reads configuration from --config, then QUIZ11_CONFIG,
// falling back to environment variables only.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv("QUIZ11_CONFIG")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// deps holds everything a quiz front end needs. Close releases the
// store, the result sink and the log file in reverse order.
type deps struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *store.Store
	catalog *catalog.Catalog
	service *quiz.Service

	closers []io.Closer
}

func (d *deps) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		errs = append(errs, d.closers[i].Close())
	}
	return errors.Join(errs...)
}

// buildDeps wires config, logging, the event store, the LLM provider,
// the question generator and the result sink into a quiz.Service.
// When logOut is nil the log goes to a file next to the database.
func buildDeps(ctx context.Context, cmd *cobra.Command, logOut io.Writer) (*deps, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(cmd, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}

	d := &deps{cfg: cfg}
	if logOut != nil {
		d.logger = logging.New(cfg.Env, logOut)
	} else {
		logPath := cfg.LogPath
		if logPath == "" {
			logPath = filepath.Join(filepath.Dir(dbPath), "quiz11.log")
		}
		logger, f, err := logging.NewFile(cfg.Env, logPath)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		d.logger = logger
		d.closers = append(d.closers, f)
	}

	fail := func(err error) (*deps, error) {
		_ = d.Close()
		return nil, err
	}

	d.catalog = catalog.Default()
	if cfg.Catalog != "" {
		if d.catalog, err = catalog.Load(cfg.Catalog); err != nil {
			return fail(fmt.Errorf("load catalog: %w", err))
		}
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return fail(fmt.Errorf("open store: %w", err))
	}
	d.store = st
	d.closers = append(d.closers, st)

	pcfg, err := cfg.LLM.ProviderConfig()
	if err != nil {
		return fail(fmt.Errorf("configure LLM provider: %w", err))
	}
	provider, err := llm.NewProvider(ctx, pcfg, st.EventRepo(), d.logger)
	if err != nil {
		return fail(fmt.Errorf("create LLM provider: %w", err))
	}
	d.logger.Info("llm provider ready", slog.String("provider", pcfg.Provider), slog.String("model", provider.ModelID()))

	gen := questiongen.New(provider, generatorConfig(cfg.Quiz))

	// A missing or unreachable sink disables submission instead of
	// blocking the quiz itself.
	var sink quiz.ResultSink
	s, err := results.New(ctx, cfg.Results)
	switch {
	case err != nil:
		d.logger.Warn("result submission disabled", slog.String("kind", cfg.Results.Kind), logging.Err(err))
		if !errors.Is(err, results.ErrNotConfigured) {
			fmt.Fprintln(os.Stderr, "Result sink unavailable:", err)
		}
	case s != nil:
		sink = s
		d.closers = append(d.closers, s)
	}

	d.service = quiz.NewService(gen, sink,
		quiz.WithEvents(store.QuizRecorder{Repo: st.EventRepo()}),
		quiz.WithAllowedCounts(d.catalog.QuestionCounts),
		quiz.WithLogger(d.logger),
	)
	return d, nil
}

func generatorConfig(q config.Quiz) questiongen.Config {
	gc := questiongen.DefaultConfig()
	gc.Grade = q.Grade
	gc.TrueFalseCount = q.TrueFalseCount
	gc.TrueLabel = q.TrueLabel
	gc.FalseLabel = q.FalseLabel
	gc.MaxTokens = q.MaxTokens
	gc.Temperature = q.Temperature
	return gc
}
