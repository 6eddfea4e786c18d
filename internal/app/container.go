// Package app wires the dependency graph.
package app

import (
	"context"
	"os"

	"github.com/mwiatr/verba/internal/application/doctor"
	"github.com/mwiatr/verba/internal/classifier"
	"github.com/mwiatr/verba/internal/infrastructure/backend"
	"github.com/mwiatr/verba/internal/infrastructure/config"
	"github.com/mwiatr/verba/internal/infrastructure/history"
	"github.com/mwiatr/verba/internal/infrastructure/security"
	"github.com/mwiatr/verba/internal/orchestrator"
	"github.com/mwiatr/verba/internal/pkg/logger"
	"github.com/mwiatr/verba/internal/ports"
	"github.com/mwiatr/verba/internal/session"
	"github.com/mwiatr/verba/internal/suggest"
)

// Container wires the application core with infrastructure adapters.
type Container struct {
	Config        ports.ConfigProvider
	Orchestrator  *orchestrator.Orchestrator
	Session       *session.Manager
	DoctorService *doctor.Service
	HistoryStore  *history.SQLiteStore
	Logger        ports.Logger
}

// Options tune container construction from CLI flags.
type Options struct {
	WorkingDir string
	Language   string
	Verbose    bool
}

// BuildContainer constructs the dependency graph for one session.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	dir := opts.WorkingDir
	if dir == "" {
		dir, err = os.Getwd()
		if err != nil {
			return nil, err
		}
	}

	language := opts.Language
	if language == "" {
		language = cfg.Preferences.Language
	}
	verbose := opts.Verbose || cfg.Preferences.Verbose

	log := logger.NewStd(verbose)

	guardrail, err := security.NewGuardrail(cfg.Security.RulesFile)
	if err != nil {
		guardrail, err = security.NewGuardrail("")
		if err != nil {
			return nil, err
		}
	}

	sess := session.NewManager(dir)

	var historyStore *history.SQLiteStore
	var historyRepo ports.HistoryRepository
	if cfg.History.Enabled {
		store, err := history.NewSQLiteStore("")
		if err != nil {
			// History is an optional concern; the session runs without it.
			log.Warn("history store unavailable", map[string]interface{}{"error": err.Error()})
		} else {
			historyStore = store
			historyRepo = store
		}
	}

	orch := &orchestrator.Orchestrator{
		Classifier: classifier.New(language, cfg.Preferences.AutoDetectLanguage),
		Session:    sess,
		Engine:     suggest.NewEngine(),
		Build:      backend.NewMakeRunner(dir),
		Shell:      backend.NewShellExecutor(dir, guardrail),
		Git:        backend.NewGitExecutor(dir),
		Docker:     backend.NewDockerExecutor(dir),
		Python:     backend.NewPythonExecutor(dir, sess.Project().PythonVenv),
		History:    historyRepo,
		Logger:     log,
		Verbose:    verbose,
	}

	doctorService := &doctor.Service{
		ConfigProvider: cfgLoader,
		Guardrail:      guardrail,
		WorkingDir:     dir,
	}

	return &Container{
		Config:        cfgLoader,
		Orchestrator:  orch,
		Session:       sess,
		DoctorService: doctorService,
		HistoryStore:  historyStore,
		Logger:        log,
	}, nil
}

// Close releases container-owned resources.
func (c *Container) Close() error {
	if c.HistoryStore != nil {
		return c.HistoryStore.Close()
	}
	return nil
}
