package main

import (
	"fmt"

	"go.uber.org/zap"

	"taskctl/internal/config"
	"taskctl/internal/dispatch"
	"taskctl/internal/logging"
	"taskctl/internal/metrics"
	"taskctl/internal/persistence"
	"taskctl/internal/task"
	"taskctl/internal/validate"
	"taskctl/internal/variables"
	"taskctl/internal/workflow"
)

// defaultCommandActionMap is used when the engine config doesn't supply
// its own (§4.5: "command -> action" mapping).
var defaultCommandActionMap = map[string]string{
	"apply":        string(dispatch.CreateAction),
	"delete":       string(dispatch.DeleteAction),
	"describe":     string(dispatch.DescribeAction),
	"detect-drift": string(dispatch.DetectDriftAction),
	"rollback":     string(dispatch.RollbackAction),
}

type engine struct {
	executor *workflow.Executor
	tasks    *task.Set
	log      logging.Sink
	closeFn  func() error
}

func buildEngine(flags *engineFlags) (*engine, error) {
	cfg, err := config.Load(flags.config)
	if err != nil {
		return nil, fmt.Errorf("loading engine config: %w", err)
	}

	tasks, err := loadTaskSet(flags.manifest)
	if err != nil {
		return nil, fmt.Errorf("loading task manifest: %w", err)
	}

	zl, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	log := logging.NewZap(zl)

	pers, closeFn, err := buildPersistence(cfg, log)
	if err != nil {
		return nil, err
	}
	if ok := pers.Load(func(loadErr error) { log.Error("persistence load failed", "error", loadErr) }); !ok {
		log.Warn("persistence.Load reported failure; continuing with an empty cache")
	}

	commandActionMap := cfg.CommandActionMap
	if len(commandActionMap) == 0 {
		commandActionMap = defaultCommandActionMap
	}

	supportedActions := cfg.SupportedActions
	if len(supportedActions) == 0 {
		supportedActions = dispatch.AllActionNames()
	}
	validator := validate.New(cfg.SupportedCommands, cfg.SupportedContexts, supportedActions)

	registry := dispatch.NewRegistry()
	registry.Register("v1", newLoggingProcessor(log))

	executor := &workflow.Executor{
		Stages: []workflow.Hook{
			workflow.ResolveTaskSpecVariablesHook{},
			workflow.TaskProcessingHook{},
			workflow.TaskPostProcessingStateUpdateHook{},
		},
		Tasks:            tasks,
		Store:            variables.New(),
		Registry:         registry,
		Persistence:      pers,
		Validator:        validator,
		CommandActionMap: commandActionMap,
		GeneralErrorHook: workflow.GeneralErrorHook{},
		Log:              log,
		Metrics:          metrics.NewNoop(),
	}

	return &engine{executor: executor, tasks: tasks, log: log, closeFn: closeFn}, nil
}

func buildPersistence(cfg *config.Engine, log logging.Sink) (persistence.Persistence, func() error, error) {
	switch cfg.Persistence.Driver {
	case "", "memory":
		return persistence.NewMemory(log), func() error { return nil }, nil
	case "sqlite":
		path := cfg.Persistence.Path
		if path == "" {
			path = ":memory:"
		}
		db, err := persistence.OpenSQLite(path, log)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite persistence: %w", err)
		}
		return db, db.Close, nil
	case "file":
		path := cfg.Persistence.Path
		if path == "" {
			path = "taskctl-state"
		}
		fp, err := persistence.OpenFile(path, log)
		if err != nil {
			return nil, nil, fmt.Errorf("opening file persistence: %w", err)
		}
		return fp, func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown persistence driver %q", cfg.Persistence.Driver)
	}
}
