package commands

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/diogo/chatull/internal/api"
	"github.com/diogo/chatull/internal/chat"
	"github.com/diogo/chatull/internal/config"
	"github.com/diogo/chatull/internal/history"
	"github.com/diogo/chatull/internal/kvstore"
	"github.com/diogo/chatull/internal/logging"
	"github.com/diogo/chatull/internal/session"
)

// app is what a command needs once config is loaded
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	kv      kvstore.Store
	store   *history.Store
	session *session.Controller
}

// loadConfig reads the config file and environment, then the global flags
func loadConfig() (config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return cfg, err
	}

	if storageFlag != "" {
		cfg.Storage = storageFlag
	}
	if baseURLFlag != "" {
		cfg.BaseURL = baseURLFlag
	}
	if verboseFlag {
		cfg.Verbose = true
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logPath, err := config.GetLogPath()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logPath, cfg.Verbose)
	if err != nil {
		return nil, err
	}

	kv, err := kvstore.Open(cfg)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	sess, err := session.Default()
	if err != nil {
		_ = kv.Close()
		_ = logger.Sync()
		return nil, err
	}

	logger.Debug("app started",
		zap.String("storage", cfg.Storage),
		zap.String("base_url", cfg.BaseURL),
		zap.Int("subjects", len(cfg.Subjects)),
	)

	return &app{
		cfg:     cfg,
		logger:  logger,
		kv:      kv,
		store:   history.NewStore(kv, history.WithLogger(logger)),
		session: sess,
	}, nil
}

// answerer returns deps.Answerer or a client for the configured service
func (a *app) answerer(deps *Dependencies) (chat.Answerer, error) {
	if deps != nil && deps.Answerer != nil {
		return deps.Answerer, nil
	}
	client, err := api.NewClient(
		api.WithBaseURL(a.cfg.BaseURL),
		api.WithTimeout(time.Duration(a.cfg.RequestTimeout)*time.Second),
		api.WithLogger(a.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

func (a *app) Close() {
	if err := a.kv.Close(); err != nil {
		a.logger.Warn("failed to close storage", zap.Error(err))
	}
	_ = a.logger.Sync()
}
