package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/lead-email-generator/internal/config"
	"github.com/mikey/lead-email-generator/internal/core"
	"github.com/mikey/lead-email-generator/internal/factory"
	"github.com/mikey/lead-email-generator/internal/leads"
	"github.com/mikey/lead-email-generator/internal/logging"
	"github.com/mikey/lead-email-generator/internal/pipeline"
	"github.com/mikey/lead-email-generator/internal/resolver"
	"github.com/mikey/lead-email-generator/internal/results"
	"github.com/mikey/lead-email-generator/internal/utils"
)

// Options select the configuration file and console logging
type Options struct {
	ConfigFile string
	Verbose    bool
}

// App holds the assembled service and everything that must be released on exit
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Service *pipeline.Service
	Store   *results.Store

	llm      *factory.LLMFactory
	cache    factory.StoppableCache
	sessions factory.StoppableSessionStore
}

type appParams struct {
	dig.In

	Config   *config.Config
	Logger   *zap.Logger
	Service  *pipeline.Service
	Store    *results.Store
	LLM      *factory.LLMFactory
	Cache    factory.StoppableCache
	Sessions factory.StoppableSessionStore
}

// Close stops background tasks and releases clients
func (a *App) Close() {
	a.Store.Stop()
	a.sessions.Stop()
	if a.cache != nil {
		a.cache.Stop()
	}
	if err := a.llm.Close(); err != nil {
		a.Logger.Error("Failed to close LLM clients", zap.Error(err))
	}
	_ = a.Logger.Sync()
}

// BuildContainer creates and configures a dependency injection container
func BuildContainer(opts Options) (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(func() (*config.Config, error) {
		return config.NewFromFile(opts.ConfigFile)
	}); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(cfg *config.Config) (*zap.Logger, error) {
		if opts.Verbose {
			return logging.InitConsoleLogger(true, cfg.GetString("logging.format") == "json")
		}
		return logging.InitLogger(cfg)
	}); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewSessionFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewResolverFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}

	// Register inference clients
	if err := container.Provide(func(f *factory.LLMFactory) ([]core.InferenceClient, error) {
		return f.CreateClients()
	}); err != nil {
		return nil, err
	}

	// Register resolution cache, nil when disabled
	if err := container.Provide(func(f *factory.CacheFactory) (factory.StoppableCache, error) {
		return f.CreateResolutionCache()
	}); err != nil {
		return nil, err
	}

	// Register session store
	if err := container.Provide(func(f *factory.SessionFactory) (factory.StoppableSessionStore, error) {
		return f.CreateSessionStore()
	}); err != nil {
		return nil, err
	}

	// Register result store
	if err := container.Provide(func(f *factory.StoreFactory, sessions factory.StoppableSessionStore) (*results.Store, error) {
		return f.CreateResultStore(sessions)
	}); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register attempt recorder
	if err := container.Provide(func(logger *zap.Logger) core.AttemptRecorder {
		return logging.NewAttemptLogger(logger)
	}); err != nil {
		return nil, err
	}

	// Register resolver
	if err := container.Provide(func(
		f *factory.ResolverFactory,
		clients []core.InferenceClient,
		cache factory.StoppableCache,
		recorder core.AttemptRecorder,
		text *utils.TextProcessor,
	) (*resolver.Resolver, error) {
		return f.CreateResolver(clients, cache, recorder, text)
	}); err != nil {
		return nil, err
	}

	// Register pipeline service
	if err := container.Provide(newService); err != nil {
		return nil, err
	}

	// Register application
	if err := container.Provide(func(p appParams) *App {
		return &App{
			Config:   p.Config,
			Logger:   p.Logger,
			Service:  p.Service,
			Store:    p.Store,
			llm:      p.LLM,
			cache:    p.Cache,
			sessions: p.Sessions,
		}
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// Build assembles the application
func Build(opts Options) (*App, error) {
	container, err := BuildContainer(opts)
	if err != nil {
		return nil, err
	}

	var app *App
	if err := container.Invoke(func(a *App) {
		app = a
	}); err != nil {
		return nil, err
	}
	return app, nil
}

func newService(
	cfg *config.Config,
	res *resolver.Resolver,
	sessions factory.StoppableSessionStore,
	store *results.Store,
	clients []core.InferenceClient,
	logger *zap.Logger,
) (*pipeline.Service, error) {
	resolverCfg, err := cfg.GetResolver()
	if err != nil {
		return nil, err
	}
	input := cfg.GetInput()

	return pipeline.NewService(res, sessions, store, clients, pipeline.Options{
		Limits: leads.FileLimits{
			MaxSize:           input.MaxFileSize,
			AllowedExtensions: input.AllowedExtensions,
		},
		MaxBatchSize:   resolverCfg.MaxBatchSize,
		RateLimitDelay: resolverCfg.RateLimitDelay,
		PreviewRows:    cfg.GetPreviewRows(),
	}, logger), nil
}
