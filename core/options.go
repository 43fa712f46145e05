package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-config/cfgx"
	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
	opts "github.com/goliatone/go-options"
)

type ConfigProvider interface {
	Load(ctx context.Context, defaults Config) (Config, error)
}

type RawConfigLoader interface {
	LoadRaw(ctx context.Context) (map[string]any, error)
}

type OptionsResolver interface {
	Resolve(defaults Config, loaded Config, runtime Config) (Config, error)
}

// Runtime is the resolved dependency bundle shared by the client components.
// Construction resolves configuration in three layers (defaults, loaded,
// runtime) and fills every ambient dependency with a working default.
type Runtime struct {
	Config          Config
	Logger          Logger
	LoggerProvider  LoggerProvider
	Metrics         MetricsRecorder
	Observer        *Observer
	TokenStore      TokenStore
	ProfileStore    ProfileStore
	SelectionStore  SelectionStore
	Wait            WaitFunc
	ConfigProvider  ConfigProvider
	OptionsResolver OptionsResolver
}

type runtimeBuilder struct {
	runtimeConfig     Config
	logger            Logger
	loggerProvider    LoggerProvider
	metricsRecorder   MetricsRecorder
	tokenStore        TokenStore
	profileStore      ProfileStore
	selectionStore    SelectionStore
	wait              WaitFunc
	configProvider    ConfigProvider
	optionsResolver   OptionsResolver
	persistenceClient any
	repositoryFactory any
}

type Option func(*runtimeBuilder)

func WithLogger(logger Logger) Option {
	return func(b *runtimeBuilder) {
		b.logger = logger
	}
}

func WithLoggerProvider(provider LoggerProvider) Option {
	return func(b *runtimeBuilder) {
		b.loggerProvider = provider
	}
}

func WithMetricsRecorder(recorder MetricsRecorder) Option {
	return func(b *runtimeBuilder) {
		b.metricsRecorder = recorder
	}
}

func WithTokenStore(store TokenStore) Option {
	return func(b *runtimeBuilder) {
		b.tokenStore = store
	}
}

func WithProfileStore(store ProfileStore) Option {
	return func(b *runtimeBuilder) {
		b.profileStore = store
	}
}

func WithSelectionStore(store SelectionStore) Option {
	return func(b *runtimeBuilder) {
		b.selectionStore = store
	}
}

func WithWaitFunc(wait WaitFunc) Option {
	return func(b *runtimeBuilder) {
		b.wait = wait
	}
}

func WithConfigProvider(provider ConfigProvider) Option {
	return func(b *runtimeBuilder) {
		b.configProvider = provider
	}
}

func WithOptionsResolver(resolver OptionsResolver) Option {
	return func(b *runtimeBuilder) {
		b.optionsResolver = resolver
	}
}

func WithPersistenceClient(client any) Option {
	return func(b *runtimeBuilder) {
		b.persistenceClient = client
	}
}

func WithRepositoryFactory(factory any) Option {
	return func(b *runtimeBuilder) {
		b.repositoryFactory = factory
	}
}

func NewRuntime(cfg Config, options ...Option) (*Runtime, error) {
	builder := runtimeBuilder{
		runtimeConfig:   cfg,
		metricsRecorder: NopMetricsRecorder{},
		wait:            WaitWithContext,
		configProvider:  NewCfgxConfigProvider(nil),
		optionsResolver: GoOptionsResolver{},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("marinesafe", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("marinesafe"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.wait == nil {
		builder.wait = WaitWithContext
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(err)
	}

	if needsStores(&builder) && builder.repositoryFactory != nil {
		if storeFactory, ok := builder.repositoryFactory.(RepositoryStoreFactory); ok {
			storeProvider, buildErr := storeFactory.BuildStores(builder.persistenceClient)
			if buildErr != nil {
				return nil, mapBuildError(buildErr)
			}
			adoptStores(&builder, storeProvider)
		} else if storeProvider, ok := builder.repositoryFactory.(StoreProvider); ok {
			adoptStores(&builder, storeProvider)
		}
	}
	if builder.tokenStore == nil || builder.profileStore == nil || builder.selectionStore == nil {
		return nil, goerrors.New(
			"core: token, profile, and selection stores are required",
			goerrors.CategoryInternal,
		).WithTextCode(ClientErrorInternal)
	}

	observer := NewObserver(logger, builder.metricsRecorder)

	return &Runtime{
		Config:          finalConfig,
		Logger:          logger,
		LoggerProvider:  provider,
		Metrics:         builder.metricsRecorder,
		Observer:        observer,
		TokenStore:      builder.tokenStore,
		ProfileStore:    builder.profileStore,
		SelectionStore:  builder.selectionStore,
		Wait:            builder.wait,
		ConfigProvider:  builder.configProvider,
		OptionsResolver: builder.optionsResolver,
	}, nil
}

func needsStores(builder *runtimeBuilder) bool {
	return builder.tokenStore == nil || builder.profileStore == nil || builder.selectionStore == nil
}

func adoptStores(builder *runtimeBuilder, provider StoreProvider) {
	if provider == nil {
		return
	}
	if builder.tokenStore == nil {
		builder.tokenStore = provider.TokenStore()
	}
	if builder.profileStore == nil {
		builder.profileStore = provider.ProfileStore()
	}
	if builder.selectionStore == nil {
		builder.selectionStore = provider.SelectionStore()
	}
}

func mapBuildError(err error) error {
	if err == nil {
		return nil
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, "core: runtime build failed").
		WithTextCode(ClientErrorInternal)
}

type staticRawConfigLoader struct {
	Values map[string]any
}

func (l staticRawConfigLoader) LoadRaw(context.Context) (map[string]any, error) {
	if len(l.Values) == 0 {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(l.Values))
	for key, value := range l.Values {
		out[key] = value
	}
	return out, nil
}

type CfgxConfigProvider struct {
	Loader RawConfigLoader
}

func NewCfgxConfigProvider(loader RawConfigLoader) *CfgxConfigProvider {
	return &CfgxConfigProvider{Loader: loader}
}

func (p *CfgxConfigProvider) Load(ctx context.Context, defaults Config) (Config, error) {
	if p == nil {
		return defaults, nil
	}
	loader := p.Loader
	if loader == nil {
		loader = staticRawConfigLoader{}
	}
	raw, err := loader.LoadRaw(ctx)
	if err != nil {
		return Config{}, err
	}
	cfg, err := cfgx.Build[Config](raw,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[Config]((*Config).Validate),
	)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type GoOptionsResolver struct{}

func (GoOptionsResolver) Resolve(defaults Config, loaded Config, runtime Config) (Config, error) {
	defaultLayer := configToLayerMap(defaults, true)
	loadedLayer := configToLayerMap(loaded, false)
	runtimeLayer := configToLayerMap(runtime, false)

	stack, err := opts.NewStack(
		opts.NewLayer(
			opts.NewScope("defaults", 0),
			defaultLayer,
			opts.WithSnapshotID[map[string]any]("defaults"),
		),
		opts.NewLayer(
			opts.NewScope("config", 10),
			loadedLayer,
			opts.WithSnapshotID[map[string]any]("config"),
		),
		opts.NewLayer(
			opts.NewScope("runtime", 20),
			runtimeLayer,
			opts.WithSnapshotID[map[string]any]("runtime"),
		),
	)
	if err != nil {
		return Config{}, fmt.Errorf("core: options stack build failed: %w", err)
	}
	merged, err := stack.Merge()
	if err != nil {
		return Config{}, fmt.Errorf("core: options merge failed: %w", err)
	}
	resolved, err := cfgx.Build[Config](merged.Value,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[Config]((*Config).Validate),
	)
	if err != nil {
		return Config{}, err
	}
	if err := resolved.Validate(); err != nil {
		return Config{}, err
	}
	return resolved, nil
}

func configToLayerMap(cfg Config, includeZero bool) map[string]any {
	layer := map[string]any{}
	if includeZero || strings.TrimSpace(cfg.AppName) != "" {
		layer["app_name"] = cfg.AppName
	}
	if includeZero || len(cfg.Endpoints) > 0 {
		layer["endpoints"] = append([]string(nil), cfg.Endpoints...)
	}
	if includeZero || cfg.RequestTimeoutMS > 0 {
		layer["request_timeout_ms"] = cfg.RequestTimeoutMS
	}
	if includeZero || cfg.LoginTimeoutMS > 0 {
		layer["login_timeout_ms"] = cfg.LoginTimeoutMS
	}
	if includeZero || cfg.ProbeTimeoutMS > 0 {
		layer["probe_timeout_ms"] = cfg.ProbeTimeoutMS
	}
	if includeZero || cfg.DiagnosticTimeoutMS > 0 {
		layer["diagnostic_timeout_ms"] = cfg.DiagnosticTimeoutMS
	}
	if includeZero || cfg.Retry.MaxAttempts > 0 || cfg.Retry.BackoffStepMS > 0 {
		retry := map[string]any{}
		if includeZero || cfg.Retry.MaxAttempts > 0 {
			retry["max_attempts"] = cfg.Retry.MaxAttempts
		}
		if includeZero || cfg.Retry.BackoffStepMS > 0 {
			retry["backoff_step_ms"] = cfg.Retry.BackoffStepMS
		}
		layer["retry"] = retry
	}
	return layer
}
