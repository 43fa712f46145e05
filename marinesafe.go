package marinesafe

import "github.com/Awatif2003/marinesafe/core"

type Config = core.Config

type RetryConfig = core.RetryConfig

type Session = core.Session

type SessionState = core.SessionState

type UserProfile = core.UserProfile

type WeatherObservation = core.WeatherObservation
type LocationFix = core.LocationFix
type Alert = core.Alert
type AlertInput = core.AlertInput
type ProbeResult = core.ProbeResult

type TokenStore = core.TokenStore
type ProfileStore = core.ProfileStore
type SelectionStore = core.SelectionStore
type StoreProvider = core.StoreProvider

func WithLogger(logger core.Logger) Option {
	return runtimeOption(core.WithLogger(logger))
}

func WithLoggerProvider(provider core.LoggerProvider) Option {
	return runtimeOption(core.WithLoggerProvider(provider))
}

func WithMetricsRecorder(recorder core.MetricsRecorder) Option {
	return runtimeOption(core.WithMetricsRecorder(recorder))
}

func WithTokenStore(store core.TokenStore) Option {
	return runtimeOption(core.WithTokenStore(store))
}

func WithProfileStore(store core.ProfileStore) Option {
	return runtimeOption(core.WithProfileStore(store))
}

func WithSelectionStore(store core.SelectionStore) Option {
	return runtimeOption(core.WithSelectionStore(store))
}

func WithWaitFunc(wait core.WaitFunc) Option {
	return runtimeOption(core.WithWaitFunc(wait))
}

func WithConfigProvider(provider core.ConfigProvider) Option {
	return runtimeOption(core.WithConfigProvider(provider))
}

func WithOptionsResolver(resolver core.OptionsResolver) Option {
	return runtimeOption(core.WithOptionsResolver(resolver))
}

func WithPersistenceClient(client any) Option {
	return runtimeOption(core.WithPersistenceClient(client))
}

func WithRepositoryFactory(factory any) Option {
	return runtimeOption(core.WithRepositoryFactory(factory))
}

func DefaultConfig() Config {
	return core.DefaultConfig()
}
