package config

const (
	defaultConfigPath      = "~/.config/schoolsync/config.toml"
	defaultProjectConfig   = "schoolsync.toml"
	defaultServerURL       = "http://127.0.0.1:8787"
	defaultClientDBPath    = "~/.local/share/schoolsync/queue.db"
	defaultNamespace       = "schoolsync"
	defaultRequestTimeout  = 30
	defaultLockTimeout     = 1
	defaultItemTimeout     = 15
	defaultProbeInterval   = 15
	defaultProbeTimeout    = 5
	defaultServerBind      = "127.0.0.1:8787"
	defaultServerDBPath    = "~/.local/share/schoolsync/server.db"
	defaultTokenTTLHours   = 24
	defaultRateLimit       = 20
	defaultRateBurst       = 40
	defaultReadTimeout     = 10
	defaultWriteTimeout    = 10
	defaultShutdownTimeout = 10
	defaultLogFormat       = "text"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Client: Client{
			ServerURL:      defaultServerURL,
			DBPath:         defaultClientDBPath,
			Namespace:      defaultNamespace,
			RequestTimeout: defaultRequestTimeout,
			LockTimeout:    defaultLockTimeout,
		},
		Sync: Sync{
			ItemTimeout:   defaultItemTimeout,
			ProbeInterval: defaultProbeInterval,
			ProbeTimeout:  defaultProbeTimeout,
			SyncOnStart:   true,
		},
		Server: Server{
			Bind:            defaultServerBind,
			DBPath:          defaultServerDBPath,
			TokenTTLHours:   defaultTokenTTLHours,
			RateLimit:       defaultRateLimit,
			RateBurst:       defaultRateBurst,
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
