package config

const (
	defaultConfigPath           = "~/.config/envwatch/config.toml"
	defaultDataDir              = "~/.local/share/envwatch"
	defaultDatabaseName         = "envwatch.db"
	defaultLogDir               = "~/.local/share/envwatch/logs"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultLogRetentionDays     = 30
	defaultRotationInterval     = 60
	defaultUnusedInterval       = 3600
	defaultDuplicateInterval    = 3600
	defaultUnusedAfterDays      = 30
	defaultUnusedListLimit      = 10
	defaultDuplicateListLimit   = 5
	defaultNotifyRequestTimeout = 10
	defaultDesktopNotifications = true
	defaultNotificationSound    = true
	databaseEnvVar              = "ENVWATCH_DATABASE"
	ntfyTopicEnvVar             = "ENVWATCH_NTFY_TOPIC"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Monitor: Monitor{
			RotationInterval:   defaultRotationInterval,
			UnusedInterval:     defaultUnusedInterval,
			DuplicateInterval:  defaultDuplicateInterval,
			UnusedAfterDays:    defaultUnusedAfterDays,
			UnusedListLimit:    defaultUnusedListLimit,
			DuplicateListLimit: defaultDuplicateListLimit,
		},
		Notifications: Notifications{
			Desktop:        defaultDesktopNotifications,
			Sound:          defaultNotificationSound,
			RequestTimeout: defaultNotifyRequestTimeout,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
