package types

type RunMode string

const (
	// ModeLocal runs the API server and the billing run scheduler in one process
	ModeLocal RunMode = "local"
	// ModeAPI runs just the API server
	ModeAPI RunMode = "api"
	// ModeScheduler runs just the billing run scheduler
	ModeScheduler RunMode = "scheduler"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// StorageProvider selects the repository implementation
type StorageProvider string

const (
	StorageProviderMemory   StorageProvider = "memory"
	StorageProviderSupabase StorageProvider = "supabase"
	StorageProviderPostgres StorageProvider = "postgres"
)
