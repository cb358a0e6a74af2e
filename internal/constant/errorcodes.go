package constant

// Settings store error codes
const (
	ErrCodeSettingsCorrupt = "SET001"
	ErrCodeSettingsRead    = "SET002"
	ErrCodeSettingsWrite   = "SET003"
	ErrCodeSettingsQuota   = "SET004"
	ErrCodeSettingsWipe    = "SET005"
)

// Storage error codes
const (
	ErrCodeDBGeneral = "DB500"
	ErrCodeDBOpen    = "DB001"
	ErrCodeDBMigrate = "DB002"
	ErrCodeDBClose   = "DB401"

	ErrCodeRedisPing = "RDS001"
)

// Studio error codes
const (
	ErrCodeRender      = "STU001"
	ErrCodeLogoDecode  = "STU002"
	ErrCodeExport      = "STU003"
	ErrCodeLogoRestore = "STU004"
)

// Application error codes
const (
	ErrCodeAppConfig         = "APP001"
	ErrCodeAppStorageInit    = "APP002"
	ErrCodeAppServerStart    = "APP003"
	ErrCodeAppServerShutdown = "APP004"
)

// Error types for categorization
const (
	ErrTypeSettings = "settings"
	ErrTypeDB       = "db"
	ErrTypeRedis    = "redis"
	ErrTypeStudio   = "studio"
	ErrTypeApp      = "app"
)
