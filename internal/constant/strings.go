package constant

// Request context keys
const (
	RequestIDKey = "request_id"
)

// HTTP header and cookie names
const (
	HeaderRequestID  = "X-Request-ID"
	ClientCookieName = "qr_client"
)

// Function/Context names
const (
	CtxMain     = "Main"
	CtxRouter   = "Router"
	CtxAPI      = "api"
	CtxDB       = "db"
	CtxRedis    = "redis"
	CtxSettings = "settings"
	CtxStudio   = "studio"
	CtxRegistry = "registry"
	CtxQR       = "qr"
)

// Data field keys
const (
	DataPort        = "port"
	DataDriver      = "driver"
	DataDSN         = "dsn"
	DataEnvironment = "environment"
	DataClientID    = "client_id"
	DataKey         = "key"
	DataBytes       = "bytes"
	DataLimit       = "limit"
	DataGeneration  = "generation"
	DataState       = "state"
	DataFormat      = "format"
	DataFilename    = "filename"
	DataSize        = "size"
	DataQuietZone   = "quiet_zone"
	DataShape       = "shape"
	DataCapacity    = "capacity"
	DataSessions    = "sessions"

	DataPath        = "path"
	DataElapsed     = "elapsed"
	DataRows        = "rows"
	DataSQL         = "sql"
	DataData        = "data"
	DataMethod      = "method"
	DataStatus      = "status"
	DataLatency     = "latency"
	DataRemoteAddr  = "remote_addr"
	DataUserAgent   = "user_agent"
	DataContentType = "content_type"
)

// Log messages
const (
	MsgApplicationStarting = "Starting QR designer"
	MsgFailedToLoadConfig  = "Failed to load configuration"
	MsgFailedToInitStorage = "Failed to initialize settings storage"
	MsgServerStarting      = "HTTP server listening"
	MsgServerFailedToStart = "HTTP server failed to start"
	MsgServerShuttingDown  = "Shutting down HTTP server"
	MsgServerShutdownError = "HTTP server shutdown error"
	MsgServerStopped       = "HTTP server stopped"
	MsgSettingUpRoutes     = "Setting up routes"

	MsgRequestReceived  = "Request received"
	MsgRequestCompleted = "Request completed"

	MsgSettingsCorrupt   = "Discarding corrupt settings record"
	MsgSettingsReadError = "Failed to read settings record"
	MsgSettingsWipeError = "Failed to remove corrupt settings record"
	MsgSettingsSaved     = "Design settings saved"
	MsgSettingsTooLarge  = "Settings record exceeds storage quota"
	MsgSettingsSaveError = "Failed to save settings record"

	MsgRenderFailed      = "QR render failed"
	MsgLogoDecodeFailed  = "Logo decode failed"
	MsgLogoStale         = "Ignoring stale logo decode"
	MsgLogoApplied       = "Logo applied"
	MsgExportFailed      = "Export failed"
	MsgSessionCreated    = "Studio session created"
	MsgSessionEvicted    = "Studio session evicted"
	MsgQuickRenderFailed = "Quick QR render failed"
	MsgQuickRenderServed = "Quick QR served"
	MsgLogoCanceled      = "Logo decode canceled"
	MsgLogoRestoreFailed = "Saved logo could not be restored"
	MsgExported          = "QR exported"
)

// User-facing notices
const (
	NoticeNothingRendered = "Generate a QR code first."
	NoticeSaved           = "Current design settings saved."
	NoticeQuotaExceeded   = "The design is too large to save. Try a smaller logo."
	NoticeSaveFailed      = "Could not save design settings."
	NoticeLogoInvalid     = "The selected file could not be read as an image."
	NoticeLogoMissing     = "Choose an image file to upload."
	NoticeInvalidForm     = "Some design values are invalid."
	NoticeLogoTooLarge    = "The selected image is too large."
	NoticeRenderFailed    = "The QR code could not be generated. Try a shorter URL."
	NoticeExportFailed    = "The QR code could not be exported."
	NoticeSizeTooSmall    = "The QR code is too small for this URL. Increase the size or use a shorter URL."

	NoticeTitleSuccess = "Success"
	NoticeTitleError   = "Error"
	NoticeTitleWarning = "Warning"
	NoticeTitleInfo    = "Info"
)

// Log field keys and encoder settings
const (
	LogTimeKey         = "time"
	LogLevelKey        = "level"
	LogNameKey         = "logger"
	LogCallerKey       = "caller"
	LogMessageKey      = "msg"
	LogStacktraceKey   = "stacktrace"
	LogRequestIDKey    = "request_id"
	LogFunctionKey     = "function"
	LogErrorCodeKey    = "error_code"
	LogErrorTypeKey    = "error_type"
	LogErrorMessageKey = "error_message"

	LogEncodingJSON    = "json"
	LogEncodingConsole = "console"
	LogOutputStdout    = "stdout"
	LogOutputStderr    = "stderr"
)

// Routes
const (
	RouteHome     = "/"
	RouteHealth   = "/health"
	RouteSitemap  = "/sitemap.xml"
	RouteView     = "/view"
	RouteDesign   = "/design"
	RouteTheme    = "/theme"
	RouteLogo     = "/logo"
	RouteSettings = "/settings"
	RoutePreview  = "/preview.png"
	RouteExport   = "/export"
	RouteQuickQR  = "/qr"
	RouteAPIGroup = "/api"
	RouteStatic   = "/web/static"
)
