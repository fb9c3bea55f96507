// Package constants contains application-wide constants to avoid magic numbers and strings.
package constants

import "time"

// Application defaults
const (
	DefaultPort             = "8080"
	DefaultDBPath           = "menusync.db"
	DefaultDataDir          = "data"
	DefaultImagesDir        = "public/menu-images"
	DefaultImagesURLPrefix  = "/menu-images/"
	DefaultImageNameTmpl    = "{{.Slug}}"
	DefaultStoreType        = StoreTypeFile
	DefaultLocation         = "norwest"
	DefaultOpenAIBaseURL    = "https://api.openai.com/v1"
	DefaultOpenAIModel      = "gpt-4o"
	DefaultImageProviderURL = "https://image.pollinations.ai/prompt/"
	DefaultS3Region         = "auto"
	DefaultShutdownTimeout  = 5 * time.Second
)

// Store types
const (
	StoreTypeMemory = "memory"
	StoreTypeFile   = "file"
	StoreTypeSQLite = "sqlite"
	StoreTypeRedis  = "redis"
	StoreTypeS3     = "s3"
)

// Refresh coordination
const (
	DefaultStaleTimeout = 2 * time.Minute
	SourceHTTPTimeout   = 60 * time.Second
	SourceRetryMax      = 2
	SourceRetryWaitMin  = 500 * time.Millisecond
	SourceRetryWaitMax  = 5 * time.Second
	MaxSourceBytes      = 50 << 20
	LLMHTTPTimeout      = 2 * time.Minute
	LLMMinInterval      = 500 * time.Millisecond
	MaxLLMInputChars    = 15000
	LLMTemperature      = 0.2
)

// Progress marks, out of ProgressTotal
const (
	ProgressTotal       = 100
	ProgressFetch       = 5
	ProgressParse       = 15
	ProgressGenerate    = 25
	ProgressEnrichStart = 30
	ProgressEnrichSpan  = 60
	ProgressBatch       = 3
)

// Enrichment cache
const (
	DefaultCacheTTL = 30 * 24 * time.Hour
	MinImageBytes   = 1000
)

// Download queue
const (
	ImageRequestTimeout  = 60 * time.Second
	MinQueueDelay        = 100 * time.Millisecond
	MaxQueueDelay        = 10 * time.Second
	DefaultRetryAfter    = 10 * time.Second
	RetryAfterPadding    = 500 * time.Millisecond
	DefaultRetryCount    = 3
	DefaultRetryBase     = 1 * time.Second
	MaxRateLimitRequeues = 20
	QuotaLowThreshold    = 5
	QuotaMediumThreshold = 10
	QuotaLowDelay        = 5 * time.Second
	QuotaMediumDelay     = 2 * time.Second
	DelayDecayFactor     = 0.8
	ImageWidth           = 512
	ImageHeight          = 512
	MaxImageBytes        = 20 << 20
)

// Store keys
const (
	StateKeyPrefix    = "menu-state-"
	CacheKey          = "menu-cache"
	FallbackImageName = "fallback.png"
)

// HTTP headers
const (
	HeaderRetryAfter         = "Retry-After"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	UserAgent                = "menusync/1.0"
)

// File Extensions
const (
	ExtJPG  = ".jpg"
	ExtPNG  = ".png"
	ExtJSON = ".json"
)

// File Permissions
const (
	DirPermissions  = 0755
	FilePermissions = 0644
)

// Characters to sanitize from filesystem paths
const InvalidPathChars = "<>:\"/\\|?*"
