package constants

import "time"

// Centralized constants for headers, env keys and Vertex AI integration.
const (
	// Environment variable keys. Several keys are accepted for the same
	// setting; the first non-empty one wins.
	EnvGoogleCloudProject = "GOOGLE_CLOUD_PROJECT"
	EnvGCloudProject      = "GCLOUD_PROJECT"
	EnvProjectID          = "PROJECT_ID"
	EnvVertexLocation     = "VERTEX_LOCATION"
	EnvLocation           = "LOCATION"
	EnvVertexTextModel    = "VERTEX_TEXT_MODEL"
	EnvVertexImageModel   = "VERTEX_IMAGE_MODEL"
	EnvPort               = "PORT"
	EnvAIBackend          = "AI_BACKEND"
	EnvGeminiAPIKey       = "GEMINI_API_KEY"
	EnvBattleDB           = "BATTLE_DB"
	EnvBattleSystemPrompt = "BATTLE_SYSTEM_PROMPT"
	EnvBattleStaticDir    = "BATTLE_STATIC_DIR"
	EnvBattleImagesDir    = "BATTLE_IMAGES_DIR"
	EnvBattleConfig       = "BATTLE_CONFIG"
	EnvOutcomeParser      = "BATTLE_OUTCOME_PARSER"

	// HTTP headers and content types
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderUserProject   = "x-goog-user-project"
	HeaderRequestID     = "X-Request-ID"

	ContentTypeJSON = "application/json"
	ContentTypePNG  = "image/png"
	ContentTypeText = "text/plain; charset=utf-8"

	// Authorization prefix
	BearerPrefix = "Bearer "

	// Vertex AI
	VertexGlobalLocation  = "global"
	VertexGlobalBaseURL   = "https://aiplatform.googleapis.com"
	VertexRegionalBaseFmt = "https://%s-aiplatform.googleapis.com"
	VertexGeneratePathFmt = "/v1/projects/%s/locations/%s/publishers/google/models/%s:generateContent"
	CloudPlatformScope    = "https://www.googleapis.com/auth/cloud-platform"

	DefaultLocation   = "us-central1"
	DefaultTextModel  = "gemini-2.5-flash"
	DefaultImageModel = "gemini-2.5-flash-image-preview"
	DefaultPort       = "3000"

	BackendVertex = "vertex"
	BackendGenAI  = "genai"

	ParserMarker     = "marker"
	ParserStructured = "structured"

	TextTimeout  = 120 * time.Second
	ImageTimeout = 180 * time.Second

	// Request bodies above this size are rejected with 413.
	MaxBodyBytes = 10 << 20

	// Persisted stage key
	StageKey = "stage"
	// BATTLE_DB value that keeps the stage in process memory
	DBInMemory = "memory"
)

// Routes used by the backend router
const (
	RouteAPIPrefix      = "/api"
	RouteConfig         = "/config"
	RouteGenerateText   = "/generate-text"
	RouteGenerateImage  = "/generate-image"
	RoutePrompt         = "/prompt"
	RouteBattleSimulate = "/battle-simulate"
	RouteBattle         = "/battle"
	RouteBattleOutcome  = "/battle/outcome"
	RouteStage          = "/stage"
	RouteStageReset     = "/stage/reset"
	RouteRosters        = "/rosters"
	RouteBattles        = "/battles"
	RouteVersion        = "/version"
	RouteImages         = "/images"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
	JSONKeyDetails = "details"
	JSONKeyRaw     = "raw"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest          = "Invalid request"
	ErrNotFound                = "Not found"
	ErrBodyTooLarge            = "Request body too large"
	ErrPromptRequired          = "prompt (string) is required"
	ErrTextGenerationFailed    = "Text generation failed"
	ErrImageGenerationFailed   = "Image generation failed"
	ErrNoImageReturned         = "No image returned from the model"
	ErrFailedLoadSystemPrompt  = "Failed to load system prompt"
	ErrBattleSimulationFailed  = "Battle simulation failed"
	ErrTeamASize               = "teamA must be an array of 3 items"
	ErrBattleInProgress        = "A battle is already being resolved"
	ErrFailedUpdateStage       = "Failed to update stage"
	ErrFailedFetchHistory      = "Failed to fetch battle history"
	ErrProjectNotConfiguredMsg = "PROJECT_ID not set. Set GOOGLE_CLOUD_PROJECT or PROJECT_ID env var, or configure via ADC (gcloud config set project ...)."
	ErrAccessTokenMsg          = "Failed to acquire access token. Run: gcloud auth application-default login"
)

// Logging field names
const (
	LogFieldAddr      = "addr"
	LogFieldModel     = "model"
	LogFieldStage     = "stage"
	LogFieldNextStage = "next_stage"
	LogFieldOutcome   = "outcome"
	LogFieldSignal    = "signal"
	LogFieldRequestID = "request_id"
	LogFieldPath      = "path"
	LogFieldStatus    = "status"
	LogFieldLatency   = "latency_ms"
	LogFieldBackend   = "backend"
	LogFieldLocation  = "location"
	LogFieldKey       = "key"
)
