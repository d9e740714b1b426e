package constants

// Environment variable keys
const (
	EnvConfigPath = "SPHERE_QUIZ_CONFIG"
	EnvDBPath     = "SPHERE_QUIZ_DB"
	EnvRPCURL     = "SPHERE_QUIZ_RPC_URL"
	EnvAddr       = "SPHERE_QUIZ_ADDR"

	DefaultConfigPath = "./sphere_quiz.json"
)

// HTTP headers and content types
const (
	HeaderContentType   = "Content-Type"
	ContentTypeJSON     = "application/json"
	CacheControlHeader  = "Cache-Control"
	CacheControlNoCache = "no-cache, no-store, must-revalidate"
)

// Routes used by the backend router
const (
	RouteAPIPrefix    = "/api"
	RouteBattles      = "/battles"
	RouteBattleByID   = "/battles/:battleID"
	RouteBattleInput  = "/battles/:battleID/input"
	RouteBattleEvents = "/battles/:battleID/events"
	RouteLeaderboard  = "/leaderboard"
	RoutePlayer       = "/players/:address"
	RouteVersion      = "/version"

	ParamBattleID = "battleID"
	ParamAddress  = "address"
	QueryLimit    = "limit"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
	JSONKeyDetails = "details"
	JSONKeyStatus  = "status"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest         = "Invalid request"
	ErrInvalidBattleID        = "Invalid battle ID"
	ErrInvalidAddress         = "Invalid wallet address"
	ErrInvalidLimit           = "limit must be between 1 and 100"
	ErrBattleNotFound         = "Battle not found"
	ErrBattleOver             = "Battle is already over"
	ErrInputRejected          = "Input not accepted in the current phase"
	ErrFailedCreateBattle     = "Failed to create battle"
	ErrFailedFetchBattle      = "Failed to fetch battle"
	ErrFailedHandleInput      = "Failed to handle input"
	ErrFailedFetchLeaderboard = "Failed to fetch leaderboard"
	ErrFailedFetchPlayer      = "Failed to fetch player"
	ErrFailedSubscribe        = "Failed to subscribe to battle events"
	ErrFailedWebsocketUpgrade = "Failed to open websocket"
	ErrBattleInternalFailure  = "Battle entered an invalid state"
)

// Logging field names
const (
	LogFieldBattleID = "battle_id"
	LogFieldPlayer   = "player"
	LogFieldPhase    = "phase"
	LogFieldTurn     = "turn"
	LogFieldScore    = "score"
	LogFieldStatus   = "status"
	LogFieldCount    = "count"
	LogFieldSource   = "source"
	LogFieldAddr     = "addr"
)

// Leaderboard bounds
const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
)
