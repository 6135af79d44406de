package constants

// Centralized constants for env keys, routes and API error strings.
const (
	// Environment variable keys
	EnvSessionSecret       = "SESSION_SECRET"
	EnvGoogleClientID      = "GOOGLE_CLIENT_ID"
	EnvGoogleClientSecret  = "GOOGLE_CLIENT_SECRET"
	EnvSessionSecureCookie = "SESSION_SECURE_COOKIE"
	EnvConfigPath          = "CARDCLASH_CONFIG"
	EnvDBPath              = "CARDCLASH_DB"

	// Session / Cookie names
	CookieSessionName = "cc_session"

	// Google OAuth constants
	GoogleOAuthRedirect = "postmessage"
	GoogleUserInfoURL   = "https://www.googleapis.com/oauth2/v2/userinfo"
)

var (
	// Scopes for Google userinfo
	GoogleUserInfoScopes = []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"}
)

// Routes used by the backend router
const (
	RouteAPIPrefix          = "/api"
	RouteAuthGoogleCallBack = "/auth/google/oauth2callback"
	RouteVersion            = "/version"
	RouteLeaderboard        = "/leaderboard"
	RoutePlayerStats        = "/player-stats"
	RouteQueueJoin          = "/queue/join"
	RouteQueueLeave         = "/queue/leave"
	RouteQueueStatus        = "/queue/status"
	RouteBattles            = "/battles"
	RouteBattleHistory      = "/battles/history"
	RouteBattleByID         = "/battles/:battleID"
	RouteBattleStart        = "/battles/:battleID/start"
	RouteBattlePlay         = "/battles/:battleID/play"
	RouteBattleAttack       = "/battles/:battleID/attack"
	RouteBattleEndTurn      = "/battles/:battleID/end-turn"
	RouteBattleAbandon      = "/battles/:battleID/abandon"
	RouteBattleTimeout      = "/battles/:battleID/timeout-check"
	RouteBattleLog          = "/battles/:battleID/log"
	RouteBattleStream       = "/battles/:battleID/stream"
	RouteLogNormalize       = "/battle-log/normalize"
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
	ErrInvalidRequest   = "Invalid request"
	ErrInvalidBattleID  = "Invalid battle ID"
	ErrBattleNotFound   = "Battle not found"
	ErrNotYourTurn      = "Not your turn"
	ErrInvalidTrans     = "Operation not valid in the current battle state"
	ErrCardNotInHand    = "Card not in hand"
	ErrNoMonster        = "No monster on the field to attack with"
	ErrAlreadyQueued    = "Player already has a queue entry"
	ErrUnknownDeck      = "Unknown deck"
	ErrOpponentNotFound = "Opponent not found"
	ErrPairingFailed    = "Pairing failed, please retry"
	ErrNotParticipant   = "Caller is not a participant of this battle"
	ErrFailedPersist    = "Failed to persist battle state"
	ErrFailedFetchStats = "Failed to fetch stats"
	ErrFailedFetchBoard = "Failed to fetch leaderboard"
	ErrFailedFetchLog   = "Failed to fetch battle log"
	ErrFailedFetchHist  = "Failed to fetch battle history"
	ErrEmailRequired    = "email is required"

	ErrMissingGoogleEnv       = "Missing GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET in environment"
	ErrFailedExchangeToken    = "Failed to exchange token"
	ErrFailedGetUserInfo      = "Failed to get user info"
	ErrFailedReadUserData     = "Failed to read user data: %s"
	ErrNoEmailInGoogleProfile = "No email in Google profile"
	ErrFailedCreateSession    = "Failed to create session"

	ErrAuthRequired   = "Authentication required"
	ErrInvalidSession = "Invalid session"
)

// Logging field names
const (
	LogFieldBattleID = "battle_id"
	LogFieldPlayerID = "player_id"
	LogFieldTenantID = "tenant_id"
	LogFieldDeckID   = "deck_id"
	LogFieldSeq      = "sequence"
	LogFieldAddr     = "addr"
)
