package constants

import "time"

const (
	ContextTokenData = "token_data"
	ContextRequestID = "request_id"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

const (
	SlotCacheKeyPrefix  = "event:slots:"
	DefaultSlotCacheTTL = 5 * time.Minute
)

const (
	ShutdownTimeout = 10 * time.Second
	MaxLogoSize     = 5 << 20
	MaxResourceSize = 25 << 20
)

// Texts stored on moderation requests.
const (
	MessageAwaitingConfirmation = "Awaiting organizer confirmation"
	ReasonModeratorCancelled    = "Cancelled by the moderator"
	ReasonConflictResolution    = "Cancelled by the moderator in favour of another activity"
)
