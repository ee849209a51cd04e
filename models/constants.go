package models

// ✅ Call session statuses
const (
	SessionStatusCreated    = "created"
	SessionStatusWaiting    = "waiting"
	SessionStatusActive     = "active"
	SessionStatusInviting   = "inviting"
	SessionStatusMultiParty = "multi_party"
	SessionStatusEnded      = "ended"
	SessionStatusCancelled  = "cancelled"
)

// ✅ Match request modes
const (
	MatchModeTraditional = "traditional"
	MatchModeAIAssisted  = "ai-assisted"
)

// ✅ Match stages (strictness relaxes as a request waits)
const (
	MatchStageStrict  = "strict"  // exact topic overlap
	MatchStageRelaxed = "relaxed" // category-level overlap
	MatchStageAny     = "any"     // any waiting request, AI-assisted if available
)

// ✅ Session invite statuses
const (
	InviteStatusPending  = "pending"
	InviteStatusAccepted = "accepted"
	InviteStatusFailed   = "failed"
)
