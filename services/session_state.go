package services

import "github.com/Mio-Hasumi/Vortex-sub001/models"

// sessionTransitions is the call session state machine. Ended and cancelled
// are terminal. Inviting is exclusive: the only way in is the single policy-
// approved transition from waiting, and invite failure routes back to waiting
// for a later retry.
var sessionTransitions = map[string][]string{
	models.SessionStatusCreated: {
		models.SessionStatusWaiting,
		models.SessionStatusCancelled,
	},
	models.SessionStatusWaiting: {
		models.SessionStatusInviting,
		models.SessionStatusEnded,
		models.SessionStatusCancelled,
	},
	models.SessionStatusInviting: {
		models.SessionStatusMultiParty,
		models.SessionStatusWaiting,
		models.SessionStatusCancelled,
	},
	models.SessionStatusMultiParty: {
		models.SessionStatusEnded,
		models.SessionStatusCancelled,
	},
	models.SessionStatusActive: {
		models.SessionStatusEnded,
		models.SessionStatusCancelled,
	},
}

// CanTransition reports whether the state machine allows from -> to
func CanTransition(from, to string) bool {
	for _, next := range sessionTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
