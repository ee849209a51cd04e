package services

import (
	"fmt"
	"time"

	"github.com/Mio-Hasumi/Vortex-sub001/models"
)

// Invitation policy defaults
const (
	DefaultMinExchanges = 4
	DefaultMaxWait      = 300 * time.Second
)

// InvitationPolicy gates the AI host's "invite a second user" action. It is a
// pure function of the session, the exchange count and the injected clock:
// no side effects, total over all inputs.
type InvitationPolicy struct {
	MinExchanges int
	MaxWait      time.Duration
	RequireBoth  bool // true switches the OR rule to AND
	Clock        Clock
}

// NewInvitationPolicy builds a policy with the default thresholds
func NewInvitationPolicy(clock Clock) *InvitationPolicy {
	return &InvitationPolicy{
		MinExchanges: DefaultMinExchanges,
		MaxWait:      DefaultMaxWait,
		Clock:        clock,
	}
}

// CanInvite reports whether the AI host may invite a second participant now
func (p *InvitationPolicy) CanInvite(session *models.CallSession, exchanges int) bool {
	return p.Evaluate(session, exchanges).CanInvite
}

// Evaluate returns the full decision with a human-readable reason. Inviting
// is only ever allowed while the session is waiting; within that phase an
// engaged conversation opens the gate early via the exchange threshold, and
// a stalled one times out into inviting via the wait threshold.
func (p *InvitationPolicy) Evaluate(session *models.CallSession, exchanges int) models.InvitationDecision {
	if session == nil || session.Status != models.SessionStatusWaiting {
		return models.InvitationDecision{CanInvite: false, Reason: "session is not in the waiting phase"}
	}

	byExchanges := exchanges >= p.MinExchanges

	var elapsed time.Duration
	byWait := false
	if !session.StartedAt.IsZero() {
		elapsed = p.Clock.Now().Sub(session.StartedAt)
		byWait = elapsed >= p.MaxWait
	}

	allowed := byExchanges || byWait
	if p.RequireBoth {
		allowed = byExchanges && byWait
	}

	switch {
	case allowed && byExchanges && byWait:
		return models.InvitationDecision{CanInvite: true, Reason: "exchange threshold reached and wait limit exceeded"}
	case allowed && byExchanges:
		return models.InvitationDecision{CanInvite: true, Reason: fmt.Sprintf("exchange threshold reached (%d/%d)", exchanges, p.MinExchanges)}
	case allowed:
		return models.InvitationDecision{CanInvite: true, Reason: fmt.Sprintf("wait limit exceeded (%s/%s)", elapsed.Round(time.Second), p.MaxWait)}
	case p.RequireBoth && byExchanges:
		return models.InvitationDecision{CanInvite: false, Reason: fmt.Sprintf("wait limit not reached (%s/%s)", elapsed.Round(time.Second), p.MaxWait)}
	default:
		return models.InvitationDecision{CanInvite: false, Reason: fmt.Sprintf("need more exchanges (%d/%d) or more wait time (%s/%s)", exchanges, p.MinExchanges, elapsed.Round(time.Second), p.MaxWait)}
	}
}
