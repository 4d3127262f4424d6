package domain

import "net/url"

// SessionState is what the guard knows about the caller's session.
type SessionState int

const (
	SessionLoading SessionState = iota
	SessionAbsent
	SessionPresent
)

// GuardState is the outcome of evaluating access to gated content.
type GuardState string

const (
	GuardLoading         GuardState = "loading"
	GuardUnauthenticated GuardState = "unauthenticated"
	GuardForbidden       GuardState = "forbidden"
	GuardAuthorized      GuardState = "authorized"
)

// GuardMode selects what happens when access is denied.
type GuardMode int

const (
	// GuardFallback renders a sign-in prompt or access-denied panel in place.
	GuardFallback GuardMode = iota
	// GuardRedirect sends the caller to the login or unauthorized page.
	GuardRedirect
)

const (
	LoginPath        = "/auth/login"
	UnauthorizedPath = "/unauthorized"
)

// GuardDecision is the guard's verdict. Redirect is set only in redirect mode
// for the unauthenticated and forbidden states.
type GuardDecision struct {
	State    GuardState
	Redirect string
}

// Allowed reports whether the gated content may render.
func (d GuardDecision) Allowed() bool { return d.State == GuardAuthorized }

// EvaluateGuard runs the access state machine. An empty required role only
// demands an authenticated session.
func EvaluateGuard(state SessionState, session *Session, required Role, mode GuardMode, returnURL string) GuardDecision {
	switch {
	case state == SessionLoading:
		return GuardDecision{State: GuardLoading}
	case state == SessionAbsent || session == nil:
		d := GuardDecision{State: GuardUnauthenticated}
		if mode == GuardRedirect {
			d.Redirect = LoginPath
			if returnURL != "" {
				d.Redirect += "?returnUrl=" + url.QueryEscape(returnURL)
			}
		}
		return d
	case required != "" && !session.User.Role.CanAccess(required):
		d := GuardDecision{State: GuardForbidden}
		if mode == GuardRedirect {
			d.Redirect = UnauthorizedPath
		}
		return d
	}
	return GuardDecision{State: GuardAuthorized}
}
