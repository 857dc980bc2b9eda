package console

// GuardDecision tells the navigation layer what to do with a protected
// target.
type GuardDecision int

const (
	// GuardDeny redirects to the login view.
	GuardDeny GuardDecision = iota
	// GuardWait renders a neutral waiting indicator. Redirecting while the
	// startup verification is still in flight would bounce a legitimately
	// authenticated user to the login screen.
	GuardWait
	// GuardAllow renders the protected view.
	GuardAllow
)

// CanEnter reports whether a protected view may render for the given state.
func CanEnter(state AuthState) bool {
	return state.Status == StatusAuthenticated
}

// Decide maps an auth state to a guard decision, distinguishing the
// checking phase from a definitive denial.
func Decide(state AuthState) GuardDecision {
	switch state.Status {
	case StatusAuthenticated:
		return GuardAllow
	case StatusChecking:
		return GuardWait
	default:
		return GuardDeny
	}
}
