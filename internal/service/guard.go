package service

type GuardState int

const (
	GuardResolving GuardState = iota
	GuardUnauthenticated
	GuardAuthenticated
)

func (g GuardState) String() string {
	switch g {
	case GuardResolving:
		return "resolving"
	case GuardUnauthenticated:
		return "unauthenticated"
	case GuardAuthenticated:
		return "authenticated"
	}
	return "unknown"
}

// Guard decides whether a protected view may render. The role is not
// checked: any signed in session passes.
func Guard(store *SessionStore) GuardState {
	if store == nil {
		return GuardUnauthenticated
	}

	state := store.State()
	switch {
	case state.Loading:
		return GuardResolving
	case state.Token == "":
		return GuardUnauthenticated
	default:
		return GuardAuthenticated
	}
}
