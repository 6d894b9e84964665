package auth

// State is the client side session: credentials, profile and authentication status.
// Authenticated is true iff both credentials and profile are present.
type State struct {
	Credentials   *Credentials `json:"tokens,omitempty"`
	Profile       *Profile     `json:"user,omitempty"`
	Authenticated bool         `json:"isAuthenticated"`
}

// NewState creates a state and derives its authentication status
func NewState(credentials *Credentials, profile *Profile) State {
	ret := State{Credentials: credentials.Clone(), Profile: profile.Clone()}
	ret.Authenticated = ret.Credentials != nil && ret.Profile != nil
	return ret
}

// Clone returns a deep copy of the state
func (s State) Clone() State {
	return State{
		Credentials:   s.Credentials.Clone(),
		Profile:       s.Profile.Clone(),
		Authenticated: s.Authenticated,
	}
}

// IsZero reports whether the state is fully cleared
func (s State) IsZero() bool {
	return s.Credentials == nil && s.Profile == nil && !s.Authenticated
}

// Consistent reports whether the state honours the authentication invariant
// and holds no partial credential pair.
func (s State) Consistent() bool {
	if s.Credentials != nil && !s.Credentials.Valid() {
		return false
	}
	return s.Authenticated == (s.Credentials != nil && s.Profile != nil)
}

// RefreshToken returns the current refresh token or an empty string
func (s State) RefreshToken() string {
	if s.Credentials == nil {
		return ""
	}
	return s.Credentials.RefreshToken
}

// AccessToken returns the current access token or an empty string
func (s State) AccessToken() string {
	if s.Credentials == nil {
		return ""
	}
	return s.Credentials.AccessToken
}
