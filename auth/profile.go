package auth

// Profile represents the authenticated user as returned by the backend.
// Roles and permissions gate client side features only.
type Profile struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	FullName    string   `json:"fullName"`
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

// DisplayName returns the full name, or the username when the former is empty
func (p *Profile) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.Username
}

// Identified reports whether the profile names a user
func (p *Profile) Identified() bool {
	return p != nil && (p.ID != "" || p.Username != "")
}

// HasRole reports whether the user has the named role
func (p *Profile) HasRole(role string) bool {
	if p == nil {
		return false
	}
	for _, candidate := range p.Roles {
		if candidate == role {
			return true
		}
	}
	return false
}

// HasPermission reports whether the user holds the exact permission key
func (p *Profile) HasPermission(key string) bool {
	if p == nil {
		return false
	}
	for _, candidate := range p.Permissions {
		if candidate == key {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether the user holds at least one of the keys
func (p *Profile) HasAnyPermission(keys ...string) bool {
	for _, key := range keys {
		if p.HasPermission(key) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the profile
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	ret := *p
	ret.Roles = append([]string(nil), p.Roles...)
	ret.Permissions = append([]string(nil), p.Permissions...)
	return &ret
}
