package enums

import "fmt"

// PlatformRole represents an account-level role carried in access tokens.
type PlatformRole string

const (
	PlatformRoleAdmin PlatformRole = "admin"
	PlatformRoleUser  PlatformRole = "user"
)

var validPlatformRoles = []PlatformRole{
	PlatformRoleAdmin,
	PlatformRoleUser,
}

// String implements fmt.Stringer.
func (r PlatformRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known PlatformRole.
func (r PlatformRole) IsValid() bool {
	for _, candidate := range validPlatformRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParsePlatformRole converts raw input into a PlatformRole.
func ParsePlatformRole(value string) (PlatformRole, error) {
	for _, candidate := range validPlatformRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid platform role %q", value)
}
