package enums

import "fmt"

// StaffRole scopes permitted order actions within one restaurant tenant.
type StaffRole string

const (
	StaffRoleManager  StaffRole = "manager"
	StaffRoleKitchen  StaffRole = "kitchen"
	StaffRoleWaiter   StaffRole = "waiter"
	StaffRoleDelivery StaffRole = "delivery"
)

var validStaffRoles = []StaffRole{
	StaffRoleManager,
	StaffRoleKitchen,
	StaffRoleWaiter,
	StaffRoleDelivery,
}

// String implements fmt.Stringer.
func (r StaffRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known StaffRole.
func (r StaffRole) IsValid() bool {
	for _, candidate := range validStaffRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseStaffRole converts raw input into a StaffRole.
func ParseStaffRole(value string) (StaffRole, error) {
	for _, candidate := range validStaffRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid staff role %q", value)
}
