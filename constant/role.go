package constant

import "fmt"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleSeller   Role = "seller"
)

// RoleDashboardPath maps each role to the dashboard the client redirects to after login.
var RoleDashboardPath = map[Role]string{
	RoleCustomer: "/customer-dashboard",
	RoleSeller:   "/seller-dashboard",
}

func (r Role) Valid() bool {
	_, ok := RoleDashboardPath[r]
	return ok
}

func (r Role) String() string {
	return string(r)
}

// ParseRole accepts only the closed set of roles. Unknown values are an error,
// never a fallback to customer.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}
