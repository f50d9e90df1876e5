package access

import "heven-store/internal/domain"

// Decision is the outcome of evaluating a caller against an administrative
// surface.
type Decision int

const (
	Allow Decision = iota
	RedirectToLogin
	RedirectHome
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect_to_login"
	case RedirectHome:
		return "redirect_home"
	}
	return "unknown"
}

// Decide evaluates a caller's role against the admin surface. It is called on
// every protected request and never cached, since role can change between
// sessions.
func Decide(signedIn bool, role domain.Role) Decision {
	if !signedIn {
		return RedirectToLogin
	}
	if role != domain.RoleAdmin && role != domain.RoleProductManager {
		return RedirectHome
	}
	return Allow
}
