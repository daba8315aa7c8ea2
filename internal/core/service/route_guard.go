package service

import (
	"fmt"
	"strings"

	"github.com/kalafo/kalafo-go/internal/core/domain"
)

// GuardState is one axis of the route-guard decision: anonymous, or
// authenticated as a specific role.
type GuardState struct {
	Authenticated bool
	Role          domain.Role
}

// Anonymous is the guard state of a session with no credential.
func Anonymous() GuardState { return GuardState{} }

// AuthenticatedAs is the guard state of a live session.
func AuthenticatedAs(role domain.Role) GuardState {
	return GuardState{Authenticated: true, Role: role}
}

// GuardStateOf derives the guard state from a session.
func GuardStateOf(s domain.Session) GuardState {
	if !s.Authenticated() {
		return Anonymous()
	}
	return AuthenticatedAs(s.Role())
}

// Decision is the outcome of evaluating one (state, path) pair.
type Decision struct {
	Allow      bool
	RedirectTo string // set exactly when Allow is false
}

func allowed() Decision { return Decision{Allow: true} }

func redirect(to string) Decision { return Decision{RedirectTo: to} }

// pathSet is a set of exact paths and subtree prefixes.
type pathSet struct {
	exact    []string
	prefixes []string
}

func (p pathSet) contains(path string) bool {
	for _, e := range p.exact {
		if path == e {
			return true
		}
	}
	for _, pre := range p.prefixes {
		if underPrefix(path, pre) {
			return true
		}
	}
	return false
}

// underPrefix reports whether path is prefix itself or inside its subtree.
// "/dashboard/doc" is not under "/dashboard/doctor".
func underPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// RoutePolicy is the static permission table: per role, the set of
// permitted paths and exactly one home path. It is configuration, never
// mutated at runtime.
type RoutePolicy struct {
	// SignInPath is where anonymous visitors to protected paths land.
	SignInPath string
	// ProtectedPrefix roots the authenticated surface.
	ProtectedPrefix string
	// anonOnly is the sign-in/landing surface; authenticated users are
	// bounced from it to their role home.
	anonOnly  pathSet
	homes     map[domain.Role]string
	permitted map[domain.Role]pathSet
}

// DefaultRoutePolicy mirrors the application's route tree: admin owns the
// whole dashboard, doctors own only their subtree, patients get the
// dashboard root plus a fixed allow-list of sections.
func DefaultRoutePolicy() RoutePolicy {
	return RoutePolicy{
		SignInPath:      "/auth",
		ProtectedPrefix: "/dashboard",
		anonOnly: pathSet{
			exact:    []string{"/"},
			prefixes: []string{"/auth"},
		},
		homes: map[domain.Role]string{
			domain.RoleAdmin:   "/dashboard/admin",
			domain.RoleDoctor:  "/dashboard/doctor",
			domain.RolePatient: "/dashboard",
		},
		permitted: map[domain.Role]pathSet{
			domain.RoleAdmin: {
				prefixes: []string{"/dashboard"},
			},
			domain.RoleDoctor: {
				prefixes: []string{"/dashboard/doctor"},
			},
			domain.RolePatient: {
				exact: []string{"/dashboard"},
				prefixes: []string{
					"/dashboard/appointments",
					"/dashboard/history",
					"/dashboard/health-data",
					"/dashboard/profile",
				},
			},
		},
	}
}

// Home returns the role's home path.
func (p RoutePolicy) Home(role domain.Role) string {
	return p.homes[role]
}

// Validate enforces the policy invariant: every role has exactly one home
// path, and that home is permitted for the role.
func (p RoutePolicy) Validate() error {
	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleDoctor, domain.RolePatient} {
		home, ok := p.homes[role]
		if !ok || home == "" {
			return fmt.Errorf("route policy: role %q has no home path", role)
		}
		if !p.permitted[role].contains(home) {
			return fmt.Errorf("route policy: home %q is not permitted for role %q", home, role)
		}
	}
	return nil
}

// Decide maps (state, path) to allow or a redirect. No permission error is
// ever shown: an out-of-bounds path resolves by silent redirect to owned
// territory. Pure; evaluated fresh on every navigation and session change.
func (p RoutePolicy) Decide(state GuardState, path string) Decision {
	if !state.Authenticated {
		if underPrefix(path, p.ProtectedPrefix) {
			return redirect(p.SignInPath)
		}
		return allowed()
	}

	// A session claiming a role outside the closed set gets no territory
	// at all; send it to sign-in.
	if !state.Role.Valid() {
		return redirect(p.SignInPath)
	}

	if p.anonOnly.contains(path) {
		return redirect(p.Home(state.Role))
	}

	if underPrefix(path, p.ProtectedPrefix) && !p.permitted[state.Role].contains(path) {
		return redirect(p.Home(state.Role))
	}

	return allowed()
}
