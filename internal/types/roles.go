package types

import (
	"strings"

	"github.com/anjan-ust/task-weaver-main/internal/apperr"
)

type Role string

const (
	RoleAdmin     Role = "Admin"
	RoleManager   Role = "Manager"
	RoleDeveloper Role = "Developer"
)

// ParseRole normalizes every external role representation into the
// canonical closed set. Legacy data stored dotted enum names like
// "UserRole.DEVELOPER", so the suffix after the last dot is what counts.
func ParseRole(raw string) (Role, error) {
	value := strings.TrimSpace(raw)

	if idx := strings.LastIndex(value, "."); idx >= 0 {
		value = value[idx+1:]
	}

	switch strings.ToLower(value) {
	case "admin":
		return RoleAdmin, nil
	case "manager":
		return RoleManager, nil
	case "developer", "dev":
		return RoleDeveloper, nil
	}

	return "", apperr.Newf(apperr.InvalidPayload, "Unknown role: %s", raw)
}

// NormalizeRoles parses a raw role list, suppressing duplicates and
// preserving first-seen order. Unknown entries fail the whole list.
func NormalizeRoles(raw []string) ([]Role, error) {
	var roles []Role

	for _, entry := range raw {
		role, err := ParseRole(entry)

		if err != nil {
			return nil, err
		}

		if !ContainsRole(roles, role) {
			roles = append(roles, role)
		}
	}

	return roles, nil
}

func ContainsRole(roles []Role, role Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
