package domain

import (
	"strings"
	"time"
)

type Role struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// ParseRoleList splits a semicolon-delimited configuration string like
// "Admin;Moderator" into trimmed role names.
func ParseRoleList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ";") {
		if name := strings.TrimSpace(part); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// RolesIntersect reports whether any live role matches any required role.
// Comparison is case-insensitive: a requirement of "Admin" is satisfied by a
// stored "admin".
func RolesIntersect(live, required []string) bool {
	want := make(map[string]struct{}, len(required))
	for _, r := range required {
		want[strings.ToLower(strings.TrimSpace(r))] = struct{}{}
	}
	for _, r := range live {
		if _, ok := want[strings.ToLower(strings.TrimSpace(r))]; ok {
			return true
		}
	}
	return false
}
