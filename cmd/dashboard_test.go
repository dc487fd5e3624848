package cmd

import (
	"testing"

	"github.com/spigell/tutorhub/internal/marketplace"
)

func TestDashboardRole(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"student":   marketplace.RoleStudent,
		"Student":   marketplace.RoleStudent,
		" TEACHER ": marketplace.RoleTeacher,
		"teacher":   marketplace.RoleTeacher,
		"admin":     "",
		"":          "",
	}

	for role, want := range tests {
		if got := dashboardRole(role); got != want {
			t.Fatalf("dashboardRole(%q) = %q, want %q", role, got, want)
		}
	}
}
