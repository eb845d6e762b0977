package types

import (
	"reflect"
	"testing"

	"github.com/anjan-ust/task-weaver-main/internal/apperr"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		raw  string
		want Role
	}{
		{"Admin", RoleAdmin},
		{"admin", RoleAdmin},
		{"ADMIN", RoleAdmin},
		{" Manager ", RoleManager},
		{"Developer", RoleDeveloper},
		{"dev", RoleDeveloper},
		{"UserRole.DEVELOPER", RoleDeveloper},
		{"UserRole.MANAGER", RoleManager},
		{"userrole.admin", RoleAdmin},
	}

	for _, tt := range tests {
		got, err := ParseRole(tt.raw)

		if err != nil {
			t.Fatalf("ParseRole(%q): %v", tt.raw, err)
		}

		if got != tt.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestParseRoleRejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "intern", "UserRole.INTERN", "管理者"} {
		_, err := ParseRole(raw)

		if err == nil {
			t.Fatalf("ParseRole(%q) accepted an unknown role", raw)
		}

		if kind, ok := apperr.KindOf(err); !ok || kind != apperr.InvalidPayload {
			t.Errorf("ParseRole(%q) kind = %v, want InvalidPayload", raw, kind)
		}
	}
}

func TestNormalizeRoles(t *testing.T) {
	got, err := NormalizeRoles([]string{"admin", "UserRole.ADMIN", "dev", "Developer", "Manager"})

	if err != nil {
		t.Fatalf("NormalizeRoles: %v", err)
	}

	want := []Role{RoleAdmin, RoleDeveloper, RoleManager}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("NormalizeRoles = %v, want %v", got, want)
	}
}

func TestNormalizeRolesFailsWholeList(t *testing.T) {
	if _, err := NormalizeRoles([]string{"admin", "plumber"}); err == nil {
		t.Fatal("expected an unknown entry to fail the whole list")
	}
}

func TestParseStatus(t *testing.T) {
	for raw, want := range map[string]TaskStatus{
		"TO_DO":       StatusToDo,
		"in_progress": StatusInProgress,
		" REVIEW ":    StatusReview,
		"done":        StatusDone,
	} {
		got, err := ParseStatus(raw)

		if err != nil {
			t.Fatalf("ParseStatus(%q): %v", raw, err)
		}

		if got != want {
			t.Errorf("ParseStatus(%q) = %q, want %q", raw, got, want)
		}
	}

	if _, err := ParseStatus("CLOSED"); err == nil {
		t.Fatal("ParseStatus accepted a status outside the workflow")
	}
}

func TestParsePriority(t *testing.T) {
	for raw, want := range map[string]TaskPriority{
		"HIGH":   PriorityHigh,
		"medium": PriorityMedium,
		" low ":  PriorityLow,
	} {
		got, err := ParsePriority(raw)

		if err != nil {
			t.Fatalf("ParsePriority(%q): %v", raw, err)
		}

		if got != want {
			t.Errorf("ParsePriority(%q) = %q, want %q", raw, got, want)
		}
	}

	if _, err := ParsePriority("urgent"); err == nil {
		t.Fatal("ParsePriority accepted an unknown level")
	}
}

func TestParseUserStatus(t *testing.T) {
	if got, err := ParseUserStatus("Active"); err != nil || got != UserActive {
		t.Fatalf("ParseUserStatus(Active) = %q, %v", got, err)
	}

	if _, err := ParseUserStatus("suspended"); err == nil {
		t.Fatal("ParseUserStatus accepted an unknown state")
	}
}
