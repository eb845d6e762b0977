package models

import (
	"reflect"
	"testing"

	"github.com/anjan-ust/task-weaver-main/internal/types"
	"gorm.io/datatypes"
)

func TestRoleListNormalizesStoredEntries(t *testing.T) {
	user := User{Roles: datatypes.JSON(`["UserRole.DEVELOPER", "developer", "Manager"]`)}

	got := user.RoleList()
	want := []types.Role{types.RoleDeveloper, types.RoleManager}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("RoleList = %v, want %v", got, want)
	}
}

func TestRoleListSkipsUnparsableEntries(t *testing.T) {
	user := User{Roles: datatypes.JSON(`["Admin", "ghost"]`)}

	got := user.RoleList()

	if !reflect.DeepEqual(got, []types.Role{types.RoleAdmin}) {
		t.Fatalf("RoleList = %v, want [Admin]", got)
	}
}

func TestRoleListOnCorruptColumn(t *testing.T) {
	user := User{Roles: datatypes.JSON(`{"not":"a list"}`)}

	if got := user.RoleList(); got != nil {
		t.Fatalf("corrupt column must yield an empty set, got %v", got)
	}
}

func TestHasRole(t *testing.T) {
	user := User{Roles: datatypes.JSON(`["Developer"]`)}

	if !user.HasRole(types.RoleDeveloper) {
		t.Fatal("expected Developer membership")
	}

	if user.HasRole(types.RoleAdmin) {
		t.Fatal("unexpected Admin membership")
	}
}

func TestSetRolesRoundTrip(t *testing.T) {
	var user User

	if err := user.SetRoles([]types.Role{types.RoleDeveloper, types.RoleManager}); err != nil {
		t.Fatalf("SetRoles: %v", err)
	}

	got := user.RoleList()
	want := []types.Role{types.RoleDeveloper, types.RoleManager}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip = %v, want %v", got, want)
	}
}

func TestEncodeRoles(t *testing.T) {
	encoded, err := EncodeRoles([]types.Role{types.RoleAdmin})

	if err != nil {
		t.Fatalf("EncodeRoles: %v", err)
	}

	if string(encoded) != `["Admin"]` {
		t.Fatalf("EncodeRoles = %s", encoded)
	}
}
