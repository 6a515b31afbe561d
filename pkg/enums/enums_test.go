package enums

import "testing"

func TestParseAppRole(t *testing.T) {
	for _, role := range AppRoles() {
		got, err := ParseAppRole(role.String())
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", role, err)
		}
		if got != role {
			t.Fatalf("expected %q got %q", role, got)
		}
	}
	if _, err := ParseAppRole("owner"); err == nil {
		t.Fatal("expected error for unknown role")
	}
	if AppRole("Admin").IsValid() {
		t.Fatal("role parsing must be case sensitive")
	}
}

func TestAppRolesReturnsCopy(t *testing.T) {
	roles := AppRoles()
	roles[0] = "mutated"
	if AppRoles()[0] != AppRoleAdmin {
		t.Fatal("AppRoles must not expose the backing slice")
	}
}

func TestUserStatusValidity(t *testing.T) {
	if !UserStatusInactive.IsValid() {
		t.Fatal("inactive should be valid")
	}
	if _, err := ParseUserStatus("archived"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestEntityTypeParse(t *testing.T) {
	got, err := ParseEntityType("service_log")
	if err != nil || got != EntityTypeServiceLog {
		t.Fatalf("unexpected parse result %q %v", got, err)
	}
}
