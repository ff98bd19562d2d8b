package models

import "testing"

func TestCanModerate(t *testing.T) {
	cases := []struct {
		name    string
		userID  uint
		role    string
		ownerID uint
		want    bool
	}{
		{"author", 7, RoleConsumer, 7, true},
		{"admin on foreign resource", 1, RoleAdmin, 7, true},
		{"admin on own resource", 7, RoleAdmin, 7, true},
		{"other consumer", 2, RoleConsumer, 7, false},
		{"producer is not admin", 2, RoleProducer, 7, false},
		{"expert is not admin", 2, RoleExpert, 7, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanModerate(tc.userID, tc.role, tc.ownerID); got != tc.want {
				t.Errorf("CanModerate(%d, %q, %d) = %t, want %t", tc.userID, tc.role, tc.ownerID, got, tc.want)
			}
		})
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleConsumer, RoleProducer, RoleAdmin, RoleExpert} {
		if !ValidRole(role) {
			t.Errorf("ValidRole(%q) = false", role)
		}
	}
	for _, role := range []string{"", "moderator", "ADMIN"} {
		if ValidRole(role) {
			t.Errorf("ValidRole(%q) = true", role)
		}
	}
}
