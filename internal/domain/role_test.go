package domain

import (
	"testing"
	"time"
)

func TestRoleMeets(t *testing.T) {
	cases := []struct {
		role AdminRole
		min  AdminRole
		want bool
	}{
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleViewer, true},
		{RoleViewer, RoleViewer, true},
		{RoleViewer, RoleAdmin, false},
		{AdminRole("bogus"), RoleViewer, false},
		{AdminRole(""), RoleViewer, false},
		{RoleUnassigned, RoleViewer, false},
		{RoleUnassigned, RoleAdmin, false},
	}
	for _, tc := range cases {
		if got := tc.role.Meets(tc.min); got != tc.want {
			t.Errorf("%q.Meets(%q) = %v, want %v", tc.role, tc.min, got, tc.want)
		}
	}
}

func TestRoleValid(t *testing.T) {
	if !RoleAdmin.Valid() || !RoleViewer.Valid() {
		t.Error("known roles reported invalid")
	}
	if AdminRole("root").Valid() {
		t.Error("unknown role reported valid")
	}
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()
	s := Session{ExpiresAt: now.Add(time.Minute)}
	if s.Expired(now) {
		t.Error("live session reported expired")
	}
	if !s.Expired(now.Add(time.Minute)) {
		t.Error("session not expired exactly at expiry")
	}
	if !s.Expired(now.Add(2 * time.Minute)) {
		t.Error("past-expiry session reported live")
	}
}
