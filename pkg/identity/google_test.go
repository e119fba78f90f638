package identity

import (
	"errors"
	"testing"
)

func TestIdentityFromClaims(t *testing.T) {
	id, err := identityFromClaims(map[string]interface{}{
		"email":          " AB123@Cornell.edu ",
		"email_verified": true,
		"name":           "Alex Big Red",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.Email != "ab123@cornell.edu" {
		t.Errorf("expected normalized email, got %q", id.Email)
	}
	if id.FullName != "Alex Big Red" {
		t.Errorf("expected full name, got %q", id.FullName)
	}
}

func TestIdentityFromClaims_NameFallsBackToLocalPart(t *testing.T) {
	id, err := identityFromClaims(map[string]interface{}{
		"email":          "xy9@cornell.edu",
		"email_verified": true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.FullName != "xy9" {
		t.Errorf("expected xy9, got %q", id.FullName)
	}
}

func TestIdentityFromClaims_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		claims map[string]interface{}
		want   error
	}{
		{"missing email", map[string]interface{}{"email_verified": true}, ErrInvalidAssertion},
		{"malformed email", map[string]interface{}{"email": "nobody", "email_verified": true}, ErrInvalidAssertion},
		{"unverified", map[string]interface{}{"email": "a@cornell.edu", "email_verified": false}, ErrEmailUnverified},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := identityFromClaims(tc.claims)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestEmailInDomain(t *testing.T) {
	if !EmailInDomain("ab1@cornell.edu", "cornell.edu") {
		t.Error("cornell address should match")
	}
	if EmailInDomain("ab1@notcornell.edu", "cornell.edu") {
		t.Error("suffix without @ boundary must not match")
	}
	if !EmailInDomain("anyone@example.com", "") {
		t.Error("empty domain allows everything")
	}
}
