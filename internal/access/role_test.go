package access

import "testing"

func TestParseRoleRoundTrip(t *testing.T) {
	for _, r := range Roles() {
		got, err := ParseRole(r.String())
		if err != nil {
			t.Fatalf("ParseRole(%q): %v", r, err)
		}
		if got != r {
			t.Errorf("ParseRole(%q) = %v, want %v", r.String(), got, r)
		}
	}
}

func TestParseRoleEmptyIsNone(t *testing.T) {
	got, err := ParseRole("")
	if err != nil {
		t.Fatalf("ParseRole empty: %v", err)
	}
	if got != RoleNone {
		t.Errorf("ParseRole(\"\") = %v, want RoleNone", got)
	}
}

func TestParseRoleUnknown(t *testing.T) {
	got, err := ParseRole("auditor")
	if err == nil {
		t.Fatal("expected error for unknown role")
	}
	if got != RoleUnknown {
		t.Errorf("ParseRole(auditor) = %v, want RoleUnknown", got)
	}
	if got.String() != "unknown" {
		t.Errorf("String = %q, want %q", got.String(), "unknown")
	}
}

func TestParseRoleNormalizes(t *testing.T) {
	got, err := ParseRole("  Admin ")
	if err != nil {
		t.Fatalf("ParseRole: %v", err)
	}
	if got != RoleAdmin {
		t.Errorf("got %v, want RoleAdmin", got)
	}
}

func TestRoleTextMarshaling(t *testing.T) {
	b, err := RoleExternalLawyer.MarshalText()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "external_lawyer" {
		t.Errorf("marshal = %q, want %q", b, "external_lawyer")
	}

	var r Role
	if err := r.UnmarshalText([]byte("fleet")); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r != RoleFleet {
		t.Errorf("unmarshal = %v, want RoleFleet", r)
	}
	if err := r.UnmarshalText([]byte("nope")); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestUnrestricted(t *testing.T) {
	for _, r := range Roles() {
		want := r == RoleAdmin || r == RoleInternalLegalLead
		if got := r.Unrestricted(); got != want {
			t.Errorf("%s.Unrestricted() = %v, want %v", r, got, want)
		}
	}
	if !RoleNone.Unrestricted() {
		t.Error("RoleNone should be unrestricted")
	}
}
