package auth

import (
	"context"
	"testing"

	"github.com/dukerupert/siag/internal/access"
)

func TestWithAuthAndFromContext(t *testing.T) {
	ac := AuthContext{
		UserID:    1,
		Name:      "Carla Mendes",
		Role:      access.RoleHR,
		SessionID: 3,
		Token:     "tok",
	}

	ctx := WithAuth(context.Background(), ac)
	got, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected AuthContext in context")
	}
	if got != ac {
		t.Errorf("got %+v, want %+v", got, ac)
	}
	if UserID(ctx) != 1 {
		t.Errorf("UserID = %d, want 1", UserID(ctx))
	}
}

func TestFromContextMissing(t *testing.T) {
	_, ok := FromContext(context.Background())
	if ok {
		t.Error("expected false for missing AuthContext")
	}
	if UserID(context.Background()) != 0 {
		t.Error("expected zero user id without auth")
	}
}

func TestViewer(t *testing.T) {
	ctx := WithAuth(context.Background(), AuthContext{Name: "Bruno Alves", Role: access.RoleSales})
	v := Viewer(ctx)
	if v.Name != "Bruno Alves" || v.Role != access.RoleSales {
		t.Errorf("got %+v", v)
	}

	anon := Viewer(context.Background())
	if anon.Role != access.RoleUnknown || anon.Name != "" {
		t.Errorf("anonymous viewer = %+v, want unknown role", anon)
	}
}

func TestIsAdmin(t *testing.T) {
	tests := []struct {
		role access.Role
		want bool
	}{
		{access.RoleAdmin, true},
		{access.RoleInternalLegalLead, false},
		{access.RoleHR, false},
	}
	for _, tt := range tests {
		ctx := WithAuth(context.Background(), AuthContext{Role: tt.role})
		if got := IsAdmin(ctx); got != tt.want {
			t.Errorf("IsAdmin(%s) = %v, want %v", tt.role, got, tt.want)
		}
	}
	if IsAdmin(context.Background()) {
		t.Error("IsAdmin without auth = true")
	}
}
