package auth

import (
	"testing"

	"github.com/arnavshah/roster-optimizer/pkg/database"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestHMACKeyRoundTrip(t *testing.T) {
	a := New("jwt-secret", "master-secret")

	key := a.GenerateHMACKey("acme-home-care")
	name, err := a.VerifyHMACKey(key)
	if err != nil {
		t.Fatalf("verify key: %v", err)
	}
	if name != "acme-home-care" {
		t.Errorf("unexpected key name %q", name)
	}

	other := New("jwt-secret", "different-secret")
	if _, err := other.VerifyHMACKey(key); err == nil {
		t.Error("key signed with another secret should be rejected")
	}
	for _, bad := range []string{"", "nodot", ".sig", "a.b.c"} {
		if _, err := a.VerifyHMACKey(bad); err == nil {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
}

func TestTokenRoundTrip(t *testing.T) {
	a := New("jwt-secret", "master-secret")

	token, err := a.CreateToken("operator")
	if err != nil {
		t.Fatalf("create token: %v", err)
	}
	claims, err := a.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if claims.Username != "operator" {
		t.Errorf("unexpected username %q", claims.Username)
	}

	if _, err := New("other", "master-secret").VerifyToken(token); err == nil {
		t.Error("token signed with another secret should be rejected")
	}
}

func TestKeyPreview(t *testing.T) {
	if got := KeyPreview("acme.0123456789abcdef"); got != "acm...cdef" {
		t.Errorf("unexpected preview %q", got)
	}
	if got := KeyPreview("short"); got != "****" {
		t.Errorf("unexpected preview %q", got)
	}
}

func TestEnsureAdminExists(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&database.MasterUser{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if err := EnsureAdminExists(db, "admin", "pa55word", zerolog.Nop()); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}
	if err := EnsureAdminExists(db, "other", "ignored", zerolog.Nop()); err != nil {
		t.Fatalf("ensure admin again: %v", err)
	}

	var users []database.MasterUser
	db.Find(&users)
	if len(users) != 1 || users[0].Username != "admin" {
		t.Fatalf("expected a single admin, got %+v", users)
	}
	if !CheckPasswordHash("pa55word", users[0].PasswordHash) {
		t.Error("stored hash does not match password")
	}
}
