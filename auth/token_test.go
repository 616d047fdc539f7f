package auth

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"algocom-api/model"
)

func TestTokenRoundTrip(t *testing.T) {
	user := model.User{
		ID:       primitive.NewObjectID(),
		Username: "bob",
		Role:     model.RoleReader,
	}

	token, err := GenerateToken("test-secret", time.Hour, user)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	claims, err := ValidateToken("test-secret", token)
	if err != nil {
		t.Fatalf("ValidateToken returned error: %v", err)
	}

	if claims.UserID != user.ID.Hex() {
		t.Fatalf("expected userId %s, got %s", user.ID.Hex(), claims.UserID)
	}
	if claims.Username != "bob" {
		t.Fatalf("expected username bob, got %s", claims.Username)
	}
	if claims.Role != model.RoleReader {
		t.Fatalf("expected role %s, got %s", model.RoleReader, claims.Role)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	user := model.User{ID: primitive.NewObjectID(), Username: "bob"}

	token, err := GenerateToken("secret-a", time.Hour, user)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	if _, err := ValidateToken("secret-b", token); err == nil {
		t.Fatal("expected validation to fail with wrong secret")
	}
}

func TestTokenExpired(t *testing.T) {
	user := model.User{ID: primitive.NewObjectID(), Username: "bob"}

	token, err := GenerateToken("test-secret", -time.Minute, user)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	if _, err := ValidateToken("test-secret", token); err == nil {
		t.Fatal("expected validation to fail for expired token")
	}
}

func TestTokenGarbage(t *testing.T) {
	if _, err := ValidateToken("test-secret", "not-a-token"); err == nil {
		t.Fatal("expected validation to fail for garbage input")
	}
}
