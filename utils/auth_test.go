package utils_test

import (
	"errors"
	"os"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"opsdesk-backend/utils"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := utils.HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("password stored in the clear")
	}
	if !utils.CheckPasswordHash("s3cret-pass", hash) {
		t.Fatal("correct password rejected")
	}
	if utils.CheckPasswordHash("wrong-pass", hash) {
		t.Fatal("wrong password accepted")
	}
}

func TestGenerateTokenClaims(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")

	signed, err := utils.GenerateToken("user-42", "user@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	token, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte("unit-test-secret"), nil
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !token.Valid {
		t.Fatal("parsed token is not valid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("claims are not MapClaims")
	}
	if claims["sub"] != "user-42" {
		t.Errorf("sub = %v, want user-42", claims["sub"])
	}
	if claims["email"] != "user@example.com" {
		t.Errorf("email = %v, want user@example.com", claims["email"])
	}
	if _, ok := claims["exp"].(float64); !ok {
		t.Error("exp claim missing")
	}
}

func TestGenerateTokenRequiresSecret(t *testing.T) {
	old := os.Getenv("JWT_SECRET")
	os.Unsetenv("JWT_SECRET")
	t.Cleanup(func() { os.Setenv("JWT_SECRET", old) })

	if _, err := utils.GenerateToken("user-42", "user@example.com"); err == nil {
		t.Fatal("expected an error without JWT_SECRET")
	}
}
