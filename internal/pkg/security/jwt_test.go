package security

import (
	"testing"
)

func TestGenerateAndValidateToken(t *testing.T) {
	SetSecret("test-secret")

	token, err := GenerateToken(42)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}

	sig, err := ExtractSignature(token)
	if err != nil || sig == "" {
		t.Errorf("ExtractSignature() = %q, %v", sig, err)
	}
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	SetSecret("secret-a")
	token, err := GenerateToken(7)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	SetSecret("secret-b")
	if _, err := ValidateToken(token); err == nil {
		t.Error("token signed with another secret was accepted")
	}
}

func TestExtractSignatureMalformed(t *testing.T) {
	if _, err := ExtractSignature("not-a-jwt"); err == nil {
		t.Error("expected error for malformed token")
	}
}
