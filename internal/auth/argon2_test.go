package auth

import (
	"strings"
	"testing"
)

func TestHashSecret_Format(t *testing.T) {
	t.Parallel()

	secret := "rcp_live_abc123_secretsecretsecretsecret1234"

	hash, err := HashSecret(secret)
	if err != nil {
		t.Fatalf("HashSecret failed: %v", err)
	}

	// Verify PHC format: $argon2id$v=19$m=65536,t=3,p=4$<salt>$<hash>
	if !strings.HasPrefix(hash, "$argon2id$v=") {
		t.Errorf("Hash should be in PHC format, got: %s", hash)
	}

	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		t.Errorf("Hash should have 6 parts, got: %d", len(parts))
	}

	// Verify parameters are correct
	if parts[1] != "argon2id" {
		t.Errorf("Expected argon2id algorithm, got: %s", parts[1])
	}
	if parts[2] != "v=19" {
		t.Errorf("Expected v=19, got: %s", parts[2])
	}
	if parts[3] != "m=65536,t=3,p=4" {
		t.Errorf("Expected m=65536,t=3,p=4, got: %s", parts[3])
	}
}

func TestHashSecret_Uniqueness(t *testing.T) {
	t.Parallel()

	secret := "the_same_secret_12345"

	hash1, err := HashSecret(secret)
	if err != nil {
		t.Fatalf("HashSecret failed: %v", err)
	}

	hash2, err := HashSecret(secret)
	if err != nil {
		t.Fatalf("HashSecret failed: %v", err)
	}

	// Same secret should produce different hashes (different salts)
	if hash1 == hash2 {
		t.Error("Same secret should produce different hashes due to random salt")
	}

	// But both should verify correctly
	for _, hash := range []string{hash1, hash2} {
		match, err := VerifySecret(secret, hash)
		if err != nil {
			t.Fatalf("VerifySecret failed: %v", err)
		}
		if !match {
			t.Error("Secret should verify against its own hash")
		}
	}
}

func TestVerifySecret(t *testing.T) {
	t.Parallel()

	secret := "rcp_test_aabbcc_00112233445566778899aabbccddeeff"

	hash, err := HashSecret(secret)
	if err != nil {
		t.Fatalf("HashSecret failed: %v", err)
	}

	tests := []struct {
		name      string
		secret    string
		hash      string
		wantMatch bool
		wantErr   bool
	}{
		{"correct secret", secret, hash, true, false},
		{"wrong secret", "rcp_test_aabbcc_ffffffffffffffffffffffffffffffff", hash, false, false},
		{"empty secret", "", hash, false, false},
		{"malformed hash", secret, "not-a-phc-string", false, true},
		{"wrong algorithm", secret, "$bcrypt$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA", false, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			match, err := VerifySecret(tt.secret, tt.hash)
			if (err != nil) != tt.wantErr {
				t.Fatalf("VerifySecret error = %v, wantErr %v", err, tt.wantErr)
			}
			if match != tt.wantMatch {
				t.Errorf("VerifySecret match = %v, want %v", match, tt.wantMatch)
			}
		})
	}
}

func TestQuickHash(t *testing.T) {
	t.Parallel()

	h1 := QuickHash("rcp_live_abc123_secret")
	h2 := QuickHash("rcp_live_abc123_secret")
	h3 := QuickHash("rcp_live_abc123_other")

	if h1 != h2 {
		t.Error("QuickHash should be deterministic")
	}
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 32 {
		t.Errorf("QuickHash should be 32 hex chars, got %d", len(h1))
	}
}
