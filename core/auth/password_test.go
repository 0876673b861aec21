package auth

import "testing"

func TestHashCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cr3t-pwd")
	if err != nil {
		t.Fatalf("HashPassword() failed: %v", err)
	}

	tests := []struct {
		name string
		pwd  string
		hash []byte
		want bool
	}{
		{name: "matching password", pwd: "s3cr3t-pwd", hash: hash, want: true},
		{name: "wrong password", pwd: "s3cr3t-pwe", hash: hash, want: false},
		{name: "empty password", pwd: "", hash: hash, want: false},
		{name: "malformed hash", pwd: "s3cr3t-pwd", hash: []byte("not-a-bcrypt-hash"), want: false},
		{name: "empty hash", pwd: "s3cr3t-pwd", hash: nil, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckPassword(tt.pwd, tt.hash); got != tt.want {
				t.Errorf("CheckPassword() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHashPasswordSalted(t *testing.T) {
	h1, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword() failed: %v", err)
	}
	h2, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword() failed: %v", err)
	}
	if string(h1) == string(h2) {
		t.Error("HashPassword() produced identical hashes for two calls; salt missing?")
	}
}
