package auth

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"

	"github.com/zhurnalapp/zhurnal/core"
)

var testSecret = []byte("test-secret")

func testConfig() *core.Config {
	conf := &core.Config{AppName: "Zhurnal"}
	conf.Server.JWTExpirationDelta = 24 * time.Hour
	return conf
}

func TestGenerateVerifyToken(t *testing.T) {
	conf := testConfig()
	p := Principal{ID: 7, Login: "ivanov", Role: RoleStudent, Name: "Ivan Ivanov"}

	token, err := GenerateToken(NewClaims(p, conf), testSecret)
	if err != nil {
		t.Fatalf("GenerateToken() failed: %v", err)
	}

	claims, err := VerifyToken(token, testSecret)
	if err != nil {
		t.Fatalf("VerifyToken() error = %v, want nil", err)
	}
	if got := claims.Principal(); got != p {
		t.Errorf("Principal() = %+v, want %+v", got, p)
	}

	// altering any character must yield a malformed token
	tampered := []byte(token)
	if tampered[len(tampered)-1] == 'A' {
		tampered[len(tampered)-1] = 'B'
	} else {
		tampered[len(tampered)-1] = 'A'
	}
	if _, err = VerifyToken(string(tampered), testSecret); err != ErrTokenMalformed {
		t.Errorf("VerifyToken(tampered) error = %v, want %v", err, ErrTokenMalformed)
	}
}

func TestVerifyTokenExpired(t *testing.T) {
	conf := testConfig()
	p := Principal{ID: 1, Login: "petrov", Role: RoleTeacher, Name: "Petr Petrov"}

	// issue a token 25h in the past; with a 24h ttl it is already expired
	NowFunc = func() time.Time { return time.Now().Add(-25 * time.Hour) }
	token, err := GenerateToken(NewClaims(p, conf), testSecret)
	NowFunc = time.Now // reset
	if err != nil {
		t.Fatalf("GenerateToken() failed: %v", err)
	}

	if _, err = VerifyToken(token, testSecret); err != ErrTokenExpired {
		t.Errorf("VerifyToken(expired) error = %v, want %v", err, ErrTokenExpired)
	}
}

func TestVerifyTokenRejects(t *testing.T) {
	conf := testConfig()

	unknownRole := NewClaims(Principal{ID: 2, Login: "x", Role: Role("admin"), Name: "X"}, conf)
	unknownRoleToken, err := GenerateToken(unknownRole, testSecret)
	if err != nil {
		t.Fatalf("GenerateToken() failed: %v", err)
	}

	// token signed with alg=none must not verify
	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, NewClaims(Principal{ID: 3, Login: "y", Role: RoleStudent, Name: "Y"}, conf)).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("signing none token failed: %v", err)
	}

	wrongKeyToken, err := GenerateToken(NewClaims(Principal{ID: 4, Login: "z", Role: RoleStudent, Name: "Z"}, conf), []byte("other-secret"))
	if err != nil {
		t.Fatalf("GenerateToken() failed: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "lmaooolol"},
		{name: "unknown role", token: unknownRoleToken},
		{name: "alg none", token: noneToken},
		{name: "wrong key", token: wrongKeyToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := VerifyToken(tt.token, testSecret); err != ErrTokenMalformed {
				t.Errorf("VerifyToken() error = %v, want %v", err, ErrTokenMalformed)
			}
		})
	}
}
