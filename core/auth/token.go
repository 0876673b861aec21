package auth

import (
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"

	"github.com/zhurnalapp/zhurnal/core"
)

var (
	NowFunc = time.Now // mockable

	// ErrTokenMalformed and ErrTokenExpired both reject a request; they are
	// distinguished for diagnostic messaging only.
	ErrTokenMalformed = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
)

// Claims is the decoded, verified payload of a session token.
type Claims struct {
	jwt.StandardClaims
	UserID int    `json:"id"`
	Login  string `json:"login"`
	Role   Role   `json:"role"`
	Name   string `json:"name"`
}

func (c *Claims) Principal() Principal {
	return Principal{ID: c.UserID, Login: c.Login, Role: c.Role, Name: c.Name}
}

// NewClaims builds the claim set for a freshly authenticated principal.
func NewClaims(p Principal, conf *core.Config) *Claims {
	now := NowFunc()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   strconv.Itoa(p.ID),
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		UserID: p.ID,
		Login:  p.Login,
		Role:   p.Role,
		Name:   p.Name,
	}
}

// GenerateToken signs claims into a compact token string.
func GenerateToken(claims *Claims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString(secret)
	return ss, errors.Wrap(err, "signing token")
}

// VerifyToken parses and validates a token string. Verification is
// stateless: a token stays valid until its expiry, there is no revocation
// list.
func VerifyToken(tokenStr string, secret []byte) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenMalformed
		}
		return secret, nil
	})
	if err != nil {
		if vErr, ok := err.(*jwt.ValidationError); ok && vErr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}
	if !token.Valid || !claims.Role.Valid() {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}
