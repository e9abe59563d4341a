package auth

import (
	"errors"
	"log"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt"
)

var (
	keyMu  sync.RWMutex
	jwtKey []byte
)

func init() {
	key := os.Getenv("JWT_KEY")
	if key == "" {
		log.Println("WARNING: JWT_KEY is not set, using insecure fallback. Set JWT_KEY in env for production!")
		key = "insecure-development-key-change-me"
	}
	jwtKey = []byte(key)
}

// SetKey replaces the signing key, normally with the configured JWT_KEY.
func SetKey(key string) {
	keyMu.Lock()
	defer keyMu.Unlock()
	jwtKey = []byte(key)
}

func signingKey() []byte {
	keyMu.RLock()
	defer keyMu.RUnlock()
	return jwtKey
}

// TokenTTL matches the access token lifetime of the accounts service.
const TokenTTL = 72 * time.Hour

type Claims struct {
	UserID uint `json:"user_id"`
	jwt.StandardClaims
}

func GenerateToken(userID uint) (string, error) {
	claims := &Claims{
		UserID: userID,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(TokenTTL).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(signingKey())
}

func ValidateToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return signingKey(), nil
	})

	if err != nil {
		return nil, err
	}

	if !tkn.Valid {
		return nil, jwt.ErrSignatureInvalid
	}

	if claims.UserID == 0 {
		return nil, errors.New("token has no subject")
	}

	return claims, nil
}

// TokenFromQuery returns the first "token" parameter of a raw query string.
func TokenFromQuery(rawQuery string) string {
	values, _ := url.ParseQuery(rawQuery)
	if tokens := values["token"]; len(tokens) > 0 {
		return tokens[0]
	}
	return ""
}

// TokenFromHeader extracts a bearer token from an Authorization header value.
func TokenFromHeader(header string) string {
	const prefix = "bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
