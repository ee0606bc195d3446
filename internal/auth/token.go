package auth

import (
	"os"
	"time"

	autherrors "github.com/yhnjiuy4321/BankSystem/internal/auth/errors"
	"github.com/yhnjiuy4321/BankSystem/internal/user"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the hard expiry. The inactivity window is enforced separately
// by the session middleware.
const TokenTTL = 24 * time.Hour

type TokenIssuer struct {
	secret []byte
}

func NewTokenIssuer() *TokenIssuer {
	return &TokenIssuer{secret: []byte(os.Getenv("JWT_SECRET"))}
}

// Issue signs an HS256 token carrying the identity claims the session
// middleware reads back.
func (t *TokenIssuer) Issue(u *user.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"account":     u.Account,
		"role":        u.Role,
		"employee_id": u.EmployeeID,
		"name":        u.Name,
		"department":  u.Department,
		"position":    u.Position,
		"iat":         now.Unix(),
		"exp":         now.Add(TokenTTL).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", autherrors.ErrTokenGenerationFailed
	}
	return signed, nil
}
