package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/config"
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired      = errors.New("token has expired, login again")
	ErrTokenInvalid      = errors.New("not authorized, login again")
	ErrTokenRoleMismatch = errors.New("token was not issued for this role")
)

type aarogyaClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
}

type JWTManager struct {
	cfg config.JWTConfig
}

func NewJWTManager(cfg config.JWTConfig) *JWTManager {
	return &JWTManager{cfg: cfg}
}

// Issue signs a token for the given caller. Account and practitioner tokens
// carry the subject id; operator tokens carry only the email.
func (m *JWTManager) Issue(claims *domain.Claims) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(m.cfg.TokenTTL)

	var subject string
	if claims.SubjectID != uuid.Nil {
		subject = claims.SubjectID.String()
	}

	jwtClaims := aarogyaClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.cfg.Issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			// 10 seconds of skew tolerance for clock drift
			NotBefore: jwt.NewNumericDate(now.Add(-10 * time.Second)),
		},
		Email: claims.Email,
		Role:  string(claims.Role),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims)
	signed, err := token.SignedString([]byte(m.cfg.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}

	return signed, expiresAt, nil
}

// Validate verifies signature, issuer and expiry, and that the token was
// issued for the expected role.
func (m *JWTManager) Validate(tokenString string, expected domain.Role) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&aarogyaClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(m.cfg.Secret), nil
		},
		jwt.WithIssuer(m.cfg.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*aarogyaClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	if domain.Role(claims.Role) != expected {
		return nil, ErrTokenRoleMismatch
	}

	out := &domain.Claims{Email: claims.Email, Role: expected}
	if expected != domain.RoleOperator {
		id, err := uuid.Parse(claims.Subject)
		if err != nil {
			return nil, ErrTokenInvalid
		}
		out.SubjectID = id
	}

	return out, nil
}
