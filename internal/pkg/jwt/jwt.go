package jwt

import (
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleStaff Role = "STAFF"
)

var ErrInvalidClaims = errors.New("token is missing required claims")

// Claims identifies the caller of an API request.
type Claims struct {
	UserID  string
	StaffID string
	Role    Role
}

func (c Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

type Service interface {
	GenerateAccessToken(claims Claims) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
}

func NewJWTService(secretKey string, accessTokenExpiration time.Duration) Service {
	return &JWTService{
		accessTokenExpiration: accessTokenExpiration,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(claims Claims) (token string, expiresAt int64, err error) {
	if claims.UserID == "" || claims.Role == "" {
		return "", 0, ErrInvalidClaims
	}
	expiresAt = time.Now().Add(j.accessTokenExpiration).Unix()

	payload := map[string]interface{}{
		"user_id": claims.UserID,
		"role":    string(claims.Role),
		"type":    "access",
		"exp":     expiresAt,
	}
	if claims.StaffID != "" {
		payload["staff_id"] = claims.StaffID
	}

	_, tokenString, err := j.tokenAuth.Encode(payload)
	return tokenString, expiresAt, err
}

// ClaimsFromMap reads Claims from a decoded access token.
func ClaimsFromMap(m map[string]interface{}) (Claims, error) {
	if tokenType, _ := m["type"].(string); tokenType != "access" {
		return Claims{}, ErrInvalidClaims
	}
	userID, _ := m["user_id"].(string)
	role, _ := m["role"].(string)
	if userID == "" || role == "" {
		return Claims{}, ErrInvalidClaims
	}
	staffID, _ := m["staff_id"].(string)
	return Claims{UserID: userID, StaffID: staffID, Role: Role(role)}, nil
}
