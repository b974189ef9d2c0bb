package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type JWTService struct {
	secret           []byte
	expiry           time.Duration
	refreshExpiry    time.Duration
	orgPointerExpiry time.Duration
}

// AccessClaims deliberately carry no organization or role. The active
// organization and the caller's role in it are resolved fresh on every
// request from the membership store; baking them into the token would let a
// demoted or removed user keep stale capability until expiry.
type AccessClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// OrgPointerClaims is the payload of the active-organization cookie: a
// tamper-evident pointer to an organization, bound to the user it was issued
// for. It is a hint only; membership is re-checked server-side on every use.
type OrgPointerClaims struct {
	UserID         string `json:"user_id"`
	OrganizationID string `json:"organization_id"`
	jwt.RegisteredClaims
}

func NewJWTService(secret string, expiry, refreshExpiry, orgPointerExpiry time.Duration) *JWTService {
	return &JWTService{
		secret:           []byte(secret),
		expiry:           expiry,
		refreshExpiry:    refreshExpiry,
		orgPointerExpiry: orgPointerExpiry,
	}
}

func (s *JWTService) GenerateAccessToken(userID, email string) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "hr-platform",
			Subject:   userID,
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *JWTService) GenerateRefreshToken(userID string) (string, error) {
	now := time.Now()
	claims := RefreshClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "hr-platform",
			Subject:   userID,
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *JWTService) ValidateAccessToken(tokenString string) (*AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, s.keyFunc)
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*AccessClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

func (s *JWTService) ValidateRefreshToken(tokenString string) (*RefreshClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &RefreshClaims{}, s.keyFunc)
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*RefreshClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid refresh token")
}

// GenerateOrgPointer signs an active-organization pointer for userID.
func (s *JWTService) GenerateOrgPointer(userID, organizationID string) (string, error) {
	now := time.Now()
	claims := OrgPointerClaims{
		UserID:         userID,
		OrganizationID: organizationID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.orgPointerExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "hr-platform",
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ParseOrgPointer verifies the signature and expiry of an
// active-organization cookie value. A failed parse means the cookie is
// treated as absent, never as a fallback organization hint.
func (s *JWTService) ParseOrgPointer(tokenString string) (*OrgPointerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &OrgPointerClaims{}, s.keyFunc)
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*OrgPointerClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid organization pointer")
}

func (s *JWTService) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return s.secret, nil
}
