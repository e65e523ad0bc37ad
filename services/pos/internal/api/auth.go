package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotSignedIn is returned when no token is stored.
var ErrNotSignedIn = errors.New("not signed in")

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"access_token"`
}

// TokenClaims is the subset of the backend JWT the station reads. The
// signature is not verified locally; the backend verifies every call.
type TokenClaims struct {
	UserID FlexibleID `json:"user_id,omitempty"`
	Email  string     `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Owner returns the user id carried by the token.
func (c TokenClaims) Owner() string {
	if c.UserID != "" {
		return c.UserID.String()
	}
	return c.Subject
}

// ParseClaims decodes token without verifying its signature.
func ParseClaims(token string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	return claims, nil
}

// AuthDataAccess signs the station in and exposes the signed-in user.
type AuthDataAccess struct {
	client *Client
	now    func() time.Time
}

func NewAuthDataAccess(client *Client) *AuthDataAccess {
	return &AuthDataAccess{client: client, now: time.Now}
}

// SignIn exchanges credentials for a token and stores it.
func (da *AuthDataAccess) SignIn(ctx context.Context, email, password string) (string, error) {
	if da == nil || da.client == nil {
		return "", fmt.Errorf("auth client not configured")
	}

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", fmt.Errorf("email and password are required")
	}

	resp, err := da.client.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/sign-in",
		body:   signInRequest{Email: email, Password: password},
		public: true,
	})
	if err != nil {
		return "", err
	}

	var out signInResponse
	if err := decodeSuccessResponse(resp, &out); err != nil {
		return "", err
	}

	token := out.Token
	if token == "" {
		token = out.AccessToken
	}
	if token == "" {
		return "", malformed(resp.Op, "sign-in response has no token")
	}

	if err := da.client.tokens.Save(ctx, token); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}

	return token, nil
}

func (da *AuthDataAccess) SignOut(ctx context.Context) error {
	if da == nil || da.client == nil {
		return fmt.Errorf("auth client not configured")
	}
	return da.client.tokens.Clear(ctx)
}

// CurrentUserID returns the user id of the stored token.
func (da *AuthDataAccess) CurrentUserID(ctx context.Context) (string, error) {
	claims, err := da.Claims(ctx)
	if err != nil {
		return "", err
	}
	return claims.Owner(), nil
}

// Claims returns the claims of the stored token. An expired token yields
// ErrUnauthorized so callers can prompt for sign-in before calling out.
func (da *AuthDataAccess) Claims(ctx context.Context) (*TokenClaims, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("auth client not configured")
	}

	token, err := da.client.tokens.Load(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, ErrNotSignedIn
	}

	claims, err := ParseClaims(token)
	if err != nil {
		return nil, err
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(da.now()) {
		return nil, fmt.Errorf("token expired at %s: %w", claims.ExpiresAt.Format(time.RFC3339), ErrUnauthorized)
	}

	return claims, nil
}
