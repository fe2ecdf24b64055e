package supabase

import (
	"context"
	"fmt"
	"net/http"
)

// AuthClient wraps the GoTrue identity endpoints.
type AuthClient struct {
	client *Client
}

// User is the subset of a GoTrue identity the gateway cares about.
type User struct {
	ID       string         `json:"id"`
	Email    string         `json:"email,omitempty"`
	Metadata map[string]any `json:"user_metadata,omitempty"`
}

// Session is an issued credential pair.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
	User         *User  `json:"user,omitempty"`
}

// SignUpResult carries whatever GoTrue returned: depending on the
// project's confirmation settings either the user alone or a live
// session as well.
type SignUpResult struct {
	User    *User    `json:"user"`
	Session *Session `json:"session"`
}

type credentials struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Data     map[string]any `json:"data,omitempty"`
}

// SignUp registers a new identity. Optional metadata (such as a display
// name) is stored on the user record by GoTrue.
func (a *AuthClient) SignUp(ctx context.Context, email, password string, data map[string]any) (*SignUpResult, error) {
	body := credentials{Email: email, Password: password, Data: data}

	// GoTrue answers signup with either the bare user at the top level
	// (email confirmation required) or a full session; decode both.
	var raw struct {
		ID           string         `json:"id"`
		Email        string         `json:"email"`
		Metadata     map[string]any `json:"user_metadata"`
		AccessToken  string         `json:"access_token"`
		RefreshToken string         `json:"refresh_token"`
		TokenType    string         `json:"token_type"`
		ExpiresIn    int            `json:"expires_in"`
		User         *User          `json:"user"`
	}
	if err := a.client.do(ctx, http.MethodPost, authPath+"/signup", "", body, nil, &raw); err != nil {
		return nil, err
	}

	result := &SignUpResult{User: raw.User}
	if raw.AccessToken != "" {
		result.Session = &Session{
			AccessToken:  raw.AccessToken,
			RefreshToken: raw.RefreshToken,
			TokenType:    raw.TokenType,
			ExpiresIn:    raw.ExpiresIn,
			User:         raw.User,
		}
	}
	if result.User == nil && raw.ID != "" {
		result.User = &User{ID: raw.ID, Email: raw.Email, Metadata: raw.Metadata}
	}
	return result, nil
}

// SignInWithPassword exchanges email/password for a session.
func (a *AuthClient) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	body := credentials{Email: email, Password: password}

	var session Session
	err := a.client.do(ctx, http.MethodPost, authPath+"/token", "grant_type=password", body, nil, &session)
	if err != nil {
		return nil, err
	}
	if session.AccessToken == "" {
		return nil, &APIError{Message: "invalid credentials", Status: http.StatusUnauthorized}
	}
	return &session, nil
}

// GetUser resolves a bearer token to the identity it was issued for.
func (a *AuthClient) GetUser(ctx context.Context, accessToken string) (*User, error) {
	var user User
	err := a.client.WithToken(accessToken).do(ctx, http.MethodGet, authPath+"/user", "", nil, nil, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ResolveUser implements the verifier's delegated path: the token is
// valid iff the provider maps it to an identity with a non-empty id.
func (a *AuthClient) ResolveUser(ctx context.Context, accessToken string) (string, error) {
	user, err := a.GetUser(ctx, accessToken)
	if err != nil {
		return "", fmt.Errorf("resolve user: %w", err)
	}
	if user == nil || user.ID == "" {
		return "", fmt.Errorf("resolve user: no user")
	}
	return user.ID, nil
}
