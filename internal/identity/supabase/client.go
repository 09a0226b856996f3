package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mess-app-go/internal/config"
	"mess-app-go/internal/domain/account"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNotConfigured = errors.New("supabase auth not configured")

// Client talks to Supabase Auth (GoTrue). Public calls carry the publishable
// key; admin calls carry the service role key.
type Client struct {
	baseURL        string
	apiKey         string
	serviceRoleKey string
	jwtSecret      []byte
	client         *http.Client
}

type userResponse struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	Sub          string                 `json:"sub"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	User         *userResponse          `json:"user"`
}

type sessionResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	TokenType    string        `json:"token_type"`
	ExpiresIn    int           `json:"expires_in"`
	User         *userResponse `json:"user"`
}

type errorResponse struct {
	Code             interface{} `json:"code"`
	ErrorCode        string      `json:"error_code"`
	Msg              string      `json:"msg"`
	Message          string      `json:"message"`
	Error            string      `json:"error"`
	ErrorDescription string      `json:"error_description"`
}

// Error is a non-2xx answer from GoTrue.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("supabase auth: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("supabase auth: %d: %s", e.Status, e.Message)
}

type claims struct {
	Email        string                 `json:"email"`
	Role         string                 `json:"role"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	jwt.RegisteredClaims
}

func New(cfg config.SupabaseConfig) *Client {
	timeout := cfg.AuthTimeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	var secret []byte
	if cfg.JWTSecret != "" {
		secret = []byte(cfg.JWTSecret)
	}

	return &Client{
		baseURL:        strings.TrimRight(cfg.URL, "/"),
		apiKey:         cfg.PublishableKey,
		serviceRoleKey: cfg.ServiceRoleKey,
		jwtSecret:      secret,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) SignUp(ctx context.Context, email, password, fullName string) (account.IdentityUser, error) {
	body := map[string]interface{}{
		"email":    email,
		"password": password,
		"data": map[string]string{
			"full_name": fullName,
		},
	}

	var payload sessionResponse
	raw, err := c.do(ctx, http.MethodPost, "/auth/v1/signup", c.apiKey, "", body, &payload)
	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && isAlreadyRegistered(apiErr) {
			return account.IdentityUser{}, account.ErrAlreadyRegistered
		}
		return account.IdentityUser{}, err
	}

	// With email confirmation on, GoTrue answers with the bare user object
	// instead of a session.
	user := payload.User
	if user == nil {
		var bare userResponse
		if err := json.Unmarshal(raw, &bare); err != nil {
			return account.IdentityUser{}, fmt.Errorf("decode signup response: %w", err)
		}
		user = &bare
	}

	identity := toIdentityUser(user)
	if identity.ID == "" {
		return account.IdentityUser{}, fmt.Errorf("signup response without user id")
	}
	return identity, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (account.Session, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	var payload sessionResponse
	if _, err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", c.apiKey, "", body, &payload); err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusBadRequest || apiErr.Status == http.StatusUnauthorized) {
			return account.Session{}, account.ErrInvalidCredentials
		}
		return account.Session{}, err
	}
	if payload.AccessToken == "" {
		return account.Session{}, account.ErrInvalidCredentials
	}

	session := account.Session{
		AccessToken:  payload.AccessToken,
		RefreshToken: payload.RefreshToken,
		TokenType:    payload.TokenType,
		ExpiresIn:    payload.ExpiresIn,
	}
	if payload.User != nil {
		session.UserID = toIdentityUser(payload.User).ID
	}
	return session, nil
}

// VerifyToken checks the access token locally when the project JWT secret is
// configured and asks GoTrue otherwise.
func (c *Client) VerifyToken(ctx context.Context, token string) (account.IdentityUser, error) {
	if len(c.jwtSecret) > 0 {
		return c.verifyLocal(token)
	}

	var payload userResponse
	if _, err := c.do(ctx, http.MethodGet, "/auth/v1/user", c.apiKey, token, nil, &payload); err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
			return account.IdentityUser{}, account.ErrInvalidToken
		}
		return account.IdentityUser{}, err
	}

	user := toIdentityUser(&payload)
	if user.ID == "" {
		return account.IdentityUser{}, account.ErrInvalidToken
	}
	return user, nil
}

func (c *Client) verifyLocal(token string) (account.IdentityUser, error) {
	parsed := &claims{}
	tok, err := jwt.ParseWithClaims(token, parsed, func(t *jwt.Token) (any, error) {
		return c.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return account.IdentityUser{}, account.ErrInvalidToken
	}
	if parsed.Subject == "" || parsed.Role != "authenticated" {
		return account.IdentityUser{}, account.ErrInvalidToken
	}

	return account.IdentityUser{
		ID:       parsed.Subject,
		Email:    parsed.Email,
		FullName: fullNameFrom(parsed.UserMetadata),
	}, nil
}

func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	if c.serviceRoleKey == "" {
		return ErrNotConfigured
	}
	_, err := c.do(ctx, http.MethodDelete, "/auth/v1/admin/users/"+url.PathEscape(userID), c.serviceRoleKey, c.serviceRoleKey, nil, nil)
	return adminError(err)
}

func (c *Client) UpdatePassword(ctx context.Context, userID, password string) error {
	if c.serviceRoleKey == "" {
		return ErrNotConfigured
	}
	body := map[string]string{"password": password}
	_, err := c.do(ctx, http.MethodPut, "/auth/v1/admin/users/"+url.PathEscape(userID), c.serviceRoleKey, c.serviceRoleKey, body, nil)
	return adminError(err)
}

func (c *Client) do(ctx context.Context, method, path, apiKey, bearer string, body interface{}, out interface{}) ([]byte, error) {
	if c.baseURL == "" || apiKey == "" {
		return nil, ErrNotConfigured
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", apiKey)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("supabase auth %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return raw, decodeError(resp.StatusCode, raw)
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return raw, fmt.Errorf("decode supabase response: %w", err)
		}
	}
	return raw, nil
}

func decodeError(status int, raw []byte) error {
	var payload errorResponse
	_ = json.Unmarshal(raw, &payload)

	code := payload.ErrorCode
	if code == "" {
		if value, ok := payload.Code.(string); ok {
			code = value
		} else if payload.Error != "" {
			code = payload.Error
		}
	}

	return &Error{
		Status:  status,
		Code:    code,
		Message: firstNonEmpty(payload.Msg, payload.Message, payload.ErrorDescription, payload.Error, http.StatusText(status)),
	}
}

func adminError(err error) error {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return account.ErrIdentityNotFound
	}
	return err
}

func isAlreadyRegistered(err *Error) bool {
	if err.Code == "user_already_exists" || err.Code == "email_exists" {
		return true
	}
	return strings.Contains(strings.ToLower(err.Message), "already registered")
}

func toIdentityUser(payload *userResponse) account.IdentityUser {
	if payload == nil {
		return account.IdentityUser{}
	}
	id := firstNonEmpty(payload.ID, payload.Sub)
	if id == "" && payload.User != nil {
		id = firstNonEmpty(payload.User.ID, payload.User.Sub)
	}
	return account.IdentityUser{
		ID:       id,
		Email:    payload.Email,
		FullName: fullNameFrom(payload.UserMetadata),
	}
}

func fullNameFrom(metadata map[string]interface{}) string {
	return firstNonEmpty(stringFromMap(metadata, "full_name"), stringFromMap(metadata, "name"))
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

func stringFromMap(values map[string]interface{}, key string) string {
	if values == nil {
		return ""
	}
	value, ok := values[key]
	if !ok {
		return ""
	}
	parsed, ok := value.(string)
	if !ok {
		return ""
	}
	return parsed
}
