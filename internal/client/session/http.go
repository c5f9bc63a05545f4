package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/clouddrive/internal/client/config"
	"github.com/dmitrijs2005/clouddrive/internal/common"
	"github.com/dmitrijs2005/clouddrive/internal/logging"
)

// tokenResponse is the provider's answer to a successful token grant.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// apiError is the provider's JSON error envelope. Providers differ in which
// field they populate, so all three are checked.
type apiError struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
	Msg         string `json:"msg"`
}

// accessClaims are the JWT claims of interest inside an access token.
type accessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// HTTPProvider implements Provider against a GoTrue-style HTTP/JSON token
// endpoint. It holds the access/refresh token pair and transparently retries
// an authenticated request once after a refresh-token exchange when the
// access token has expired.
type HTTPProvider struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	logger     logging.Logger

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	identity     *Identity
	subs         []func(*Identity)
}

var _ Provider = (*HTTPProvider)(nil)

// NewHTTPProvider constructs a provider client from the runtime config.
func NewHTTPProvider(cfg *config.Config, logger logging.Logger) *HTTPProvider {
	timeout := cfg.AuthTimeout
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	return &HTTPProvider{
		baseURL:    strings.TrimRight(cfg.AuthBaseURL, "/"),
		timeout:    timeout,
		httpClient: &http.Client{},
		logger:     logger.With("component", "session"),
	}
}

// identityFromToken extracts the Identity from an access token's claims.
// The token signature is not verified: the signing secret belongs to the
// provider, and the token was just received over the authenticated channel.
func identityFromToken(token string) (*Identity, error) {
	var claims accessClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}
	return &Identity{ID: claims.Subject, Email: claims.Email}, nil
}

// Current returns the active identity, or nil when signed out.
func (p *HTTPProvider) Current() *Identity {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.identity == nil {
		return nil
	}
	id := *p.identity
	return &id
}

// OnChange registers fn to be called on every session change. Callbacks run
// on the goroutine that triggered the change.
func (p *HTTPProvider) OnChange(fn func(*Identity)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subs = append(p.subs, fn)
}

func (p *HTTPProvider) notify(id *Identity) {
	p.mu.Lock()
	subs := make([]func(*Identity), len(p.subs))
	copy(subs, p.subs)
	p.mu.Unlock()

	for _, fn := range subs {
		fn(id)
	}
}

// SignIn performs a password grant and, on success, installs the returned
// token pair and the identity parsed from the access token. Subscribers are
// notified with the new identity.
func (p *HTTPProvider) SignIn(ctx context.Context, email string, password []byte) error {
	body, err := json.Marshal(map[string]string{
		"email":    email,
		"password": string(password),
	})
	if err != nil {
		return err
	}

	var tr tokenResponse
	if err := p.post(ctx, "/token?grant_type=password", body, "", &tr); err != nil {
		return fmt.Errorf("sign in: %w", err)
	}

	id, err := identityFromToken(tr.AccessToken)
	if err != nil {
		return fmt.Errorf("sign in: %w", err)
	}

	p.mu.Lock()
	p.accessToken = tr.AccessToken
	p.refreshToken = tr.RefreshToken
	p.identity = id
	p.mu.Unlock()

	p.logger.Info(ctx, "signed in", "user", id.ID)
	p.notify(id)
	return nil
}

// SignOut revokes the session at the provider (best effort) and always
// clears the local token pair and identity. Subscribers are notified with
// nil even when the remote call fails, so dependent state is torn down.
func (p *HTTPProvider) SignOut(ctx context.Context) error {
	err := p.doAuthorized(ctx, "/logout", nil)

	p.mu.Lock()
	p.accessToken = ""
	p.refreshToken = ""
	p.identity = nil
	p.mu.Unlock()

	p.logger.Info(ctx, "signed out")
	p.notify(nil)

	if err != nil && !errors.Is(err, common.ErrUnauthorized) {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

// Close releases idle transport connections.
func (p *HTTPProvider) Close() error {
	p.httpClient.CloseIdleConnections()
	return nil
}

// refresh exchanges the refresh token for a new token pair.
func (p *HTTPProvider) refresh(ctx context.Context) error {
	p.mu.Lock()
	rt := p.refreshToken
	p.mu.Unlock()

	if rt == "" {
		return common.ErrUnauthorized
	}

	body, err := json.Marshal(map[string]string{"refresh_token": rt})
	if err != nil {
		return err
	}

	var tr tokenResponse
	if err := p.post(ctx, "/token?grant_type=refresh_token", body, "", &tr); err != nil {
		return fmt.Errorf("refresh token: %w", err)
	}

	p.mu.Lock()
	p.accessToken = tr.AccessToken
	p.refreshToken = tr.RefreshToken
	p.mu.Unlock()
	return nil
}

// doAuthorized sends an authenticated POST. On 401 it performs one refresh
// exchange and retries once with the new access token.
func (p *HTTPProvider) doAuthorized(ctx context.Context, path string, body []byte) error {
	p.mu.Lock()
	token := p.accessToken
	p.mu.Unlock()

	err := p.post(ctx, path, body, token, nil)
	if err == nil || !errors.Is(err, common.ErrUnauthorized) {
		return err
	}

	// Access token may have expired, try one refresh-and-retry.
	if rerr := p.refresh(ctx); rerr != nil {
		return err
	}

	p.mu.Lock()
	token = p.accessToken
	p.mu.Unlock()

	return p.post(ctx, path, body, token, nil)
}

// post issues one JSON POST to the provider and decodes the response into
// out (when out is non-nil). Transport failures map to ErrUnavailable,
// 401/403 to ErrUnauthorized, 404 to ErrNotFound.
func (p *HTTPProvider) post(ctx context.Context, path string, body []byte, token string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return statusError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// statusError maps an HTTP error response onto the common error taxonomy.
func statusError(resp *http.Response) error {
	var ae apiError
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(data, &ae)

	msg := ae.Msg
	if msg == "" {
		msg = ae.Description
	}
	if msg == "" {
		msg = ae.Error
	}
	if msg == "" {
		msg = resp.Status
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", common.ErrUnauthorized, msg)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", common.ErrNotFound, msg)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: %s", common.ErrUnavailable, msg)
	default:
		return fmt.Errorf("provider error: %s", msg)
	}
}
