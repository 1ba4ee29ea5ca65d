// Package userclient looks up users in the user service to enrich task
// responses and events with human-readable names.
package userclient

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/rudrapanda257/Project-Management-Microservices-Platform/pkg/domain"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/pkg/requestcontext"
)

// PlaceholderName stands in for the assignee name when the lookup fails. A
// failed lookup must never abort a task mutation.
const PlaceholderName = "Unknown"

// User is the collaborator's wire shape.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Lookup resolves user details by ID. *Client implements it; tests substitute
// a stub.
type Lookup interface {
	GetUser(ctx context.Context, id int64) (User, error)
	UserName(ctx context.Context, id int64) string
}

// Client calls the user service over HTTP, forwarding the caller's verified
// identity headers so the downstream trust filter admits the request.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

func New(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
		logger:  logger,
	}
}

// GetUser fetches one user by ID.
func (c *Client) GetUser(ctx context.Context, id int64) (User, error) {
	url := fmt.Sprintf("%s/api/users/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return User{}, fmt.Errorf("build user lookup request: %w", err)
	}

	// Service-to-service calls carry the originating request's identity, the
	// same way the gateway would have set it.
	if principal, ok := requestcontext.Principal(ctx); ok {
		req.Header.Set(domain.HeaderUserID, strconv.FormatInt(principal.SubjectID, 10))
		req.Header.Set(domain.HeaderUserRole, string(principal.Role))
		req.Header.Set(domain.HeaderUserEmail, principal.Email)
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		req.Header.Set("X-Request-Id", requestID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return User{}, fmt.Errorf("user lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return User{}, fmt.Errorf("user lookup: unexpected status %d", resp.StatusCode)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return User{}, fmt.Errorf("decode user lookup response: %w", err)
	}
	return user, nil
}

// UserName resolves the display name for id, falling back to the placeholder
// when the collaborator is unavailable.
func (c *Client) UserName(ctx context.Context, id int64) string {
	user, err := c.GetUser(ctx, id)
	if err != nil {
		c.logger.WarnContext(ctx, "user lookup failed, using placeholder name",
			"user_id", id,
			"error", err,
		)
		return PlaceholderName
	}
	return user.Name
}
