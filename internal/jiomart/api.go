package jiomart

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/lukman83/martdash/internal/httputil"
	"github.com/lukman83/martdash/internal/models"
	"github.com/lukman83/martdash/internal/platform"
)

// Identity is who the search claims to be.
type Identity struct {
	VisitorID string
	UserID    string
	Cookie    string
}

// NewIdentity returns an anonymous identity with a fresh visitor id.
func NewIdentity(userID, cookie string) Identity {
	return Identity{
		VisitorID: "anonymous-" + uuid.NewString(),
		UserID:    userID,
		Cookie:    cookie,
	}
}

// APIStrategy posts straight to the autoSearch endpoint.
type APIStrategy struct {
	client   *http.Client
	endpoint string
	identity Identity
}

func NewAPIStrategy(client *http.Client, identity Identity) *APIStrategy {
	return &APIStrategy{client: client, endpoint: searchEndpoint, identity: identity}
}

func (a *APIStrategy) Name() string { return "api" }

func (a *APIStrategy) Search(ctx context.Context, query string, opts platform.SearchOpts) ([]models.Product, error) {
	payload := BuildSearchPayload(query, opts.Limit, a.identity.VisitorID, a.identity.UserID)
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	for k, v := range httputil.JioMartSearchHeaders(query, a.identity.Cookie) {
		req.Header[k] = v
	}

	resp, err := httputil.DoWithRetry(a.client, req, 2)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	defer resp.Body.Close()

	respBody, err := httputil.ReadBody(resp)
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}
	if err := httputil.CheckStatus("search", resp, respBody); err != nil {
		return nil, err
	}
	return parseSearchResponse(respBody)
}
