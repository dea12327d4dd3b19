package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/templhub/templhub-backend/pkg/errors"
)

const (
	defaultBaseURL             = "https://api.templhub.dev/api/v1"
	errorBodyReadLimit   int64 = 1024
	defaultClientTimeout       = 10 * time.Second
)

// TokenSource supplies the bearer credential attached to every request.
// An empty string means the session is not authenticated.
type TokenSource func() string

// Gateway is the boundary to the cart and ticket endpoints. Every
// mutating call returns the complete resulting cart, never a delta.
type Gateway interface {
	FetchCart(ctx context.Context) (*Cart, error)
	AddToCart(ctx context.Context, templateIDs []string) (*Cart, error)
	RemoveFromCart(ctx context.Context, templateID string) (*Cart, error)
	ClearCart(ctx context.Context) (*Cart, error)
	CreateTicket(ctx context.Context, inquiry string) (*Ticket, error)
}

// HTTPGateway talks to the backend over REST/JSON.
type HTTPGateway struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenSource
}

// GatewayOption configures optional gateway behavior.
type GatewayOption func(*HTTPGateway)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) GatewayOption {
	return func(g *HTTPGateway) {
		if client != nil {
			g.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured API base URL.
func WithBaseURL(baseURL string) GatewayOption {
	return func(g *HTTPGateway) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			g.baseURL = trimmed
		}
	}
}

// NewHTTPGateway builds the REST gateway given a credential source.
func NewHTTPGateway(tokens TokenSource, opts ...GatewayOption) (*HTTPGateway, error) {
	if tokens == nil {
		return nil, fmt.Errorf("token source is required")
	}

	gateway := &HTTPGateway{
		tokens:     tokens,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultClientTimeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(gateway)
		}
	}

	if gateway.httpClient == nil {
		gateway.httpClient = &http.Client{Timeout: defaultClientTimeout}
	}
	if gateway.baseURL == "" {
		gateway.baseURL = defaultBaseURL
	}

	return gateway, nil
}

// FetchCart loads the current cart snapshot.
func (g *HTTPGateway) FetchCart(ctx context.Context) (*Cart, error) {
	var envelope struct {
		Data struct {
			Cart *Cart `json:"cart"`
		} `json:"data"`
	}
	if err := g.do(ctx, http.MethodGet, "cart/", nil, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "response is missing the cart snapshot")
	}
	return envelope.Data.Cart, nil
}

// AddToCart adds the templates and returns the resulting cart. Adding
// an id that is already in the cart is idempotent on the server side.
func (g *HTTPGateway) AddToCart(ctx context.Context, templateIDs []string) (*Cart, error) {
	if len(templateIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one template id is required")
	}

	body := struct {
		TemplateIDs []string `json:"templateIds"`
	}{TemplateIDs: templateIDs}

	var envelope struct {
		Data struct {
			Cart *Cart `json:"cart"`
		} `json:"data"`
	}
	if err := g.do(ctx, http.MethodPost, "cart/add", body, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "response is missing the cart snapshot")
	}
	return envelope.Data.Cart, nil
}

// RemoveFromCart removes the template and returns the resulting cart.
// A 404 is tolerated as an idempotent delete: the current snapshot is
// fetched and returned instead of an error.
func (g *HTTPGateway) RemoveFromCart(ctx context.Context, templateID string) (*Cart, error) {
	trimmed := strings.TrimSpace(templateID)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "template id is required")
	}

	var envelope struct {
		Data struct {
			Cart *Cart `json:"cart"`
		} `json:"data"`
	}
	path := "cart/remove/" + url.PathEscape(trimmed)
	err := g.do(ctx, http.MethodDelete, path, nil, &envelope)
	if err != nil {
		if pkgerrors.CodeOf(err) == pkgerrors.CodeNotFound {
			return g.FetchCart(ctx)
		}
		return nil, err
	}
	if envelope.Data.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "response is missing the cart snapshot")
	}
	return envelope.Data.Cart, nil
}

// ClearCart empties the server cart and returns the resulting snapshot.
func (g *HTTPGateway) ClearCart(ctx context.Context) (*Cart, error) {
	var envelope struct {
		Data struct {
			Cart *Cart `json:"cart"`
		} `json:"data"`
	}
	if err := g.do(ctx, http.MethodDelete, "cart/clear", nil, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "response is missing the cart snapshot")
	}
	return envelope.Data.Cart, nil
}

// CreateTicket submits the inquiry and returns the created ticket.
func (g *HTTPGateway) CreateTicket(ctx context.Context, inquiry string) (*Ticket, error) {
	trimmed := strings.TrimSpace(inquiry)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inquiry must not be blank")
	}

	body := struct {
		Inquiry string `json:"inquiry"`
	}{Inquiry: trimmed}

	var envelope struct {
		Data struct {
			Ticket *Ticket `json:"ticket"`
		} `json:"data"`
	}
	if err := g.do(ctx, http.MethodPost, "tickets/create", body, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data.Ticket == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "response is missing the ticket")
	}
	return envelope.Data.Ticket, nil
}

func (g *HTTPGateway) do(ctx context.Context, method, path string, body, out any) error {
	if g == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "gateway not configured")
	}

	token := strings.TrimSpace(g.tokens())
	if token == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.buildURL(path), reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "execute request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return g.mapFailure(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode response")
	}
	return nil
}

// mapFailure folds an HTTP failure status into the closed error set:
// 401 means re-authenticate, 404 stays distinct so idempotent deletes
// can tolerate it, any other 4xx is user-correctable input, and 5xx is
// an opaque server fault.
func (g *HTTPGateway) mapFailure(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))

	message := ""
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		message = strings.TrimSpace(envelope.Error.Message)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		if message == "" {
			message = "authentication required"
		}
		return pkgerrors.New(pkgerrors.CodeUnauthorized, message)
	case resp.StatusCode == http.StatusNotFound:
		if message == "" {
			message = "resource not found"
		}
		return pkgerrors.New(pkgerrors.CodeNotFound, message)
	case resp.StatusCode >= http.StatusInternalServerError:
		return pkgerrors.Wrap(pkgerrors.CodeInternal,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))),
			"request failed")
	default:
		if message == "" {
			message = fmt.Sprintf("request rejected with status %d", resp.StatusCode)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, message)
	}
}

func (g *HTTPGateway) buildURL(path string) string {
	trimmed := strings.TrimRight(g.baseURL, "/")
	path = strings.TrimLeft(path, "/")
	return fmt.Sprintf("%s/%s", trimmed, path)
}
