package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	pkgerrors "github.com/templhub/templhub-backend/pkg/errors"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func staticToken(token string) TokenSource {
	return func() string { return token }
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{},
	}
}

func newTestGateway(t *testing.T, token string, rt roundTripFunc) *HTTPGateway {
	t.Helper()
	gateway, err := NewHTTPGateway(
		staticToken(token),
		WithBaseURL("http://backend.test/api/v1"),
		WithHTTPClient(&http.Client{Transport: rt}),
	)
	if err != nil {
		t.Fatalf("new gateway: %v", err)
	}
	return gateway
}

func TestAddToCartSendsBearerAndBody(t *testing.T) {
	var capturedURL, capturedAuth string
	var capturedBody map[string]any

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		capturedAuth = req.Header.Get("Authorization")
		if err := json.NewDecoder(req.Body).Decode(&capturedBody); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		return jsonResponse(http.StatusOK,
			`{"data":{"cart":{"id":"c1","items":[{"templateId":"t1","title":"Portfolio","priceCents":4900,"price":"49.00","category":"Business"}],"itemCount":1,"totalCents":4900,"total":"49.00"}}}`), nil
	})

	gateway := newTestGateway(t, "session-token", rt)
	cart, err := gateway.AddToCart(context.Background(), []string{"t1"})
	if err != nil {
		t.Fatalf("add to cart: %v", err)
	}

	if capturedURL != "http://backend.test/api/v1/cart/add" {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	if capturedAuth != "Bearer session-token" {
		t.Fatalf("unexpected authorization header %q", capturedAuth)
	}
	ids, ok := capturedBody["templateIds"].([]any)
	if !ok || len(ids) != 1 || ids[0] != "t1" {
		t.Fatalf("unexpected request body %v", capturedBody)
	}
	if len(cart.Items) != 1 || cart.Items[0].TemplateID != "t1" {
		t.Fatalf("unexpected cart snapshot %+v", cart)
	}
	if cart.TotalCents != 4900 {
		t.Fatalf("unexpected total %d", cart.TotalCents)
	}
}

func TestGatewayRejectsMissingCredentialWithoutRequest(t *testing.T) {
	calls := 0
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		calls++
		return jsonResponse(http.StatusOK, `{"data":{"cart":{}}}`), nil
	})

	gateway := newTestGateway(t, "", rt)
	_, err := gateway.FetchCart(context.Background())
	if pkgerrors.CodeOf(err) != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected AUTH_REQUIRED, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no request to be issued, got %d", calls)
	}
}

func TestGatewayMapsStatusesToErrorKinds(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   pkgerrors.Code
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":{"code":"AUTH_REQUIRED","message":"token expired"}}`, pkgerrors.CodeUnauthorized},
		{"validation", http.StatusBadRequest, `{"error":{"code":"VALIDATION_ERROR","message":"template not available"}}`, pkgerrors.CodeValidation},
		{"server fault", http.StatusBadGateway, `upstream exploded`, pkgerrors.CodeInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
				return jsonResponse(tc.status, tc.body), nil
			})
			gateway := newTestGateway(t, "session-token", rt)
			_, err := gateway.FetchCart(context.Background())
			if pkgerrors.CodeOf(err) != tc.want {
				t.Fatalf("expected %s, got %v", tc.want, err)
			}
		})
	}
}

func TestGatewayWrapsTransportFailureAsNetworkError(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})
	gateway := newTestGateway(t, "session-token", rt)
	_, err := gateway.FetchCart(context.Background())
	if pkgerrors.CodeOf(err) != pkgerrors.CodeNetwork {
		t.Fatalf("expected NETWORK_ERROR, got %v", err)
	}
}

func TestRemoveFromCartToleratesNotFound(t *testing.T) {
	var paths []string
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		paths = append(paths, req.URL.Path)
		if req.Method == http.MethodDelete {
			return jsonResponse(http.StatusNotFound, `{"error":{"code":"NOT_FOUND","message":"not in cart"}}`), nil
		}
		return jsonResponse(http.StatusOK,
			`{"data":{"cart":{"id":"c1","items":[],"itemCount":0,"totalCents":0,"total":"0.00"}}}`), nil
	})

	gateway := newTestGateway(t, "session-token", rt)
	cart, err := gateway.RemoveFromCart(context.Background(), "t-missing")
	if err != nil {
		t.Fatalf("expected idempotent remove, got %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("expected current snapshot, got %+v", cart)
	}
	if len(paths) != 2 {
		t.Fatalf("expected delete then fetch, got %v", paths)
	}
}

func TestCreateTicketReturnsOpenTicket(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/api/v1/tickets/create" {
			t.Fatalf("unexpected path %q", req.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		if body["inquiry"] != "please customize" {
			t.Fatalf("unexpected inquiry %q", body["inquiry"])
		}
		return jsonResponse(http.StatusCreated,
			`{"data":{"ticket":{"id":"tk1","ticketNumber":"TH-20260812-AB12CD34","status":"open","inquiry":"please customize","items":[],"totalCents":0,"total":"0.00"}}}`), nil
	})

	gateway := newTestGateway(t, "session-token", rt)
	ticket, err := gateway.CreateTicket(context.Background(), "  please customize  ")
	if err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	if ticket.Status != TicketStatusOpen {
		t.Fatalf("expected open ticket, got %q", ticket.Status)
	}
	if ticket.TicketNumber != "TH-20260812-AB12CD34" {
		t.Fatalf("unexpected ticket number %q", ticket.TicketNumber)
	}
}

func TestCreateTicketRejectsBlankInquiryLocally(t *testing.T) {
	calls := 0
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		calls++
		return jsonResponse(http.StatusCreated, `{"data":{"ticket":{}}}`), nil
	})
	gateway := newTestGateway(t, "session-token", rt)
	if _, err := gateway.CreateTicket(context.Background(), "   "); pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no request for blank inquiry, got %d", calls)
	}
}
