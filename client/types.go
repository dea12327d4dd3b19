// Package client keeps a local mirror of the server-owned cart in sync
// and drives the cart-to-ticket checkout transition. The server is the
// single source of truth: every mutation returns the complete resulting
// cart and the mirror adopts it wholesale, never a partial merge.
package client

import "time"

// Template is the catalog entry as the storefront sees it.
type Template struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	PriceCents  int64    `json:"priceCents"`
	Category    string   `json:"category"`
	DemoURL     *string  `json:"demoUrl,omitempty"`
	MediaURLs   []string `json:"mediaUrls"`
	Rating      float64  `json:"rating"`
}

// CartItem is the display snapshot captured when a template was added.
type CartItem struct {
	TemplateID string `json:"templateId"`
	Title      string `json:"title"`
	PriceCents int64  `json:"priceCents"`
	Price      string `json:"price"`
	Category   string `json:"category"`
}

// Cart is the full server snapshot adopted after every operation.
type Cart struct {
	ID         string     `json:"id"`
	Items      []CartItem `json:"items"`
	ItemCount  int        `json:"itemCount"`
	TotalCents int64      `json:"totalCents"`
	Total      string     `json:"total"`
}

// Ticket is the customization request created from a cart.
type Ticket struct {
	ID            string     `json:"id"`
	TicketNumber  string     `json:"ticketNumber"`
	UserID        string     `json:"userId"`
	Status        string     `json:"status"`
	Inquiry       string     `json:"inquiry"`
	AdminResponse *string    `json:"adminResponse,omitempty"`
	Items         []CartItem `json:"items"`
	TotalCents    int64      `json:"totalCents"`
	Total         string     `json:"total"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// TicketStatusOpen is the status every freshly created ticket carries.
const TicketStatusOpen = "open"
