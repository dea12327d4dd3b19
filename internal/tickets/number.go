package tickets

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewTicketNumber builds a human-readable ticket reference, e.g.
// TH-20260901-1A2B3C4D. The suffix makes collisions unlikely; the
// unique index on ticket_number catches the rest.
func NewTicketNumber(prefix string, now time.Time) string {
	p := strings.TrimSpace(prefix)
	if p == "" {
		p = "TH"
	}
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("%s-%s-%s", p, now.UTC().Format("20060102"), suffix)
}
