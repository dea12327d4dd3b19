package controllers

import (
	"net/http"

	"github.com/templhub/templhub-backend/api/responses"
	"github.com/templhub/templhub-backend/api/validators"
	ticketsvc "github.com/templhub/templhub-backend/internal/tickets"
	pkgerrors "github.com/templhub/templhub-backend/pkg/errors"
	"github.com/templhub/templhub-backend/pkg/logger"
)

type createTicketRequest struct {
	Inquiry string `json:"inquiry" validate:"required,min=1,max=4000"`
}

// TicketCreate turns the caller's cart into a customization ticket.
func TicketCreate(svc ticketsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ticket service unavailable"))
			return
		}
		userID, err := requestUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createTicketRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.CreateFromCart(r.Context(), userID, payload.Inquiry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			ctx := logg.WithTicketID(r.Context(), dto.ID.String())
			logg.Info(ctx, "ticket created")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"ticket": dto})
	}
}

// TicketListMine lists the caller's own tickets, newest first.
func TicketListMine(svc ticketsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ticket service unavailable"))
			return
		}
		userID, err := requestUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 200)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1_000_000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.List(r.Context(), ticketsvc.ListParams{UserID: &userID, Limit: limit, Offset: offset})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"tickets": rows})
	}
}
