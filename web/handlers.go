package web

import (
	"net/http"

	"github.com/blackforge/storefront/domain/catalog"
	"github.com/blackforge/storefront/pkg/fault"
	"github.com/go-chi/chi/v5"
)

// GetCatalog returns the public catalog: all games and plans, plus the
// coupons marked visible and active.
func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	cat, err := h.admin.Catalog(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	visible := make([]catalog.Coupon, 0, len(cat.Coupons))
	for _, c := range cat.Coupons {
		if c.Active && c.Visible {
			visible = append(visible, c)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"games":       cat.Games,
		"memberships": cat.Plans,
		"coupons":     visible,
	})
}

type checkoutGameRequest struct {
	GameID     string `json:"gameId"`
	CouponCode string `json:"couponCode"`
}

// CheckoutGame creates a payment session for a single game.
func (h *Handler) CheckoutGame(w http.ResponseWriter, r *http.Request) {
	var req checkoutGameRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.GameID == "" {
		h.writeError(w, fault.New(fault.Validation, "gameId required"))
		return
	}

	session, err := h.checkout.CheckoutGame(r.Context(), req.GameID, req.CouponCode)
	if err != nil {
		h.countCheckout("game", err)
		h.writeError(w, err)
		return
	}
	h.countCheckout("game", nil)
	writeJSON(w, http.StatusOK, map[string]string{"id": session.ID, "url": session.URL})
}

type checkoutCartRequest struct {
	GameIDs    []string `json:"gameIds"`
	CouponCode string   `json:"couponCode"`
}

// CheckoutCart creates a payment session for a bundle of games.
func (h *Handler) CheckoutCart(w http.ResponseWriter, r *http.Request) {
	var req checkoutCartRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	session, err := h.checkout.CheckoutCart(r.Context(), req.GameIDs, req.CouponCode)
	if err != nil {
		h.countCheckout("cart", err)
		h.writeError(w, err)
		return
	}
	h.countCheckout("cart", nil)
	writeJSON(w, http.StatusOK, map[string]string{"id": session.ID, "url": session.URL})
}

type checkoutMembershipRequest struct {
	PlanID string `json:"planId"`
}

// CheckoutMembership creates a subscription session for a plan.
func (h *Handler) CheckoutMembership(w http.ResponseWriter, r *http.Request) {
	var req checkoutMembershipRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.PlanID == "" {
		h.writeError(w, fault.New(fault.Validation, "planId required"))
		return
	}

	session, err := h.checkout.CheckoutMembership(r.Context(), req.PlanID)
	if err != nil {
		h.countCheckout("membership", err)
		h.writeError(w, err)
		return
	}
	h.countCheckout("membership", nil)
	writeJSON(w, http.StatusOK, map[string]string{"id": session.ID, "url": session.URL})
}

func (h *Handler) countCheckout(purchaseType string, err error) {
	if h.metrics == nil {
		return
	}
	if err != nil {
		h.metrics.CheckoutErrors.WithLabelValues(purchaseType).Inc()
		return
	}
	h.metrics.CheckoutSessions.WithLabelValues(purchaseType).Inc()
}

// ConfirmCheckout resolves a session into its paid state and, when
// paid, the tokenized download links for what it entitles.
func (h *Handler) ConfirmCheckout(w http.ResponseWriter, r *http.Request) {
	confirmation, err := h.checkout.Confirm(r.Context(), r.URL.Query().Get("session_id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	if !confirmation.Paid {
		writeJSON(w, http.StatusOK, map[string]any{"paid": false})
		return
	}

	links, err := h.downloads.LinksFor(r.Context(), confirmation.Type, confirmation.ItemIDs)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"paid":      true,
		"type":      confirmation.Type,
		"downloads": links,
	})
}

// Download streams a game archive after token authorization.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	token := r.URL.Query().Get("token")
	if token == "" {
		h.countDownload("unauthorized")
		h.writeError(w, fault.New(fault.TokenInvalid, "download token required"))
		return
	}

	file, err := h.downloads.Authorize(r.Context(), gameID, token)
	if err != nil {
		switch fault.KindOf(err) {
		case fault.TokenMismatch:
			h.countDownload("mismatch")
		case fault.NotFound:
			h.countDownload("missing")
		default:
			h.countDownload("unauthorized")
		}
		h.writeError(w, err)
		return
	}

	h.countDownload("ok")
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+file.ID+`.zip"`)
	http.ServeFile(w, r, file.Path)
}

func (h *Handler) countDownload(outcome string) {
	if h.metrics != nil {
		h.metrics.Downloads.WithLabelValues(outcome).Inc()
	}
}
