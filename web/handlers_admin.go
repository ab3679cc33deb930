package web

import (
	"net/http"
	"strconv"

	"github.com/blackforge/storefront/app"
	"github.com/blackforge/storefront/domain/catalog"
	"github.com/go-chi/chi/v5"
)

type adminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginAdmin authenticates an admin and issues a device-bound token.
func (h *Handler) LoginAdmin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	token, err := h.admin.Login(r.Context(), req.Username, req.Password, r.Header.Get(deviceIDHeader))
	if err != nil {
		h.authFailure("admin_login")
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token, "username": req.Username})
}

// AdminSession reports who the presented token belongs to. The admin
// UI calls it on load to decide whether a stored token is still good.
func (h *Handler) AdminSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"username":      claimsFrom(r.Context()).Subject,
	})
}

// AdminMarketplace returns the whole catalog, including hidden and
// inactive coupons the public listing filters out.
func (h *Handler) AdminMarketplace(w http.ResponseWriter, r *http.Request) {
	cat, err := h.admin.Catalog(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"games":       cat.Games,
		"memberships": cat.Plans,
		"coupons":     cat.Coupons,
	})
}

// ListAdminUsers returns all admin usernames.
func (h *Handler) ListAdminUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.ListUsers(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

type createAdminUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateAdminUser adds an admin user. Owner only.
func (h *Handler) CreateAdminUser(w http.ResponseWriter, r *http.Request) {
	var req createAdminUserRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	actor := claimsFrom(r.Context()).Subject
	if err := h.admin.CreateUser(r.Context(), actor, req.Username, req.Password); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"username": req.Username})
}

// RemoveAdminUser deletes an admin user. Owner only; the owner account
// itself cannot be removed.
func (h *Handler) RemoveAdminUser(w http.ResponseWriter, r *http.Request) {
	actor := claimsFrom(r.Context()).Subject
	if err := h.admin.RemoveUser(r.Context(), actor, chi.URLParam(r, "username")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddGame stores a new game.
func (h *Handler) AddGame(w http.ResponseWriter, r *http.Request) {
	var g catalog.Item
	if err := decodeBody(r, &g); err != nil {
		h.writeError(w, err)
		return
	}

	created, err := h.admin.AddGame(r.Context(), g)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateGame applies a partial update to a game.
func (h *Handler) UpdateGame(w http.ResponseWriter, r *http.Request) {
	var patch app.GamePatch
	if err := decodeBody(r, &patch); err != nil {
		h.writeError(w, err)
		return
	}

	updated, err := h.admin.UpdateGame(r.Context(), chi.URLParam(r, "gameID"), patch)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// RemoveGame deletes a game.
func (h *Handler) RemoveGame(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.RemoveGame(r.Context(), chi.URLParam(r, "gameID")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddPlan stores a new membership plan.
func (h *Handler) AddPlan(w http.ResponseWriter, r *http.Request) {
	var p catalog.Plan
	if err := decodeBody(r, &p); err != nil {
		h.writeError(w, err)
		return
	}

	created, err := h.admin.AddPlan(r.Context(), p)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdatePlan applies a partial update to a membership plan.
func (h *Handler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	var patch app.PlanPatch
	if err := decodeBody(r, &patch); err != nil {
		h.writeError(w, err)
		return
	}

	updated, err := h.admin.UpdatePlan(r.Context(), chi.URLParam(r, "planID"), patch)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// RemovePlan deletes a membership plan.
func (h *Handler) RemovePlan(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.RemovePlan(r.Context(), chi.URLParam(r, "planID")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddCoupon stores a new coupon.
func (h *Handler) AddCoupon(w http.ResponseWriter, r *http.Request) {
	var c catalog.Coupon
	if err := decodeBody(r, &c); err != nil {
		h.writeError(w, err)
		return
	}

	created, err := h.admin.AddCoupon(r.Context(), c)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateCoupon applies a partial update to a coupon.
func (h *Handler) UpdateCoupon(w http.ResponseWriter, r *http.Request) {
	var patch app.CouponPatch
	if err := decodeBody(r, &patch); err != nil {
		h.writeError(w, err)
		return
	}

	updated, err := h.admin.UpdateCoupon(r.Context(), chi.URLParam(r, "code"), patch)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// RemoveCoupon deletes a coupon.
func (h *Handler) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.RemoveCoupon(r.Context(), chi.URLParam(r, "code")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMemberAccounts returns member accounts for the admin view,
// newest activation first, optionally filtered by plan.
func (h *Handler) ListMemberAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, counts, err := h.members.ListAccounts(r.Context(), r.URL.Query().Get("planId"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	views := make([]memberView, 0, len(accounts))
	for _, a := range accounts {
		views = append(views, viewOf(a))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"accounts":    views,
		"countByPlan": counts,
	})
}

// ListMemberLogs returns audit entries newest first.
func (h *Handler) ListMemberLogs(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err == nil {
			limit = parsed
		}
	}

	logs, err := h.members.Logs(r.Context(), r.URL.Query().Get("planId"), limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"logs": logs})
}
