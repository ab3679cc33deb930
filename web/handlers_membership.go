package web

import (
	"net/http"

	"github.com/blackforge/storefront/ports"
)

type registerMemberRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	SessionID string `json:"sessionId"`
}

type memberView struct {
	Email      string           `json:"email"`
	Membership ports.Membership `json:"membership"`
}

func viewOf(account ports.MemberAccount) memberView {
	return memberView{Email: account.Email, Membership: account.Membership}
}

// RegisterMember creates a member account from a paid membership
// session and issues a device-bound token.
func (h *Handler) RegisterMember(w http.ResponseWriter, r *http.Request) {
	var req registerMemberRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	token, account, err := h.members.Register(r.Context(), req.Email, req.Password, req.SessionID, r.Header.Get(deviceIDHeader))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"token":  token,
		"member": viewOf(account),
	})
}

type loginMemberRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginMember authenticates a member and issues a device-bound token.
func (h *Handler) LoginMember(w http.ResponseWriter, r *http.Request) {
	var req loginMemberRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	token, account, err := h.members.Login(r.Context(), req.Email, req.Password, r.Header.Get(deviceIDHeader))
	if err != nil {
		h.authFailure("member_login")
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token":  token,
		"member": viewOf(account),
	})
}

// MemberMe returns the calling member's account state.
func (h *Handler) MemberMe(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	account, err := h.members.Get(r.Context(), claims.Subject)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(account))
}

// MemberDownloads returns the download links the member's plan grants.
func (h *Handler) MemberDownloads(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	links, err := h.downloads.MembershipLinks(r.Context(), claims.Subject)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"downloads": links})
}
