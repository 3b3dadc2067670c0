package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mcextract/mcextract/internal/handler/dto"
	"github.com/mcextract/mcextract/internal/mc"
)

// LoginHandler exchanges caller credentials for an access token.
type LoginHandler struct {
	client *mc.Client
	logger *slog.Logger
}

// NewLoginHandler creates a LoginHandler.
func NewLoginHandler(client *mc.Client, logger *slog.Logger) *LoginHandler {
	return &LoginHandler{
		client: client,
		logger: logger.With("component", "handler.login"),
	}
}

// Login authenticates against the upstream token endpoint.
// POST /api/login
func (h *LoginHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	creds := req.Credentials()
	if missing := creds.MissingFields(); len(missing) > 0 {
		writeError(w, http.StatusBadRequest, "Missing required fields", strings.Join(missing, ", "))
		return
	}

	h.logger.Info("login attempt",
		"subdomain", creds.Subdomain,
		"client_id", creds.RedactedClientID(),
		"account_mid", creds.AccountMID,
	)

	token, err := h.client.Authenticate(r.Context(), creds)
	if err != nil {
		h.logger.Error("authentication failed",
			"subdomain", creds.Subdomain,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "Authentication failed", errorDetails(err))
		return
	}

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		AccessToken: token.AccessToken,
		Subdomain:   token.Subdomain,
		ExpiresAt:   token.ExpiresAt,
	})
}

// errorDetails extracts the upstream diagnostic string for a fatal error:
// status and body for HTTP failures, the error text otherwise.
func errorDetails(err error) string {
	if apiErr, ok := mc.AsAPIError(err); ok {
		return apiErr.Error()
	}
	return err.Error()
}
