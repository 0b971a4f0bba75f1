package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/truckparts/backend/internal/adapter/http/dto"
	"github.com/truckparts/backend/internal/domain"
	"github.com/truckparts/backend/internal/usecase"
)

// CredentialService defines the behavior needed for provider credentials.
type CredentialService interface {
	Connect(ctx context.Context, input usecase.ConnectInput) (*domain.Credential, error)
}

// CatalogSyncService defines the behavior needed for catalog sync.
type CatalogSyncService interface {
	SyncMerchant(ctx context.Context, merchantID string) (*usecase.SyncResult, error)
}

// IntegrationHandler handles external provider credentials and catalog sync.
type IntegrationHandler struct {
	credentialUC CredentialService
	syncUC       CatalogSyncService
}

// NewIntegrationHandler creates a new IntegrationHandler.
func NewIntegrationHandler(credentialUC CredentialService, syncUC CatalogSyncService) *IntegrationHandler {
	return &IntegrationHandler{
		credentialUC: credentialUC,
		syncUC:       syncUC,
	}
}

// ConnectCredential stores the OAuth credential for an external account.
// Token values are accepted here but never echoed back.
func (h *IntegrationHandler) ConnectCredential(w http.ResponseWriter, r *http.Request) {
	var req dto.ConnectCredentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	cred, err := h.credentialUC.Connect(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to store credential", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.CredentialFromDomain(cred))
}

// CloverSync pulls the merchant's Clover catalog into the product table.
func (h *IntegrationHandler) CloverSync(w http.ResponseWriter, r *http.Request) {
	merchantID := chi.URLParam(r, "merchantID")
	if merchantID == "" {
		writeError(w, http.StatusBadRequest, "missing merchant ID", "")
		return
	}

	result, err := h.syncUC.SyncMerchant(r.Context(), merchantID)
	if err != nil {
		writeError(w, mapDomainError(err), "catalog sync failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SyncResultFromUseCase(result))
}
