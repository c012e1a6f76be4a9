package handlers

// issue.go implements the POST /api/issue endpoint for issuing certificates.

import (
	"encoding/json"
	"net/http"

	"github.com/certs365/certify-server/internal/certify"
)

// IssueHandler handles POST /api/issue requests
type IssueHandler struct {
	issuer *certify.Issuer
}

// NewIssueHandler creates a new handler for certificate issuance
func NewIssueHandler(issuer *certify.Issuer) *IssueHandler {
	return &IssueHandler{issuer: issuer}
}

// ServeHTTP godoc
//
//	@Summary		Issue a certificate
//	@Description	Hashes the certificate fields, anchors the combined hash on the blockchain contract
//	@Description	and returns a QR code image containing the encrypted verification link.
//	@Description
//	@Description	Both date fields must parse under one of the accepted input formats
//	@Description	(MM/DD/YYYY, DD/MM/YYYY, "DD Month, YYYY" or "DD Mon, YYYY").
//	@Description	Re-issuing a certificate whose fields are already anchored under the same
//	@Description	certificate number is rejected as a duplicate.
//	@Tags			Certificate
//	@Accept			json
//	@Produce		json
//	@Param			request	body		certify.IssueRequest	true	"certificate fields"
//	@Success		200		{object}	certify.IssueResponse	"certificate issued"
//	@Failure		400		{object}	certify.ErrorResponse	"missing field, invalid date or duplicate certificate"
//	@Failure		500		{object}	certify.ErrorResponse	"ledger or internal failure"
//	@Router			/api/issue [post]
func (h *IssueHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req certify.IssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		certify.RespondWithErrorResponse(w, r, certify.WrapMalformedRequestError(err, "failed to decode request body"))
		return
	}

	response, err := h.issuer.Issue(r.Context(), req)
	if err != nil {
		certify.RespondWithErrorResponse(w, r, err)
		return
	}

	certify.RespondWithJSONPayload(w, http.StatusOK, response)
}
