package handlers

// verify.go implements the POST /api/verify-decrypt endpoint for verifying
// encrypted certificate payloads presented by a scanner.

import (
	"encoding/json"
	"net/http"

	"github.com/certs365/certify-server/internal/certify"
)

// VerifyHandler handles POST /api/verify-decrypt requests
type VerifyHandler struct {
	verifier *certify.Verifier
}

// NewVerifyHandler creates a new handler for certificate verification
func NewVerifyHandler(verifier *certify.Verifier) *VerifyHandler {
	return &VerifyHandler{verifier: verifier}
}

// ServeHTTP godoc
//
//	@Summary		Verify an encrypted certificate payload
//	@Description	Decrypts the payload obtained from a certificate QR code and returns the
//	@Description	certificate data on success.
//	@Description
//	@Description	A payload that fails to decrypt returns status FAILED with HTTP 200 -
//	@Description	an unverifiable payload is a normal outcome, not a server error.
//	@Tags			Certificate
//	@Accept			json
//	@Produce		json
//	@Param			request	body		certify.VerifyRequest	true	"encrypted payload and IV from the QR link"
//	@Success		200		{object}	certify.VerifyResponse	"verification result (PASSED or FAILED)"
//	@Failure		400		{object}	certify.ErrorResponse	"malformed request body"
//	@Router			/api/verify-decrypt [post]
func (h *VerifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req certify.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		certify.RespondWithErrorResponse(w, r, certify.WrapMalformedRequestError(err, "failed to decode request body"))
		return
	}

	response := h.verifier.Verify(r.Context(), req)

	certify.RespondWithJSONPayload(w, http.StatusOK, response)
}
