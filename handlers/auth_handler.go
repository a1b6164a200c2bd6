package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/camma-system/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type otpRequest struct {
	PhoneNumber string `json:"phone_number"`
}

func (h *AuthHandler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var input otpRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.PhoneNumber == "" {
		badRequestResponse(w, r, errors.New("phone_number is required"))
		return
	}

	resp, err := h.authService.RequestOTP(r.Context(), input.PhoneNumber)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, resp)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.PhoneNumber == "" || input.OTPCode == "" {
		badRequestResponse(w, r, errors.New("phone_number and otp_code are required"))
		return
	}

	token, err := h.authService.Login(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, token)
}
