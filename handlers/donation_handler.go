package handlers

import (
	"net/http"

	"github.com/matchops/cup-console/services"
)

type DonationHandler struct {
	donationService services.DonationService
}

func NewDonationHandler(ds services.DonationService) *DonationHandler {
	return &DonationHandler{donationService: ds}
}

func (h *DonationHandler) Create(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.CreateDonationInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.TournamentID = tournamentID

	donation, err := h.donationService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"donation": donation}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DonationHandler) Board(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	board, err := h.donationService.Board(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"board": board}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
