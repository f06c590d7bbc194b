package handlers

import (
	"net/http"

	"github.com/matchops/cup-console/services"
)

type PredictionHandler struct {
	predictionService services.PredictionService
}

func NewPredictionHandler(ps services.PredictionService) *PredictionHandler {
	return &PredictionHandler{predictionService: ps}
}

func (h *PredictionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	matchID, err := urlParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.CreatePredictionInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.MatchID = matchID

	prediction, err := h.predictionService.Submit(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"prediction": prediction}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PredictionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	matchID, err := urlParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	summary, err := h.predictionService.Summary(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	predictions, err := h.predictionService.List(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"summary": summary, "predictions": predictions}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
