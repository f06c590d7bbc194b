package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/matchops/cup-console/brackets"
	"github.com/matchops/cup-console/services"
)

var errInvalidSide = errors.New(`side must be "A" or "B"`)

type BracketHandler struct {
	bracketService services.BracketService
}

func NewBracketHandler(bs services.BracketService) *BracketHandler {
	return &BracketHandler{bracketService: bs}
}

func (h *BracketHandler) View(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.bracketService.View(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"bracket": view}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type assignInput struct {
	Slot string `json:"slot"`
	Side string `json:"side"`
	Team string `json:"team"`
}

func (h *BracketHandler) Assign(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input assignInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	side, err := parseSide(input.Side)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.bracketService.Assign(r.Context(), tournamentID, input.Slot, side, input.Team)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"bracket": view}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type clearInput struct {
	Slot string `json:"slot"`
	Side string `json:"side"`
}

func (h *BracketHandler) Clear(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input clearInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	side, err := parseSide(input.Side)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.bracketService.Clear(r.Context(), tournamentID, input.Slot, side)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"bracket": view}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type rescheduleInput struct {
	Slot        string  `json:"slot"`
	Venue       *string `json:"venue,omitempty"`
	KickoffTime *string `json:"kickoff_time,omitempty"`
}

func (h *BracketHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input rescheduleInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	change := brackets.FieldChange{Venue: input.Venue}
	if input.KickoffTime != nil {
		kickoff, err := time.Parse(time.RFC3339, *input.KickoffTime)
		if err != nil {
			badRequestResponse(w, r, errors.New("kickoff_time must be RFC 3339"))
			return
		}
		change.KickoffTime = &kickoff
	}

	view, err := h.bracketService.Reschedule(r.Context(), tournamentID, input.Slot, change)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"bracket": view}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type walkoverInput struct {
	Slot       string `json:"slot"`
	WinnerSide string `json:"winner_side"`
}

func (h *BracketHandler) Walkover(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input walkoverInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	side, err := parseSide(input.WinnerSide)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.bracketService.Walkover(r.Context(), tournamentID, input.Slot, side)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"bracket": view}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BracketHandler) Save(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.bracketService.Save(r.Context(), tournamentID)
	if err != nil {
		// The view still reflects reality after a failed save; the client
		// gets both the error and the reloaded state.
		if view != nil {
			errorResponse(w, r, http.StatusBadGateway, jsonResponse{
				"message": err.Error(),
				"bracket": view,
			})
			return
		}
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"bracket": view}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BracketHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.bracketService.Refresh(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"bracket": view}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BracketHandler) Eligibility(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	eligibility, err := h.bracketService.Eligibility(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"eligibility": eligibility}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BracketHandler) Standings(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.bracketService.Standings(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type bracketSizeInput struct {
	BracketSize int `json:"bracket_size"`
}

func (h *BracketHandler) SetSize(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input bracketSizeInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.bracketService.SetBracketSize(r.Context(), tournamentID, input.BracketSize); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"bracket_size": input.BracketSize}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func parseSide(raw string) (brackets.Side, error) {
	switch raw {
	case "A", "a":
		return brackets.SideA, nil
	case "B", "b":
		return brackets.SideB, nil
	default:
		return "", errInvalidSide
	}
}
