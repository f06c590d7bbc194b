package handlers

import (
	"net/http"

	"github.com/matchops/cup-console/services"
)

type NewsHandler struct {
	newsService services.NewsService
}

func NewNewsHandler(ns services.NewsService) *NewsHandler {
	return &NewsHandler{newsService: ns}
}

func (h *NewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.NewsPostInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.TournamentID = tournamentID

	post, err := h.newsService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"post": post}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *NewsHandler) Update(w http.ResponseWriter, r *http.Request) {
	postID, err := urlParam(r, "postID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input services.NewsPostInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	post, err := h.newsService.Update(r.Context(), postID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"post": post}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *NewsHandler) List(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	publishedOnly := r.URL.Query().Get("all") == ""

	posts, err := h.newsService.List(r.Context(), tournamentID, publishedOnly)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"posts": posts}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *NewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	postID, err := urlParam(r, "postID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.newsService.Delete(r.Context(), postID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
