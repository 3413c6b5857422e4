package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/shrink-ray/pkg/ports"
)

type LinkHandler struct {
	links ports.LinkService
	log   *zerolog.Logger
}

func NewLinkHandler(links ports.LinkService, log *zerolog.Logger) *LinkHandler {
	return &LinkHandler{links: links, log: log}
}

// ShortenRequest payload
type ShortenRequest struct {
	OriginalURL string `json:"originalUrl"`
}

func (h *LinkHandler) Shorten(w http.ResponseWriter, r *http.Request) {
	var req ShortenRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(h.log, w, r, err)
		return
	}

	link, err := h.links.Shorten(r.Context(), SessionFrom(r.Context()), req.OriginalURL)
	if err != nil {
		writeError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, link)
}

// Redirect counts the visit, then sends the caller to the original URL.
func (h *LinkHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	link, err := h.links.Resolve(r.Context(), r.PathValue("targetLinkId"))
	if err != nil {
		writeError(h.log, w, r, err)
		return
	}

	http.Redirect(w, r, link.OriginalURL, http.StatusFound)
}

func (h *LinkHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	links, err := h.links.ListForUser(r.Context(), SessionFrom(r.Context()), r.PathValue("targetUserId"))
	if err != nil {
		writeError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, links)
}

func (h *LinkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	session := SessionFrom(r.Context())
	userID := r.PathValue("targetUserId")
	linkID := r.PathValue("targetLinkId")

	if err := h.links.DeleteLink(r.Context(), session, userID, linkID); err != nil {
		writeError(h.log, w, r, err)
		return
	}

	h.log.Info().Str("linkId", linkID).Str("by", session.UserID()).Msg("link deleted")
	writeJSON(w, http.StatusOK, messageResponse{Message: "deleted"})
}
