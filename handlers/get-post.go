package handlers

import (
	"errors"
	"log"
	"net/http"
	"permablog/render"
	"permablog/storage"
	"strconv"

	"github.com/gorilla/mux"
)

func (h *HTTPHandler) HandleGetPost(w http.ResponseWriter, r *http.Request) {
	// the route only matches digits; ids beyond int64 cannot exist
	postId, err := strconv.ParseInt(mux.Vars(r)["postId"], 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	post, err := h.Storage.GetPost(r.Context(), postId)
	if err != nil {
		if errors.Is(err, storage.NotFoundError) {
			http.NotFound(w, r)
			return
		}
		log.Printf("Failed to get post %d: %s", postId, err.Error())
		http.Error(w, INTERNAL_ERROR_MESSAGE, http.StatusInternalServerError)
		return
	}
	h.render(w, render.Permalink, render.Params{render.Post: post})
}
