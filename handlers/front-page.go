package handlers

import (
	"log"
	"net/http"
	"permablog/render"
)

func (h *HTTPHandler) HandleFrontPage(w http.ResponseWriter, r *http.Request) {
	posts, err := h.Storage.GetPosts(r.Context())
	if err != nil {
		log.Printf("Failed to get posts: %s", err.Error())
		http.Error(w, INTERNAL_ERROR_MESSAGE, http.StatusInternalServerError)
		return
	}
	h.render(w, render.FrontPage, render.Params{
		render.BlogTitle: "",
		render.BlogEntry: "",
		render.Posts:     posts,
	})
}
