package handlers

import (
	"errors"
	"log"
	"net/http"
	"permablog/render"
	"permablog/storage"
)

const VALIDATION_ERROR_MESSAGE = "We need a title and a blog entry."

// MAX_FORM_BYTES bounds the encoded new post form. It stays below the 16MB
// document limit of the mongo backend.
const MAX_FORM_BYTES = 12 << 20

const (
	titleField = "subject"
	bodyField  = "content"
)

func (h *HTTPHandler) HandleNewPostForm(w http.ResponseWriter, r *http.Request) {
	h.renderNewPost(w, "", "", "")
}

func (h *HTTPHandler) HandleCreatePost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MAX_FORM_BYTES)
	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Printf("Rejected new post form over %d bytes", tooLarge.Limit)
			http.Error(w, "Post is too large", http.StatusRequestEntityTooLarge)
			return
		}
		log.Printf("Failed to parse new post form: %s", err.Error())
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	title := r.FormValue(titleField)
	body := r.FormValue(bodyField)

	if storage.ValidatePost(title, body) != nil {
		h.renderNewPost(w, title, body, VALIDATION_ERROR_MESSAGE)
		return
	}

	post, err := h.Storage.AddPost(r.Context(), title, body)
	if err != nil {
		if errors.Is(err, storage.ValidationError) {
			h.renderNewPost(w, title, body, VALIDATION_ERROR_MESSAGE)
			return
		}
		log.Printf("Failed to add post: %s", err.Error())
		http.Error(w, INTERNAL_ERROR_MESSAGE, http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, post.Permalink(), http.StatusFound)
}

func (h *HTTPHandler) renderNewPost(w http.ResponseWriter, title, body, errorMessage string) {
	h.render(w, render.NewPost, render.Params{
		render.BlogTitle: title,
		render.BlogEntry: body,
		render.Error:     errorMessage,
	})
}
