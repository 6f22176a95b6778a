package handlers

import (
	"bytes"
	"log"
	"net/http"
	"permablog/render"
	"permablog/storage"
)

const INTERNAL_ERROR_MESSAGE = "Internal server error"

type HTTPHandler struct {
	Storage  storage.Storage
	Renderer render.Renderer
}

// render buffers the page so a failing template never leaves a half written response.
func (h *HTTPHandler) render(w http.ResponseWriter, name string, params render.Params) {
	var buf bytes.Buffer
	if err := h.Renderer.Render(&buf, name, params); err != nil {
		log.Printf("Failed to render %s: %s", name, err.Error())
		http.Error(w, INTERNAL_ERROR_MESSAGE, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("pong"))
}
