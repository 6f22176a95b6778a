package handlers

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/google/uuid"
)

const RequestIdHeader = "X-Request-Id"

// LogRequests tags each request with an id and writes an access log line once served.
func LogRequests(next http.Handler) http.Handler {
	return logRequestsTo(log.Writer(), next)
}

func logRequestsTo(out io.Writer, next http.Handler) http.Handler {
	logged := gorillahandlers.CustomLoggingHandler(out, next, formatAccessLog)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestId := r.Header.Get(RequestIdHeader)
		if requestId == "" {
			requestId = uuid.New().String()
			r.Header.Set(RequestIdHeader, requestId)
		}
		w.Header().Set(RequestIdHeader, requestId)
		logged.ServeHTTP(w, r)
	})
}

func formatAccessLog(out io.Writer, params gorillahandlers.LogFormatterParams) {
	fmt.Fprintf(out, "%s %s %s %s %d %d %s\n",
		params.TimeStamp.Format("2006/01/02 15:04:05"),
		params.Request.Header.Get(RequestIdHeader),
		params.Request.Method,
		params.URL.RequestURI(),
		params.StatusCode,
		params.Size,
		time.Since(params.TimeStamp),
	)
}
