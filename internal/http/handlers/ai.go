package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"ouroz/internal/gateway"
	"ouroz/internal/middleware"
)

const defaultMaxBodyBytes = 25 << 20

func (a *App) GenerateImage(w http.ResponseWriter, r *http.Request) {
	handle[gateway.ImageGenerateRequest](a, w, r)
}

func (a *App) EditImage(w http.ResponseWriter, r *http.Request) {
	handle[gateway.ImageEditRequest](a, w, r)
}

func (a *App) GenerateVideo(w http.ResponseWriter, r *http.Request) {
	handle[gateway.VideoGenerateRequest](a, w, r)
}

func (a *App) GroundedQuery(w http.ResponseWriter, r *http.Request) {
	handle[gateway.GroundedQueryRequest](a, w, r)
}

func (a *App) Transcribe(w http.ResponseWriter, r *http.Request) {
	handle[gateway.TranscribeRequest](a, w, r)
}

func (a *App) NegotiationAdvice(w http.ResponseWriter, r *http.Request) {
	handle[gateway.NegotiationAdviceRequest](a, w, r)
}

func (a *App) AnalyzeDocument(w http.ResponseWriter, r *http.Request) {
	handle[gateway.AnalyzeDocumentRequest](a, w, r)
}

func (a *App) AnalyzeVisual(w http.ResponseWriter, r *http.Request) {
	handle[gateway.AnalyzeVisualRequest](a, w, r)
}

func (a *App) TextToSpeech(w http.ResponseWriter, r *http.Request) {
	handle[gateway.TextToSpeechRequest](a, w, r)
}

// handle decodes a JSON body into T, runs it through the gateway and writes
// the envelope with its status code.
func handle[T gateway.Request](a *App, w http.ResponseWriter, r *http.Request) {
	var req T
	if !a.decode(w, r, &req) {
		return
	}

	info := gateway.CallInfo{
		RequestID: middleware.RequestIDFromContext(r.Context()),
		Locale:    middleware.LocaleFromContext(r.Context()),
	}
	if loc, ok := middleware.LocationFromContext(r.Context()); ok {
		info.Location = &gateway.LatLng{Latitude: loc.Latitude, Longitude: loc.Longitude}
	}

	env := a.Gateway.Execute(gateway.WithCallInfo(r.Context(), info), req)
	a.json(w, env.StatusCode(), env)
}

func (a *App) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	limit := a.MaxBodyBytes
	if limit <= 0 {
		limit = defaultMaxBodyBytes
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			a.error(w, http.StatusRequestEntityTooLarge, "request body too large")
		case errors.Is(err, io.EOF):
			a.error(w, http.StatusBadRequest, "request body is required")
		default:
			a.error(w, http.StatusBadRequest, "invalid JSON body")
		}
		return false
	}
	return true
}
