package richtext

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bokwoon95/erro"
	"github.com/go-chi/chi/middleware"
	"go.uber.org/zap"
)

// SanitizeRequest is the body of a sanitize call.
type SanitizeRequest struct {
	Data    Data    `json:"data"`
	Options Options `json:"options"`
}

// ServeSanitize sanitizes the widget in the request body and responds with
// the result. If a SearchIndexer is configured the widget's search texts
// are indexed as well. Bodies larger than the configured maximum are
// rejected with 413.
func (rt *Widget) ServeSanitize(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, rt.maxBodySize)
	var req SanitizeRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	output, err := rt.Sanitize(r.Context(), req.Data, req.Options)
	if err != nil {
		rt.internalServerError(w, r, erro.Wrap(err))
		return
	}
	if rt.indexer != nil {
		texts := rt.AddSearchTexts(output, nil)
		err = rt.indexer.IndexTexts(r.Context(), output.ID, texts)
		if err != nil {
			rt.internalServerError(w, r, erro.Wrap(err))
			return
		}
	}
	rt.writeJSON(w, r, output)
}

// ServeBrowserData responds with GetBrowserData.
func (rt *Widget) ServeBrowserData(w http.ResponseWriter, r *http.Request) {
	rt.writeJSON(w, r, rt.GetBrowserData(r.Context()))
}

func (rt *Widget) writeJSON(w http.ResponseWriter, r *http.Request, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		rt.internalServerError(w, r, erro.Wrap(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(b)
}

func (rt *Widget) internalServerError(w http.ResponseWriter, r *http.Request, serverErr error) {
	rt.logger.Error("request failed",
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Error(serverErr),
	)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
