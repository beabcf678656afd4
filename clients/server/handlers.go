package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	"github.com/xob0t/cardgen/pkg/generator"
	"github.com/xob0t/cardgen/pkg/storage"
	"github.com/xob0t/cardgen/pkg/template"
)

// generateRequest is the body of POST /generate. Pointers distinguish an
// absent field from an empty string.
type generateRequest struct {
	Headline *string `json:"headline"`
	Body     *string `json:"body"`
}

// validate checks required fields. Absent fields are only an error when
// required is set; otherwise they render as empty text.
func (req generateRequest) validate(required bool) error {
	if required && (req.Headline == nil || req.Body == nil) {
		return errMissingFields
	}
	return nil
}

func (req generateRequest) texts() (headline, body string) {
	if req.Headline != nil {
		headline = *req.Headline
	}
	if req.Body != nil {
		body = *req.Body
	}
	return headline, body
}

type generateResponse struct {
	Status   string `json:"status"`
	ImageURL string `json:"image_url"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	if err := req.validate(s.fileDelivery()); err != nil {
		writeError(w, http.StatusBadRequest, msgMissingFields)
		return
	}

	headline, body := req.texts()
	data, res, err := s.renderer.RenderEncoded(s.variant, headline, body)
	if err != nil {
		s.log.Printf("generate: %v", err)
		writeError(w, http.StatusInternalServerError, msgGenerate)
		return
	}
	if res.Truncated {
		s.log.Printf("generate: body truncated at cutoff after %d lines", len(res.Instructions))
	}

	if !s.fileDelivery() {
		w.Header().Set("Content-Type", generator.ContentType(s.renderer.Format()))
		w.WriteHeader(http.StatusOK)
		w.Write(data)
		return
	}

	name, err := s.store.Save(data)
	if err != nil {
		s.log.Printf("generate: save: %v", err)
		writeError(w, http.StatusInternalServerError, msgGenerate)
		return
	}
	writeJSON(w, http.StatusOK, generateResponse{
		Status:   "success",
		ImageURL: s.baseURL + "/generated/" + name,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVariants(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(s.variants))
	for name := range s.variants {
		names = append(names, name)
	}
	sort.Strings(names)

	list := make([]template.Variant, 0, len(names))
	for _, name := range names {
		list = append(list, s.variants[name])
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"active":   s.variant.Name,
		"variants": list,
	})
}

func (s *Server) handleGenerated(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	rc, modTime, err := s.store.Open(name)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Printf("generated %q: %v", name, err)
		}
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}
	defer rc.Close()

	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.ServeContent(w, r, name, modTime, rc)
}
