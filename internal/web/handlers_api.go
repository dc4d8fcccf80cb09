package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/JonMunkholm/dataview/internal/core"
)

// ExamplesResponse lists the example datasets, the dropdown options and
// the examples already fetched.
type ExamplesResponse struct {
	Examples []core.ExampleInfo `json:"examples"`
	Options  []string           `json:"options"`
	Cached   []core.ExampleID   `json:"cached"`
}

// LoadResponse is returned after a successful API load.
type LoadResponse struct {
	Message string       `json:"message"`
	Preview core.Preview `json:"preview"`
}

// HealthResponse reports liveness and load capacity.
type HealthResponse struct {
	Status   string                 `json:"status"`
	Sessions int                    `json:"sessions"`
	Loads    core.LoadLimiterStatus `json:"loads"`
}

func (s *Server) handleListExamples(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, ExamplesResponse{
		Examples: core.Examples(),
		Options:  core.ExampleOptions(),
		Cached:   s.loader.CachedExamples(),
	})
}

func (s *Server) handleGetDataset(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.currentPreview(requestSession(r)))
}

// handleAPIUpload loads the multipart "file" field into the session.
func (s *Server) handleAPIUpload(w http.ResponseWriter, r *http.Request) {
	sess := requestSession(r)

	form, err := s.readLoadForm(w, r)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	defer form.close()

	if !form.hasFile() {
		err := core.NewLoadError(core.KindParse, "upload", core.ErrNoFile)
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	out := s.runLoad(r, sess, &loadForm{file: form.file, filename: form.filename})
	if out.err != nil {
		s.respondError(w, r, out.err, out.code)
		return
	}
	render.JSON(w, r, LoadResponse{Message: out.status.Text, Preview: out.preview})
}

// handleAPILoadExample loads the example named in the path. "none" is not
// a dataset here, so it is reported as unknown.
func (s *Server) handleAPILoadExample(w http.ResponseWriter, r *http.Request) {
	sess := requestSession(r)
	name := chi.URLParam(r, "name")

	id, err := core.ParseExampleID(name)
	if err == nil && id == core.ExampleNone {
		err = core.ErrUnknownExample
	}
	if err != nil {
		le := core.NewLoadError(core.KindExampleFetch, name, err)
		s.respondError(w, r, le, statusFor(le))
		return
	}

	out := s.runLoad(r, sess, &loadForm{example: id, exampleName: name})
	if out.err != nil {
		s.respondError(w, r, out.err, out.code)
		return
	}
	render.JSON(w, r, LoadResponse{Message: out.status.Text, Preview: out.preview})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, HealthResponse{
		Status:   "ok",
		Sessions: s.sessions.Len(),
		Loads:    s.loader.Limiter().Status(),
	})
}
