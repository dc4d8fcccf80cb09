package web

import (
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/dataview/internal/core"
	"github.com/JonMunkholm/dataview/internal/logging"
	"github.com/JonMunkholm/dataview/internal/web/templates"
)

const pageTitle = "Data Preview Dashboard"

// handleDashboard renders the full page for the caller's session.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess := requestSession(r)
	p := s.currentPreview(sess)
	s.renderPage(w, r, http.StatusOK, s.dashboardView(nil, p, selectedLabel(p)))
}

// handleLoad applies an upload or example selection to the session. HTMX
// requests get the panel fragment with 200 so the swap always happens;
// plain form posts get the whole page with a status matching the outcome.
func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	sess := requestSession(r)
	logger := logging.FromContext(r.Context())

	form, err := s.readLoadForm(w, r)
	var out loadOutcome
	if err != nil {
		out = s.failedLoad(sess, msgUploadFailed, err)
	} else {
		defer form.close()
		out = s.runLoad(r, sess, form)
	}

	if out.err != nil {
		logger.Warn("dataset load failed", "error", out.err, "status", out.code)
	} else if out.preview.Loaded && out.status != nil {
		logger.Info("dataset loaded",
			"source", out.preview.Source.Name,
			"rows", out.preview.Rows,
			"cols", out.preview.Cols,
		)
	}

	if isHTMX(r) {
		s.renderFragment(w, r, http.StatusOK, templates.Panel(out.status, out.preview))
		return
	}

	selected := selectedLabel(out.preview)
	if form != nil && form.exampleName != "" && !form.hasFile() {
		selected = form.exampleName
	}
	s.renderPage(w, r, out.code, s.dashboardView(out.status, out.preview, selected))
}

// handlePreview renders the preview fragment for the session.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	sess := requestSession(r)
	s.renderFragment(w, r, http.StatusOK, templates.PreviewPanel(s.currentPreview(sess)))
}

func (s *Server) dashboardView(status *templates.Status, p core.Preview, selected string) templates.DashboardView {
	return templates.DashboardView{
		Options:     core.ExampleOptions(),
		Selected:    selected,
		Accept:      strings.Join(core.SupportedExtensions, ","),
		MaxFileSize: s.loader.MaxFileSize(),
		Status:      status,
		Preview:     p,
	}
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, code int, v templates.DashboardView) {
	s.renderFragment(w, r, code, templates.Layout(pageTitle, templates.Dashboard(v)))
}

func (s *Server) renderFragment(w http.ResponseWriter, r *http.Request, code int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render failed", "error", err)
	}
}

// selectedLabel is the dropdown entry matching the loaded dataset.
func selectedLabel(p core.Preview) string {
	if p.Source != nil && p.Source.IsExample() {
		if info, ok := core.GetExample(p.Source.Example); ok {
			return info.Label
		}
	}
	return core.NoneLabel
}
