package web

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/JonMunkholm/dataview/internal/core"
	"github.com/JonMunkholm/dataview/internal/web/templates"
)

const (
	// formMemory is how much of a multipart body is buffered in memory
	// before spilling to temp files.
	formMemory = 8 << 20

	// formOverhead allows for multipart framing and the other form fields
	// on top of the file itself.
	formOverhead = 1 << 20
)

const (
	msgUploadOK     = "Data uploaded successfully!"
	msgUploadFailed = "Error loading uploaded file: "
	msgExampleFail  = "Error loading example dataset: "
)

// loadForm is the parsed body of a load request. A file takes precedence
// over an example selection.
type loadForm struct {
	file     multipart.File
	filename string

	example     core.ExampleID
	exampleName string
	exampleErr  error

	form *multipart.Form
}

func (f *loadForm) close() {
	if f.file != nil {
		f.file.Close()
	}
	if f.form != nil {
		_ = f.form.RemoveAll()
	}
}

func (f *loadForm) hasFile() bool {
	return f.file != nil
}

// readLoadForm parses a multipart load request. Oversized bodies fail as a
// parse error with ErrFileTooLarge as the cause.
func (s *Server) readLoadForm(w http.ResponseWriter, r *http.Request) (*loadForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.loader.MaxFileSize()+formOverhead)

	if err := r.ParseMultipartForm(formMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, core.NewLoadError(core.KindParse, "upload",
				fmt.Errorf("%w: request body exceeds %d bytes", core.ErrFileTooLarge, mbe.Limit))
		}
		if !errors.Is(err, http.ErrNotMultipart) {
			return nil, fmt.Errorf("%w: %w", core.ErrMalformedForm, err)
		}
	}

	f := &loadForm{form: r.MultipartForm}

	file, hdr, err := r.FormFile("file")
	switch {
	case err == nil:
		f.file, f.filename = file, hdr.Filename
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		f.close()
		return nil, fmt.Errorf("%w: %w", core.ErrMalformedForm, err)
	}

	f.exampleName = strings.TrimSpace(r.FormValue("example"))
	f.example, f.exampleErr = core.ParseExampleID(f.exampleName)
	return f, nil
}

// loadOutcome is the result of one load request against a session.
type loadOutcome struct {
	status  *templates.Status
	preview core.Preview
	code    int
	err     error
}

// runLoad performs the load the form asks for against sess and renders the
// resulting preview. The session changes only on success.
func (s *Server) runLoad(r *http.Request, sess *core.Session, f *loadForm) loadOutcome {
	ctx := r.Context()

	switch {
	case f.hasFile():
		ds, err := sess.Apply(ctx, func(ctx context.Context) (*core.Dataset, error) {
			return s.loader.LoadFile(ctx, f.filename, f.file)
		})
		if err != nil {
			return s.failedLoad(sess, msgUploadFailed, err)
		}
		return loadOutcome{
			status:  &templates.Status{Kind: templates.StatusSuccess, Text: msgUploadOK},
			preview: core.RenderPreview(ds, core.PreviewRows),
			code:    http.StatusOK,
		}

	case f.exampleErr != nil:
		err := core.NewLoadError(core.KindExampleFetch, f.exampleName, f.exampleErr)
		return s.failedLoad(sess, msgExampleFail, err)

	case f.example != core.ExampleNone:
		ds, err := sess.Apply(ctx, func(ctx context.Context) (*core.Dataset, error) {
			return s.loader.LoadExample(ctx, f.example)
		})
		if err != nil {
			return s.failedLoad(sess, msgExampleFail, err)
		}
		return loadOutcome{
			status:  &templates.Status{Kind: templates.StatusSuccess, Text: ds.Source().Name + " dataset loaded successfully!"},
			preview: core.RenderPreview(ds, core.PreviewRows),
			code:    http.StatusOK,
		}

	default:
		return loadOutcome{preview: s.currentPreview(sess), code: http.StatusOK}
	}
}

func (s *Server) failedLoad(sess *core.Session, prefix string, err error) loadOutcome {
	return loadOutcome{
		status:  &templates.Status{Kind: templates.StatusError, Text: prefix + causeText(err)},
		preview: s.currentPreview(sess),
		code:    statusFor(err),
		err:     err,
	}
}

// currentPreview renders whatever the session holds, taking the session's
// turn so it never observes a load in progress.
func (s *Server) currentPreview(sess *core.Session) core.Preview {
	var p core.Preview
	sess.View(func(ds *core.Dataset) {
		p = core.RenderPreview(ds, core.PreviewRows)
	})
	return p
}
