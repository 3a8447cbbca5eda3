package web

import (
	"errors"
	"io"
	"net/http"

	"github.com/JonMunkholm/tableman/internal/core"
	"github.com/JonMunkholm/tableman/internal/logging"
)

// errNoFile is mapped to FILE004 by core.MapError.
var errNoFile = errors.New("no file provided")

// multipartMemory is how much of a form is buffered in memory before
// spilling to temp files.
const multipartMemory = 32 << 20

// importResponse is returned after a successful import.
type importResponse struct {
	Table   tableResponse      `json:"table"`
	Preview core.ImportPreview `json:"preview"`
}

// readUpload returns the name and contents of the "file" form field,
// enforcing the configured size limit.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	maxSize := s.cfg.Upload.MaxFileSize
	// Leave room for multipart framing and other fields.
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+1<<20)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return "", nil, core.ErrFileTooLarge
		}
		return "", nil, errors.Join(errBadRequest, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, errNoFile
	}
	defer file.Close()

	if header.Size > maxSize {
		return "", nil, core.ErrFileTooLarge
	}
	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		return "", nil, errors.Join(core.ErrIO, err)
	}
	if int64(len(data)) > maxSize {
		return "", nil, core.ErrFileTooLarge
	}
	return header.Filename, data, nil
}

// handleImport appends an uploaded file to the table. When the columns
// differ and no policy was chosen it answers 409 with the import preview so
// the client can ask the user.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	ctx, sess, err := s.session(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if err := s.imports.Acquire(ctx); err != nil {
		s.fail(w, r, err)
		return
	}
	defer s.imports.Release()

	name, data, err := s.readUpload(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	policy, err := core.ParsePolicy(r.FormValue("policy"))
	if err != nil {
		s.fail(w, r, errors.Join(errBadRequest, err))
		return
	}

	logger := logging.WithFields(ctx, "slot", sess.Slot(), "file", name, "bytes", len(data))

	preview, err := sess.Import(ctx, name, data, policy)
	if errors.Is(err, core.ErrReconciliationRequired) {
		logger.Info("import needs a reconciliation policy",
			"missing", preview.MissingFromIncoming,
			"incoming_only", preview.IncomingOnly,
		)
		body := errorBody(core.MapError(err))
		body.Preview = &preview
		writeJSON(w, http.StatusConflict, body)
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}

	view, err := sess.View(ctx)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	logger.Info("import applied", "policy", policy.String(), "rows", view.Table.Len())
	writeJSON(w, http.StatusOK, importResponse{Table: viewResponse(view), Preview: preview})
}

// handleImportPreview reports how an uploaded file compares with the table
// without changing anything.
func (s *Server) handleImportPreview(w http.ResponseWriter, r *http.Request) {
	ctx, sess, err := s.session(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if err := s.imports.Acquire(ctx); err != nil {
		s.fail(w, r, err)
		return
	}
	defer s.imports.Release()

	name, data, err := s.readUpload(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	preview, err := sess.PreviewImport(ctx, name, data)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}
