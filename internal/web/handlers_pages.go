package web

import (
	"errors"
	"net/http"

	"github.com/JonMunkholm/csvview/internal/core"
)

// handleIndex renders the open document and the recent files.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	v := indexView{MaxFileSize: s.service.MaxFileSize()}
	if doc, ok := s.service.Current(); ok {
		v.Doc = doc
	}

	recent, err := s.service.RecentFiles(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	v.Recent = recent

	renderHTML(w, r, http.StatusOK, indexPage(v))
}

// handleOpenForm is the page's upload form. It redirects back to the page
// on success.
func (s *Server) handleOpenForm(w http.ResponseWriter, r *http.Request) {
	if _, err := s.openUpload(w, r); err != nil {
		respondError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleCloseForm(w http.ResponseWriter, r *http.Request) {
	err := s.service.Close(WithRequestMetadata(r.Context(), r))
	if err != nil && !errors.Is(err, core.ErrNoDocument) {
		respondError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
