package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ishe/internal/api"
	"ishe/internal/export"
	"ishe/internal/journal"
	"ishe/internal/logging"
	"ishe/internal/recordings"
)

// BundleFileName is the attachment name of GET /api/bundle.
const BundleFileName = recordings.BundleFileName

// nameParam returns the decoded {name} path segment. chi routes on
// r.URL.RawPath when the request path needed escaping and on the already
// decoded r.URL.Path otherwise, so only the former is unescaped here.
func nameParam(r *http.Request) (string, error) {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return name, nil
	}
	decoded, err := url.PathUnescape(name)
	if err != nil {
		return "", fmt.Errorf("%w: %v", recordings.ErrInvalidName, err)
	}
	return decoded, nil
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.Entries(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	status := api.Status{
		Running:       true,
		PID:           pid(),
		StartedAt:     api.FormatTime(s.startedAt),
		RecordingsDir: s.store.Root(),
		Recordings:    len(entries),
	}
	for _, e := range entries {
		status.TotalBytes += e.Size
	}
	if s.journal != nil {
		if counts, err := s.journal.Counts(r.Context()); err == nil {
			status.Activity = make(map[string]int, len(counts))
			for action, n := range counts {
				status.Activity[string(action)] = n
			}
		}
	}
	s.writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.Entries(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromEntries(entries))
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name, err := nameParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	data, err := s.store.Read(r.Context(), name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	name, err := nameParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := recordings.ValidateName(name); err != nil {
		s.fail(w, r, err)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.uploadLimit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit), "validation")
			return
		}
		s.fail(w, r, err)
		return
	}
	samples, err := export.DecodeCSV(data)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.Save(r.Context(), name, data); err != nil {
		s.fail(w, r, err)
		return
	}
	s.record(r.Context(), journal.ActionUpload, name, int64(len(data)))
	logging.WithContext(r.Context(), s.logger).Info("recording uploaded",
		logging.String(logging.FieldRecording, name),
		logging.Int("samples", len(samples)),
	)
	s.writeJSON(w, http.StatusCreated, api.Recording{Name: name, Size: int64(len(data))})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	name, err := nameParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.Delete(r.Context(), name); err != nil {
		s.fail(w, r, err)
		return
	}
	s.record(r.Context(), journal.ActionDelete, name, 0)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBundle(w http.ResponseWriter, r *http.Request) {
	data, names, err := s.store.Bundle(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.record(r.Context(), journal.ActionBundle, "", int64(len(data)))
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", BundleFileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("X-Ishe-Entries", strconv.Itoa(len(names)))
	_, _ = w.Write(data)
}

func (s *Server) handleJournal(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		s.writeJSON(w, http.StatusOK, api.JournalList{Entries: []api.JournalEntry{}})
		return
	}
	limit := journal.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.writeError(w, r, http.StatusBadRequest, "limit must be a positive integer", "validation")
			return
		}
		limit = parsed
	}
	entries, err := s.journal.Recent(r.Context(), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromJournal(entries))
}
