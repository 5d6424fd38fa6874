package api

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"studivio/internal/ingest"
	"studivio/internal/logging"
)

const (
	uploadField = "file"
	// multipartSlack covers boundaries, part headers, and small form fields.
	multipartSlack = 1 << 20
)

func (s *Server) handleSummarisePDF(w http.ResponseWriter, r *http.Request) {
	up, err := readUpload(w, r, uploadField, s.opts.Limits.MaxPDFBytes)
	if err != nil {
		s.requestLogger(r).Info("malformed pdf upload", logging.Error(err))
		respondError(w, r, http.StatusBadRequest, ingest.MsgDocumentRequired)
		return
	}
	up.UserID = currentUser(r)
	res, err := s.ingestor.IngestPDF(r.Context(), up)
	s.writeIngestResult(w, r, res, err, "Document successfully processed and saved as note")
}

func (s *Server) handleTranscribeAudio(w http.ResponseWriter, r *http.Request) {
	up, err := readUpload(w, r, uploadField, s.opts.Limits.MaxAudioBytes)
	if err != nil {
		s.requestLogger(r).Info("malformed audio upload", logging.Error(err))
		respondError(w, r, http.StatusBadRequest, ingest.MsgAudioRequired)
		return
	}
	up.UserID = currentUser(r)
	res, err := s.ingestor.IngestAudio(r.Context(), up)
	s.writeIngestResult(w, r, res, err, "Audio successfully processed and saved as note")
}

func (s *Server) handleSummariseYouTube(w http.ResponseWriter, r *http.Request) {
	var req YouTubeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ingest.MsgVideoURLRequired)
		return
	}
	ref := strings.TrimSpace(req.URL)
	if ref == "" {
		ref = strings.TrimSpace(req.VideoID)
	}
	res, err := s.ingestor.IngestYouTube(r.Context(), ref, currentUser(r))
	s.writeIngestResult(w, r, res, err, "Video successfully processed and saved as note")
}

func (s *Server) writeIngestResult(w http.ResponseWriter, r *http.Request, res ingest.Result, err error, message string) {
	if err != nil {
		if failure, ok := ingest.AsFailure(err); ok {
			respondError(w, r, failure.Status, failure.Message)
			return
		}
		s.requestLogger(r).Error("ingestion failed", logging.Error(err))
		respondError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}
	respond(w, r, http.StatusCreated, IngestResponse{
		Success:    true,
		Message:    message,
		NoteID:     res.NoteID,
		Content:    res.Content,
		SourceFile: res.SourceFile,
	})
}

// readUpload streams the multipart body looking for a file part named field.
// At most limit+1 bytes of the file are kept; a larger file is reported with
// Size above limit and no Data so validation can reject it without buffering
// it. A request with no such file part yields an Upload with Present
// unset. Parts without a filename parameter are plain form fields, not files.
func readUpload(w http.ResponseWriter, r *http.Request, field string, limit int64) (ingest.Upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartSlack)
	reader, err := r.MultipartReader()
	if err != nil {
		return ingest.Upload{}, nil
	}
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return ingest.Upload{}, nil
		}
		if err != nil {
			return ingest.Upload{}, err
		}
		if part.FormName() != field || !isFilePart(part.Header.Get("Content-Disposition")) {
			_ = part.Close()
			continue
		}
		up := ingest.Upload{Present: true, Filename: part.FileName()}
		data, err := io.ReadAll(io.LimitReader(part, limit+1))
		if err != nil {
			_ = part.Close()
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				up.Size = limit + 1
				return up, nil
			}
			return ingest.Upload{}, err
		}
		up.Size = int64(len(data))
		if up.Size <= limit {
			up.Data = data
		} else {
			// Drain the rest so the client sees the rejection instead of a reset.
			rest, _ := io.Copy(io.Discard, part)
			up.Size += rest
		}
		_ = part.Close()
		return up, nil
	}
}

func isFilePart(disposition string) bool {
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return false
	}
	_, ok := params["filename"]
	return ok
}
