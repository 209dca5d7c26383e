package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"grocerydash/internal/ingest"
)

// handleUpload ingests an uploaded receipt export and swaps in a new
// snapshot. Any failure leaves the previous snapshot untouched.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			slog.WarnContext(r.Context(), "Upload too large", "limit_bytes", s.maxUploadBytes)
			ErrorResponse(http.StatusRequestEntityTooLarge, "File too large").
				TriggerErrorNotification("Upload exceeds the size limit").
				Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Parse multipart form error", "error", err)
		BadRequestError("Invalid upload").Write(w)
		return
	}

	file, header, err := r.FormFile("receipts")
	if err != nil {
		slog.WarnContext(r.Context(), "Upload missing file field", "error", err)
		BadRequestError("No file provided").Write(w)
		return
	}
	defer file.Close()

	s.dashboard.BeginLoad()
	records, stats, err := ingest.ParseReader(file, header.Filename, s.schema)
	if err != nil {
		s.dashboard.AbortLoad()
		slog.ErrorContext(r.Context(), "Upload parse failed", "error", err, "filename", header.Filename)
		UnprocessableEntityError("Could not read the file as a receipt export").
			TriggerErrorNotification("Upload failed: unreadable file").
			Write(w)
		return
	}

	snap := s.dashboard.Ingest(header.Filename, records)
	s.finder.SetRecords(snap.ID, snap.Records)

	slog.InfoContext(r.Context(), "Dataset ingested",
		"filename", header.Filename,
		"snapshot", snap.ID,
		"accepted", stats.Accepted,
		"dropped", stats.Dropped)

	NewHTMXResponse().
		TriggerReceiptsIngested(snap.ID, len(snap.Records)).
		TriggerSuccessNotification("Receipts loaded").
		BodyHTML(`<div class="success">Loaded ` + formatCount(stats.Accepted, "row") + `</div>`).
		Write(w)
}

func formatCount(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
