package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/poiesic/studyrag/core"
	"github.com/poiesic/studyrag/jobs"
	"github.com/poiesic/studyrag/retrieval"
	"github.com/poiesic/studyrag/storage"
)

const maxUploadBytes = 32 << 20

type queryRequest struct {
	Query      string  `json:"query"`
	DocumentID core.ID `json:"documentId"`
}

type queryResponse struct {
	Success       bool   `json:"success"`
	Answer        string `json:"answer"`
	DocumentTitle string `json:"documentTitle"`
}

type documentResponse struct {
	ID       core.ID `json:"id"`
	FileName string  `json:"fileName"`
	Summary  string  `json:"summary"`
	Status   string  `json:"status"`
}

type uploadResponse struct {
	Success    bool    `json:"success"`
	DocumentID core.ID `json:"documentId"`
}

type courseLayoutRequest struct {
	Title    string         `json:"title"`
	Chapters []core.Chapter `json:"chapters"`
}

type studyContentRequest struct {
	StudyType core.StudyType `json:"studyType"`
	Prompt    string         `json:"prompt"`
	CourseID  core.ID        `json:"courseId"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DocumentID == 0 {
		writeError(w, http.StatusBadRequest, "documentId is required")
		return
	}

	result, err := s.answerer.Answer(r.Context(), req.DocumentID, req.Query)
	if err != nil {
		switch {
		case errors.Is(err, retrieval.ErrEmptyQuery):
			writeError(w, http.StatusBadRequest, "query is required")
		case errors.Is(err, storage.ErrNotFound):
			writeError(w, http.StatusNotFound, "document not found")
		case errors.Is(err, retrieval.ErrStillProcessing):
			writeJSON(w, http.StatusAccepted, map[string]any{
				"success": false,
				"status":  "processing",
			})
		default:
			s.logger.Error("query failed", "document_id", req.DocumentID, "err", err)
			writeError(w, http.StatusInternalServerError, "query failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, queryResponse{
		Success:       true,
		Answer:        result.Answer,
		DocumentTitle: result.DocumentTitle,
	})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	doc, err := s.documents.GetDocument(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "document not found")
			return
		}
		s.logger.Error("document fetch failed", "document_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "document fetch failed")
		return
	}

	writeJSON(w, http.StatusOK, documentResponse{
		ID:       doc.Id,
		FileName: doc.FileName,
		Summary:  doc.Summary,
		Status:   doc.Status.String(),
	})
}

// handleUpload accepts a multipart file upload, stores the raw bytes in the
// blob store, and dispatches ingestion. The trigger carries only the blob
// reference, not the file bytes.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing X-User-Id header")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	doc, err := s.documents.AddDocument(r.Context(), &core.Document{
		UserId:   userID,
		FileName: header.Filename,
	})
	if err != nil {
		s.logger.Error("document create failed", "err", err)
		writeError(w, http.StatusInternalServerError, "upload failed")
		return
	}

	ref := fmt.Sprintf("uploads/%d-%s", doc.Id, header.Filename)
	if err := s.blobs.PutBlob(r.Context(), ref, data); err != nil {
		s.logger.Error("blob store failed", "document_id", doc.Id, "err", err)
		writeError(w, http.StatusInternalServerError, "upload failed")
		return
	}

	trigger := &jobs.IngestDocumentTrigger{
		FileName:   header.Filename,
		UserID:     userID,
		DocumentID: doc.Id,
		StorageRef: ref,
	}
	if err := s.runner.SubmitIngest(trigger); err != nil {
		s.logger.Error("ingest dispatch failed", "document_id", doc.Id, "err", err)
		writeError(w, http.StatusInternalServerError, "upload failed")
		return
	}

	s.logger.Info("upload accepted", "document_id", doc.Id, "file_name", header.Filename)
	writeJSON(w, http.StatusOK, uploadResponse{Success: true, DocumentID: doc.Id})
}

func (s *Server) handleGenerateNotes(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid course id")
		return
	}

	var req courseLayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Chapters) == 0 {
		writeError(w, http.StatusBadRequest, "chapters are required")
		return
	}

	course := &core.Course{
		Id:       id,
		Title:    req.Title,
		Chapters: req.Chapters,
		Status:   core.CourseStatusGenerating,
	}
	if err := s.courses.PutCourse(r.Context(), course); err != nil {
		s.logger.Error("course store failed", "course_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "notes dispatch failed")
		return
	}

	if err := s.runner.SubmitGenerateNotes(&jobs.GenerateChapterNotesTrigger{Course: course}); err != nil {
		s.logger.Error("notes dispatch failed", "course_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "notes dispatch failed")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"success":  true,
		"courseId": id,
	})
}

func (s *Server) handleStudyContent(w http.ResponseWriter, r *http.Request) {
	var req studyContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := core.ValidateStudyType(req.StudyType); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	// Record identity is derived from the request, so resubmitting the same
	// request resumes the same job instead of generating twice. An existing
	// record is left as-is; the resumed job replays its memoized steps.
	recordID := core.IDFromContent(fmt.Sprintf("study:%d:%s:%s", req.CourseID, req.StudyType, req.Prompt))
	if _, err := s.courses.GetStudyRecord(r.Context(), recordID); errors.Is(err, storage.ErrNotFound) {
		record := &core.StudyRecord{
			Id:       recordID,
			CourseId: req.CourseID,
			Type:     req.StudyType,
			Status:   core.CourseStatusGenerating,
		}
		if putErr := s.courses.PutStudyRecord(r.Context(), record); putErr != nil {
			s.logger.Error("study record store failed", "record_id", recordID, "err", putErr)
			writeError(w, http.StatusInternalServerError, "study content dispatch failed")
			return
		}
	} else if err != nil {
		s.logger.Error("study record lookup failed", "record_id", recordID, "err", err)
		writeError(w, http.StatusInternalServerError, "study content dispatch failed")
		return
	}

	trigger := &jobs.GenerateStudyContentTrigger{
		StudyType: req.StudyType,
		Prompt:    req.Prompt,
		CourseID:  req.CourseID,
		RecordID:  recordID,
	}
	if err := s.runner.SubmitGenerateStudyContent(trigger); err != nil {
		s.logger.Error("study content dispatch failed", "record_id", recordID, "err", err)
		writeError(w, http.StatusInternalServerError, "study content dispatch failed")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"success":  true,
		"recordId": recordID,
	})
}

func parseID(raw string) (core.ID, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return core.ID(id), nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
