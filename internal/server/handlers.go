package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/jonathan/deploy-agent/internal/jobstore"
	"github.com/jonathan/deploy-agent/internal/types"
)

// validate checks submission field presence; instantiated once since
// validator caches struct metadata.
var validate = validator.New()

// SubmitRequest is the wire format of a task submission. Round is a pointer
// so a present round 0 is distinguishable from an absent field.
type SubmitRequest struct {
	Email      string `json:"email" validate:"required"`
	Task       string `json:"task" validate:"required"`
	Round      *int   `json:"round" validate:"required"`
	Nonce      string `json:"nonce" validate:"required"`
	Secret     string `json:"secret"`
	Brief      string `json:"brief" validate:"required"`
	Evaluation struct {
		URL string `json:"url"`
	} `json:"evaluation"`
}

// SubmitResponse acknowledges an accepted submission. The job runs detached;
// its outcome arrives via the callback, not this response.
type SubmitResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Task      string `json:"task"`
	JobID     string `json:"job_id"`
	Timestamp string `json:"timestamp"`
}

// handleSubmit validates, authenticates, and detaches one deployment job.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			s.errorResponse(w, http.StatusBadRequest, "No JSON data provided")
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	log.Printf("Received request for task: %s", req.Task)

	if missing := missingFields(&req); len(missing) > 0 {
		log.Printf("Missing required fields: %v", missing)
		s.jsonResponse(w, http.StatusBadRequest, map[string]any{
			"error":   "Missing required fields",
			"missing": missing,
		})
		return
	}

	if !slug.IsSlug(req.Task) {
		s.errorResponse(w, http.StatusBadRequest, "task must be a valid repository name")
		return
	}

	if status, err := s.auth.Authenticate(r, req.Secret); err != nil {
		log.Printf("Authentication failed for task %s: %v", req.Task, err)
		s.errorResponse(w, status, err.Error())
		return
	}

	job := &types.JobRequest{
		Email:       req.Email,
		TaskID:      req.Task,
		Round:       *req.Round,
		Nonce:       req.Nonce,
		Brief:       req.Brief,
		CallbackURL: req.Evaluation.URL,
	}

	jobID := uuid.New().String()
	s.store.Create(jobID, job.TaskID)

	// Detach before the pipeline starts; the acceptance response never
	// blocks on it. The background context outlives this request.
	go func() {
		if err := s.runner.Run(context.Background(), job); err != nil {
			log.Printf("[%s] Job failed: %v", job.TaskID, err)
		}
	}()

	s.jsonResponse(w, http.StatusOK, SubmitResponse{
		Status:    "accepted",
		Message:   "Request received and processing started",
		Task:      job.TaskID,
		JobID:     jobID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// handleJobStatus returns the registry record for a task.
func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	task := r.PathValue("task")

	status, err := s.store.Get(task)
	if err != nil {
		if errors.Is(err, jobstore.ErrNotFound) {
			s.errorResponse(w, http.StatusNotFound, "Job not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Failed to look up job")
		return
	}

	s.jsonResponse(w, http.StatusOK, status)
}

// missingFields returns the JSON names of required fields absent from the
// submission, so the caller can fix them all in one pass.
func missingFields(req *SubmitRequest) []string {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []string{"(unknown)"}
	}

	jsonNames := map[string]string{
		"Email": "email",
		"Task":  "task",
		"Round": "round",
		"Nonce": "nonce",
		"Brief": "brief",
	}

	var missing []string
	for _, fieldErr := range validationErrs {
		if name, ok := jsonNames[fieldErr.Field()]; ok {
			missing = append(missing, name)
		}
	}
	return missing
}
