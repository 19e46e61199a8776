package server

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"laserquote/internal/common/errors"
	"laserquote/internal/models"
	"laserquote/internal/quote/analysis"
	"laserquote/internal/quote/delivery"
	"laserquote/internal/quote/wizard"
	"laserquote/internal/quote/workflow"
	"laserquote/internal/store"
)

// readDrawing pulls the uploaded file out of a multipart request. The field
// name "file" matches the analysis service's own contract.
func (s *Server) readDrawing(r *http.Request) (analysis.DrawingFile, error) {
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		return analysis.DrawingFile{}, fmt.Errorf("parse upload: %w", err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return analysis.DrawingFile{}, fmt.Errorf("missing file field: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.maxUploadBytes+1))
	if err != nil {
		return analysis.DrawingFile{}, fmt.Errorf("read upload: %w", err)
	}
	return analysis.DrawingFile{
		Name:        header.Filename,
		Size:        int64(len(data)),
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	file, err := s.readDrawing(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if valid, problems := analysis.ValidateFile(file); !valid {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{"errors": problems})
		return
	}

	result := s.workflow.AnalyzeOnly(r.Context(), file)
	writeJSON(w, http.StatusOK, result)
}

// completePayload is the JSON part of a complete-quote request; the drawing
// travels alongside it as the "file" part.
type completePayload struct {
	Contact  models.ContactInfo       `json:"contact"`
	Material models.MaterialSelection `json:"material"`
	Delivery models.DeliverySelection `json:"delivery"`
}

func (s *Server) handleCompleteQuote(w http.ResponseWriter, r *http.Request) {
	file, err := s.readDrawing(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if valid, problems := analysis.ValidateFile(file); !valid {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{"errors": problems})
		return
	}

	raw := r.FormValue("request")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "missing request field")
		return
	}
	if err := validate(s.schemas.completeQuote, []byte(raw)); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	var payload completePayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("decode request: %v", err))
		return
	}

	result := s.workflow.ProcessCompleteQuote(r.Context(), workflow.Input{
		File:     file,
		Contact:  payload.Contact,
		Material: payload.Material,
		Delivery: payload.Delivery,
	})

	if result.Step == workflow.StepCompleted {
		s.persistAndNotify(r.Context(), userID(r.Context()), "", file.Name, payload, result)
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDeliveryCost(w http.ResponseWriter, r *http.Request) {
	postalCode := r.URL.Query().Get("postal_code")
	if postalCode == "" {
		writeError(w, http.StatusBadRequest, "missing postal_code parameter")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"postal_code": postalCode,
		"cost":        delivery.Cost(postalCode),
	})
}

func (s *Server) handleWorkshops(w http.ResponseWriter, r *http.Request) {
	if city := r.URL.Query().Get("city"); city != "" {
		writeJSON(w, http.StatusOK, delivery.WorkshopsByCity(city))
		return
	}
	writeJSON(w, http.StatusOK, delivery.Workshops())
}

// sessionView is what wizard endpoints return: the session without the raw
// drawing bytes.
type sessionView struct {
	ID       string           `json:"id"`
	Step     wizard.Step      `json:"step"`
	FileName string           `json:"file_name,omitempty"`
	Analysis *analysis.Result `json:"analysis,omitempty"`
	Result   *workflow.Result `json:"result,omitempty"`
}

func viewOf(session *wizard.Session) sessionView {
	return sessionView{
		ID:       session.ID,
		Step:     session.Step,
		FileName: session.FileName,
		Analysis: session.Analysis,
		Result:   session.Result,
	}
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session := s.machine.NewSession(userID(r.Context()))
	if err := s.sessions.Save(r.Context(), session); err != nil {
		s.logger.Error("session save failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "could not create session")
		return
	}
	writeJSON(w, http.StatusCreated, viewOf(session))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, viewOf(session))
}

// advancePayload drives the JSON steps of the wizard; the upload step is a
// multipart request instead.
type advancePayload struct {
	Action   string                    `json:"action"`
	Material models.MaterialSelection  `json:"material"`
	Contact  models.ContactInfo        `json:"contact"`
	Delivery *models.DeliverySelection `json:"delivery"`
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	session, ok := s.loadSession(w, r)
	if !ok {
		return
	}

	var err error
	if isMultipart(r) {
		err = s.advanceUpload(r, session)
	} else {
		err = s.advanceJSON(r, session)
	}
	if err != nil {
		s.writeAdvanceError(w, err)
		return
	}

	if saveErr := s.sessions.Save(r.Context(), session); saveErr != nil {
		s.logger.Error("session save failed", map[string]interface{}{
			"session": session.ID,
			"error":   saveErr.Error(),
		})
		writeError(w, http.StatusInternalServerError, "could not save session")
		return
	}

	if session.Terminal() && session.Result != nil && session.Result.Step == workflow.StepCompleted {
		s.persistAndNotify(r.Context(), session.UserID, session.ID, session.FileName, completePayload{
			Contact:  session.Contact,
			Material: session.Material,
			Delivery: session.Delivery,
		}, *session.Result)
	}
	writeJSON(w, http.StatusOK, viewOf(session))
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

func (s *Server) advanceUpload(r *http.Request, session *wizard.Session) error {
	file, err := s.readDrawing(r)
	if err != nil {
		return errors.NewInvalidDrawingFileError(err.Error())
	}
	return s.machine.SubmitFile(r.Context(), session, file)
}

func (s *Server) advanceJSON(r *http.Request, session *wizard.Session) error {
	raw, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return errors.NewWizardGuardFailedError(string(session.Step), "unreadable request body")
	}
	if err := validate(s.schemas.advance, raw); err != nil {
		return errors.NewWizardGuardFailedError(string(session.Step), err.Error())
	}

	var payload advancePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return errors.NewWizardGuardFailedError(string(session.Step), fmt.Sprintf("decode request: %v", err))
	}

	switch payload.Action {
	case "material":
		return s.machine.SelectMaterial(session, payload.Material)
	case "contact":
		return s.machine.SubmitContact(session, payload.Contact)
	case "delivery":
		if payload.Delivery == nil {
			return errors.NewWizardGuardFailedError(string(session.Step), "delivery selection is required")
		}
		return s.machine.SelectDelivery(r.Context(), session, *payload.Delivery)
	default:
		return errors.NewWizardGuardFailedError(string(session.Step), "unknown action")
	}
}

func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) (*wizard.Session, bool) {
	session, err := s.sessions.Load(r.Context(), r.PathValue("id"))
	if err != nil {
		var stdErr *errors.StandardError
		if goerrors.As(err, &stdErr) && stdErr.Code == errors.ErrCodeSessionNotFound {
			writeError(w, http.StatusNotFound, stdErr.Message)
			return nil, false
		}
		s.logger.Error("session load failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "could not load session")
		return nil, false
	}

	if session.UserID != userID(r.Context()) {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return session, true
}

func (s *Server) writeAdvanceError(w http.ResponseWriter, err error) {
	var stdErr *errors.StandardError
	if goerrors.As(err, &stdErr) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"code":    string(stdErr.Code),
			"error":   stdErr.Message,
			"details": stdErr.Details,
		})
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

// persistAndNotify saves the completed quote and emails it. Both are
// best-effort: the customer already has their result.
func (s *Server) persistAndNotify(ctx context.Context, userID, sessionID, fileName string, payload completePayload, result workflow.Result) {
	if result.Quote == nil || result.Quote.Data == nil {
		return
	}
	data := result.Quote.Data

	if s.store != nil {
		record := &store.QuoteRecord{
			UserID:        userID,
			SessionID:     sessionID,
			CustomerName:  payload.Contact.FullName,
			CustomerEmail: payload.Contact.Email,
			CustomerPhone: payload.Contact.Phone,
			Material:      payload.Material.Material,
			Thickness:     payload.Material.Thickness,
			Color:         payload.Material.Color,
			FileName:      fileName,
			QuoteID:       data.QuoteID,
			TotalPrice:    data.TotalPrice,
			Breakdown:     data.Breakdown,
			ValidUntil:    data.ValidUntil,
			Simulated:     !result.Quote.Success,
		}
		if result.Analysis != nil {
			record.AreaMM2 = result.Analysis.BoundingBox.Area
		}
		if _, err := s.store.SaveQuote(ctx, record); err != nil {
			s.logger.Error("quote not persisted", map[string]interface{}{
				"quote_id": data.QuoteID,
				"error":    err.Error(),
			})
		}
	}

	if s.mailer != nil && result.Quote.Success {
		if err := s.mailer.SendQuote(ctx, payload.Contact, data); err != nil {
			s.logger.Warn("quote email failed", map[string]interface{}{
				"quote_id": data.QuoteID,
				"error":    err.Error(),
			})
		}
	}
}
