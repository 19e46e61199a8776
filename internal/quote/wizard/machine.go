package wizard

import (
	"context"
	"time"

	"github.com/google/uuid"

	"laserquote/internal/common/errors"
	"laserquote/internal/common/logger"
	"laserquote/internal/models"
	"laserquote/internal/quote/analysis"
	"laserquote/internal/quote/workflow"
)

// Runner is the slice of the quote workflow the wizard drives.
type Runner interface {
	AnalyzeOnly(ctx context.Context, file analysis.DrawingFile) workflow.Result
	ProcessCompleteQuote(ctx context.Context, input workflow.Input) workflow.Result
}

// Machine advances wizard sessions through the quote steps. It mutates only
// the session passed in; callers must not advance the same session
// concurrently.
type Machine struct {
	runner Runner
	logger logger.Logger
	now    func() time.Time
}

func NewMachine(runner Runner, log logger.Logger) *Machine {
	return &Machine{
		runner: runner,
		logger: log.With(map[string]interface{}{"component": "wizard"}),
		now:    time.Now,
	}
}

// NewSession starts a fresh wizard at the upload step.
func (m *Machine) NewSession(userID string) *Session {
	now := m.now()
	return &Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		Step:      StepUpload,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SubmitFile handles upload → material. The drawing is validated and
// analyzed; a degraded analysis keeps the session on upload, since a quote
// built on simulated geometry would be worthless.
func (m *Machine) SubmitFile(ctx context.Context, session *Session, file analysis.DrawingFile) error {
	if err := m.requireStep(session, StepUpload); err != nil {
		return err
	}

	if valid, problems := analysis.ValidateFile(file); !valid {
		return errors.NewInvalidDrawingFileError(problems[0])
	}

	result := m.runner.AnalyzeOnly(ctx, file)
	if !result.Success {
		m.logger.Warn("upload rejected, analysis degraded", map[string]interface{}{
			"session": session.ID,
			"file":    file.Name,
		})
		return errors.NewAnalysisRejectedError(result.Message)
	}

	session.FileName = file.Name
	session.FileData = file.Data
	session.Analysis = result.Analysis
	m.advance(session, StepMaterial)
	return nil
}

// SelectMaterial handles material → contact. Material and thickness are
// required; color may stay empty.
func (m *Machine) SelectMaterial(session *Session, material models.MaterialSelection) error {
	if err := m.requireStep(session, StepMaterial); err != nil {
		return err
	}
	if !material.Complete() {
		return errors.NewWizardGuardFailedError(string(StepMaterial), "material and thickness are required")
	}

	session.Material = material
	m.advance(session, StepContact)
	return nil
}

// SubmitContact handles contact → delivery. All three fields must be filled;
// an empty phone keeps the session on contact.
func (m *Machine) SubmitContact(session *Session, contact models.ContactInfo) error {
	if err := m.requireStep(session, StepContact); err != nil {
		return err
	}
	if !contact.Complete() {
		return errors.NewWizardGuardFailedError(string(StepContact), "name, email and phone are required")
	}

	session.Contact = contact
	m.advance(session, StepDelivery)
	return nil
}

// SelectDelivery handles delivery → result: it runs the complete quote with
// the accumulated state and lands on result regardless of whether the price
// came from the backend or the simulation.
func (m *Machine) SelectDelivery(ctx context.Context, session *Session, delivery models.DeliverySelection) error {
	if err := m.requireStep(session, StepDelivery); err != nil {
		return err
	}
	if !delivery.Complete() {
		return errors.NewWizardGuardFailedError(string(StepDelivery), "a workshop or a full shipping address is required")
	}

	session.Delivery = delivery
	result := m.runner.ProcessCompleteQuote(ctx, workflow.Input{
		File:     analysis.DrawingFile{Name: session.FileName, Size: int64(len(session.FileData)), Data: session.FileData},
		Contact:  session.Contact,
		Material: session.Material,
		Delivery: delivery,
	})

	session.Result = &result
	m.advance(session, StepResult)

	m.logger.Info("wizard completed", map[string]interface{}{
		"session": session.ID,
		"success": result.Success,
		"step":    string(result.Step),
	})
	return nil
}

func (m *Machine) requireStep(session *Session, want Step) error {
	if session.Step != want {
		return errors.NewWizardGuardFailedError(string(session.Step), "operation not valid at this step")
	}
	return nil
}

func (m *Machine) advance(session *Session, to Step) {
	session.Step = to
	session.UpdatedAt = m.now()
}
