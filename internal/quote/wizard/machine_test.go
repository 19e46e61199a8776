package wizard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laserquote/internal/common/errors"
	"laserquote/internal/common/logger"
	"laserquote/internal/models"
	"laserquote/internal/quote/analysis"
	"laserquote/internal/quote/workflow"
)

type stubRunner struct {
	analyzeResult  workflow.Result
	completeResult workflow.Result
	analyzeCalls   int
	completeCalls  int
	lastInput      workflow.Input
}

func (s *stubRunner) AnalyzeOnly(_ context.Context, _ analysis.DrawingFile) workflow.Result {
	s.analyzeCalls++
	return s.analyzeResult
}

func (s *stubRunner) ProcessCompleteQuote(_ context.Context, input workflow.Input) workflow.Result {
	s.completeCalls++
	s.lastInput = input
	return s.completeResult
}

func okAnalysisResult() workflow.Result {
	r := analysis.Result{
		BoundingBox: analysis.BoundingBox{MaxX: 100, MaxY: 50, Area: 5000},
		Success:     true,
	}
	return workflow.Result{Success: true, Step: workflow.StepAnalysis, Analysis: &r}
}

func degradedAnalysisResult() workflow.Result {
	r := analysis.Result{Success: false, Message: "backend unreachable"}
	return workflow.Result{Success: false, Step: workflow.StepAnalysis, Analysis: &r, Message: "backend unreachable"}
}

func completedResult(success bool) workflow.Result {
	return workflow.Result{Success: success, Step: workflow.StepCompleted}
}

func dxf(name string) analysis.DrawingFile {
	data := []byte("0\nSECTION\n0\nEOF\n")
	return analysis.DrawingFile{Name: name, Size: int64(len(data)), Data: data}
}

func newSessionAt(t *testing.T, m *Machine, step Step) *Session {
	t.Helper()
	session := m.NewSession("user-1")

	steps := []func() error{
		func() error { return m.SubmitFile(context.Background(), session, dxf("panel.dxf")) },
		func() error {
			return m.SelectMaterial(session, models.MaterialSelection{Material: "Aluminio", Thickness: "3mm"})
		},
		func() error {
			return m.SubmitContact(session, models.ContactInfo{FullName: "Ana García", Email: "ana@example.com", Phone: "+34 600 111 222"})
		},
	}
	targets := []Step{StepMaterial, StepContact, StepDelivery}

	for i, advance := range steps {
		if session.Step == step {
			return session
		}
		require.NoError(t, advance())
		require.Equal(t, targets[i], session.Step)
	}
	require.Equal(t, step, session.Step)
	return session
}

func TestNewSession(t *testing.T) {
	m := NewMachine(&stubRunner{}, logger.NewNoOpLogger())
	session := m.NewSession("user-1")

	assert.NotEmpty(t, session.ID)
	assert.Equal(t, "user-1", session.UserID)
	assert.Equal(t, StepUpload, session.Step)
	assert.False(t, session.Terminal())
}

func TestSubmitFile_AdvancesToMaterial(t *testing.T) {
	runner := &stubRunner{analyzeResult: okAnalysisResult()}
	m := NewMachine(runner, logger.NewNoOpLogger())
	session := m.NewSession("user-1")

	err := m.SubmitFile(context.Background(), session, dxf("panel.dxf"))

	require.NoError(t, err)
	assert.Equal(t, StepMaterial, session.Step)
	assert.Equal(t, "panel.dxf", session.FileName)
	require.NotNil(t, session.Analysis)
	assert.Equal(t, 5000.0, session.Analysis.BoundingBox.Area)
}

func TestSubmitFile_DegradedAnalysisStaysOnUpload(t *testing.T) {
	runner := &stubRunner{analyzeResult: degradedAnalysisResult()}
	m := NewMachine(runner, logger.NewNoOpLogger())
	session := m.NewSession("user-1")

	err := m.SubmitFile(context.Background(), session, dxf("panel.dxf"))

	require.Error(t, err)
	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeAnalysisRejected, stdErr.Code)
	assert.Equal(t, StepUpload, session.Step)
	assert.Nil(t, session.Analysis)
}

func TestSubmitFile_RejectsInvalidFile(t *testing.T) {
	runner := &stubRunner{analyzeResult: okAnalysisResult()}
	m := NewMachine(runner, logger.NewNoOpLogger())
	session := m.NewSession("user-1")

	err := m.SubmitFile(context.Background(), session, analysis.DrawingFile{Name: "photo.png", Size: 4, Data: []byte("data")})

	require.Error(t, err)
	assert.Equal(t, StepUpload, session.Step)
	assert.Equal(t, 0, runner.analyzeCalls, "invalid files must not reach the analyzer")
}

func TestSelectMaterial_GuardRequiresThickness(t *testing.T) {
	runner := &stubRunner{analyzeResult: okAnalysisResult()}
	m := NewMachine(runner, logger.NewNoOpLogger())
	session := newSessionAt(t, m, StepMaterial)

	err := m.SelectMaterial(session, models.MaterialSelection{Material: "Aluminio"})

	require.Error(t, err)
	assert.Equal(t, StepMaterial, session.Step)
}

func TestSubmitContact_EmptyPhoneStaysOnContact(t *testing.T) {
	runner := &stubRunner{analyzeResult: okAnalysisResult(), completeResult: completedResult(true)}
	m := NewMachine(runner, logger.NewNoOpLogger())
	session := newSessionAt(t, m, StepContact)

	err := m.SubmitContact(session, models.ContactInfo{FullName: "Ana García", Email: "ana@example.com"})

	require.Error(t, err)
	var stdErr *errors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeWizardGuardFailed, stdErr.Code)
	assert.Equal(t, StepContact, session.Step)
	assert.Equal(t, 0, runner.completeCalls, "guard failure must not trigger the workflow")
}

func TestSelectDelivery_CompletesWizard(t *testing.T) {
	runner := &stubRunner{analyzeResult: okAnalysisResult(), completeResult: completedResult(true)}
	m := NewMachine(runner, logger.NewNoOpLogger())
	session := newSessionAt(t, m, StepDelivery)

	err := m.SelectDelivery(context.Background(), session, models.Pickup("bcn"))

	require.NoError(t, err)
	assert.Equal(t, StepResult, session.Step)
	assert.True(t, session.Terminal())
	require.NotNil(t, session.Result)
	assert.True(t, session.Result.Success)

	assert.Equal(t, 1, runner.completeCalls)
	assert.Equal(t, "panel.dxf", runner.lastInput.File.Name)
	assert.Equal(t, "ana@example.com", runner.lastInput.Contact.Email)
	id, ok := runner.lastInput.Delivery.WorkshopID()
	require.True(t, ok)
	assert.Equal(t, "bcn", id)
}

func TestSelectDelivery_SimulatedPriceStillCompletes(t *testing.T) {
	runner := &stubRunner{analyzeResult: okAnalysisResult(), completeResult: completedResult(false)}
	m := NewMachine(runner, logger.NewNoOpLogger())
	session := newSessionAt(t, m, StepDelivery)

	err := m.SelectDelivery(context.Background(), session, models.Pickup("mad"))

	require.NoError(t, err)
	assert.Equal(t, StepResult, session.Step)
	require.NotNil(t, session.Result)
	assert.False(t, session.Result.Success)
}

func TestSelectDelivery_IncompleteAddressFailsGuard(t *testing.T) {
	runner := &stubRunner{analyzeResult: okAnalysisResult(), completeResult: completedResult(true)}
	m := NewMachine(runner, logger.NewNoOpLogger())
	session := newSessionAt(t, m, StepDelivery)

	err := m.SelectDelivery(context.Background(), session, models.Shipping(models.ShippingAddress{Street: "Calle Mayor 1"}))

	require.Error(t, err)
	assert.Equal(t, StepDelivery, session.Step)
	assert.Equal(t, 0, runner.completeCalls)
}

func TestSteps_RejectOutOfOrderOperations(t *testing.T) {
	runner := &stubRunner{analyzeResult: okAnalysisResult()}
	m := NewMachine(runner, logger.NewNoOpLogger())
	session := m.NewSession("user-1")

	err := m.SubmitContact(session, models.ContactInfo{FullName: "Ana", Email: "a@b.c", Phone: "1"})
	require.Error(t, err)
	assert.Equal(t, StepUpload, session.Step)

	err = m.SelectDelivery(context.Background(), session, models.Pickup("bcn"))
	require.Error(t, err)
	assert.Equal(t, StepUpload, session.Step)
	assert.Equal(t, 0, runner.completeCalls)
}
