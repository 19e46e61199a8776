package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laserquote/internal/common/logger"
	"laserquote/internal/models"
	"laserquote/internal/quote/analysis"
	"laserquote/internal/quote/pricing"
)

type stubAnalyzer struct {
	result analysis.Result
	calls  int
}

func (s *stubAnalyzer) Analyze(_ context.Context, _ analysis.DrawingFile) analysis.Result {
	s.calls++
	return s.result
}

type stubCalculator struct {
	result   pricing.QuoteResult
	calls    int
	lastReq  pricing.QuoteRequest
}

func (s *stubCalculator) Calculate(_ context.Context, req pricing.QuoteRequest) pricing.QuoteResult {
	s.calls++
	s.lastReq = req
	return s.result
}

func goodAnalysis() analysis.Result {
	return analysis.Result{
		Layers:      []analysis.Layer{{Name: "cut", Color: "white", EntitiesCount: 12}},
		Dimensions:  analysis.Dimensions{Width: 100, Height: 50, Units: "mm"},
		BoundingBox: analysis.BoundingBox{MaxX: 100, MaxY: 50, Area: 5000},
		Complexity:  analysis.ComplexityModerate,
		Success:     true,
	}
}

func failedAnalysis() analysis.Result {
	r := analysis.Result{Success: false, Message: "backend unreachable"}
	r.Warnings = []string{"Backend de análisis no disponible - usando datos simulados"}
	return r
}

func pricedQuote(total float64) pricing.QuoteResult {
	return pricing.QuoteResult{
		Success: true,
		Data: &pricing.QuoteData{
			TotalPrice:    total,
			Breakdown:     pricing.Breakdown{MaterialCost: 60, CuttingCost: 40, SetupCost: 15},
			EstimatedTime: "3-5 días laborables",
			QuoteID:       "Q-1",
		},
	}
}

func testInput() Input {
	return Input{
		File:     analysis.DrawingFile{Name: "panel.dxf", Data: []byte("dxf")},
		Contact:  models.ContactInfo{FullName: "Ana García", Email: "ana@example.com", Phone: "+34 600 111 222"},
		Material: models.MaterialSelection{Material: "Metacrilato", Thickness: "3mm", Color: "rojo"},
		Delivery: models.Pickup("bcn"),
	}
}

func newWorkflow(a Analyzer, c Calculator) *Workflow {
	return New(a, c, logger.NewNoOpLogger(), nil)
}

func TestAnalyzeOnly_Success(t *testing.T) {
	analyzer := &stubAnalyzer{result: goodAnalysis()}
	wf := newWorkflow(analyzer, &stubCalculator{})

	result := wf.AnalyzeOnly(context.Background(), analysis.DrawingFile{Name: "panel.dxf"})

	assert.True(t, result.Success)
	assert.Equal(t, StepAnalysis, result.Step)
	require.NotNil(t, result.Analysis)
	assert.Equal(t, "DXF file analyzed successfully", result.Message)
}

func TestAnalyzeOnly_Degraded(t *testing.T) {
	analyzer := &stubAnalyzer{result: failedAnalysis()}
	wf := newWorkflow(analyzer, &stubCalculator{})

	result := wf.AnalyzeOnly(context.Background(), analysis.DrawingFile{Name: "panel.dxf"})

	assert.False(t, result.Success)
	assert.Equal(t, StepAnalysis, result.Step)
	require.NotNil(t, result.Analysis)
	assert.Equal(t, "backend unreachable", result.Message)
}

func TestProcessCompleteQuote_ShortCircuitsOnFailedAnalysis(t *testing.T) {
	analyzer := &stubAnalyzer{result: failedAnalysis()}
	calculator := &stubCalculator{result: pricedQuote(115)}
	wf := newWorkflow(analyzer, calculator)

	result := wf.ProcessCompleteQuote(context.Background(), testInput())

	assert.False(t, result.Success)
	assert.Equal(t, StepAnalysis, result.Step)
	assert.Equal(t, "Error analyzing DXF file", result.Error)
	assert.Nil(t, result.Quote)
	assert.Equal(t, 0, calculator.calls, "pricing must not run on failed analysis")
}

func TestProcessCompleteQuote_Success(t *testing.T) {
	analyzer := &stubAnalyzer{result: goodAnalysis()}
	calculator := &stubCalculator{result: pricedQuote(115)}
	wf := newWorkflow(analyzer, calculator)

	result := wf.ProcessCompleteQuote(context.Background(), testInput())

	assert.True(t, result.Success)
	assert.Equal(t, StepCompleted, result.Step)
	assert.Equal(t, "Quote generated successfully", result.Message)
	require.NotNil(t, result.Quote)
	require.NotNil(t, result.Quote.Data)
	assert.NotEmpty(t, result.Quote.Data.PersonalizedMessage)

	assert.Equal(t, 1, calculator.calls)
	assert.Equal(t, "ana@example.com", calculator.lastReq.Cliente.Mail)
	require.NotNil(t, calculator.lastReq.Entrega)
	assert.Equal(t, "bcn", calculator.lastReq.Entrega.Taller)
}

func TestProcessCompleteQuote_SimulatedPriceCompletes(t *testing.T) {
	analyzer := &stubAnalyzer{result: goodAnalysis()}
	calculator := &stubCalculator{result: pricing.QuoteResult{
		Success: false,
		Data:    &pricing.QuoteData{TotalPrice: 115, QuoteID: "SIM-1"},
		Error:   "quote calculator returned 502",
		Message: "Backend no disponible - usando cálculo simulado",
	}}
	wf := newWorkflow(analyzer, calculator)

	result := wf.ProcessCompleteQuote(context.Background(), testInput())

	assert.False(t, result.Success)
	assert.Equal(t, StepCompleted, result.Step)
	assert.Equal(t, "Backend no disponible - usando cálculo simulado", result.Message)
	require.NotNil(t, result.Quote)
	assert.Empty(t, result.Quote.Data.PersonalizedMessage)
}

func TestPersonalize_MaterialTipWinsPriority(t *testing.T) {
	quote := pricing.QuoteResult{
		Success: true,
		Data: &pricing.QuoteData{
			TotalPrice:    115,
			Breakdown:     pricing.Breakdown{MaterialCost: 60, CuttingCost: 10, SetupCost: 15},
			EstimatedTime: "3-5 días laborables",
		},
	}

	result := Personalize(quote, models.ContactInfo{FullName: "Ana García López"})

	require.NotNil(t, result.Data)
	msg := result.Data.PersonalizedMessage
	assert.Contains(t, msg, "Hola Ana,")
	assert.Contains(t, msg, "€115.00")
	assert.Contains(t, msg, "materiales alternativos")
	assert.NotContains(t, msg, "tiempo de corte")
}

func TestPersonalize_CuttingTip(t *testing.T) {
	quote := pricing.QuoteResult{
		Success: true,
		Data: &pricing.QuoteData{
			Breakdown: pricing.Breakdown{MaterialCost: 10, CuttingCost: 40},
		},
	}

	result := Personalize(quote, models.ContactInfo{FullName: "Luis"})
	assert.Contains(t, result.Data.PersonalizedMessage, "tiempo de corte")
}

func TestPersonalize_NoTipBelowThresholds(t *testing.T) {
	quote := pricing.QuoteResult{
		Success: true,
		Data: &pricing.QuoteData{
			Breakdown: pricing.Breakdown{MaterialCost: 10, CuttingCost: 10},
		},
	}

	result := Personalize(quote, models.ContactInfo{FullName: "Luis"})
	assert.NotContains(t, result.Data.PersonalizedMessage, "Consejo")
}

func TestPersonalize_LeavesSimulatedQuoteUntouched(t *testing.T) {
	quote := pricing.QuoteResult{
		Success: false,
		Data:    &pricing.QuoteData{TotalPrice: 115},
	}

	result := Personalize(quote, models.ContactInfo{FullName: "Luis"})
	assert.Empty(t, result.Data.PersonalizedMessage)
}

func TestPersonalize_DoesNotMutateInput(t *testing.T) {
	original := pricedQuote(115)
	_ = Personalize(original, models.ContactInfo{FullName: "Ana García"})
	assert.Empty(t, original.Data.PersonalizedMessage)
}
