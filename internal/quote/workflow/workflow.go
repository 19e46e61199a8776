package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"laserquote/internal/common/logger"
	"laserquote/internal/common/observability"
	"laserquote/internal/models"
	"laserquote/internal/quote/analysis"
	"laserquote/internal/quote/pricing"
)

// Analyzer is the slice of the analysis client the workflow needs.
type Analyzer interface {
	Analyze(ctx context.Context, file analysis.DrawingFile) analysis.Result
}

// Calculator is the slice of the pricing client the workflow needs.
type Calculator interface {
	Calculate(ctx context.Context, req pricing.QuoteRequest) pricing.QuoteResult
}

// Workflow runs the analyze-then-price pipeline in process. It holds no
// per-request state, so a single instance serves all requests.
type Workflow struct {
	analyzer   Analyzer
	calculator Calculator
	logger     logger.Logger
	obs        *observability.Observability
}

func New(analyzer Analyzer, calculator Calculator, log logger.Logger, obs *observability.Observability) *Workflow {
	return &Workflow{
		analyzer:   analyzer,
		calculator: calculator,
		logger:     log.With(map[string]interface{}{"component": "quote-workflow"}),
		obs:        obs,
	}
}

// AnalyzeOnly runs just the drawing analysis, for the wizard's upload step.
func (w *Workflow) AnalyzeOnly(ctx context.Context, file analysis.DrawingFile) Result {
	result := w.analyzer.Analyze(ctx, file)
	w.recordAnalysis(ctx, result.Success)

	message := "DXF file analyzed successfully"
	if !result.Success {
		message = result.Message
		if message == "" {
			message = "Failed to analyze DXF file"
		}
	}
	return Result{
		Success:  result.Success,
		Step:     StepAnalysis,
		Analysis: &result,
		Message:  message,
	}
}

// ProcessCompleteQuote runs analysis and then pricing. A failed analysis
// short-circuits the run: pricing is never attempted on simulated geometry.
// A simulated price does not fail the run; the result completes with
// Success=false and the fallback quote attached.
func (w *Workflow) ProcessCompleteQuote(ctx context.Context, input Input) Result {
	start := time.Now()
	w.logger.Info("processing complete quote", map[string]interface{}{
		"file":     input.File.Name,
		"customer": input.Contact.Email,
	})

	analysisResult := w.analyzer.Analyze(ctx, input.File)
	w.recordAnalysis(ctx, analysisResult.Success)
	if !analysisResult.Success {
		w.recordQuote(ctx, "analysis_failed")
		message := analysisResult.Message
		if message == "" {
			message = "Could not process DXF file"
		}
		return Result{
			Success:  false,
			Step:     StepAnalysis,
			Analysis: &analysisResult,
			Error:    "Error analyzing DXF file",
			Message:  message,
		}
	}

	var delivery *models.DeliverySelection
	if !input.Delivery.IsZero() {
		delivery = &input.Delivery
	}
	request := pricing.BuildRequest(input.Contact, input.Material, analysisResult, delivery)

	quote := w.calculator.Calculate(ctx, request)
	quote = Personalize(quote, input.Contact)

	message := "Quote generated successfully"
	status := "ok"
	if !quote.Success {
		message = quote.Message
		status = "simulated"
	}
	w.recordQuote(ctx, status)
	if w.obs != nil {
		w.obs.RecordQuoteDuration(ctx, time.Since(start), status)
	}

	return Result{
		Success:  quote.Success,
		Step:     StepCompleted,
		Analysis: &analysisResult,
		Quote:    &quote,
		Message:  message,
	}
}

func (w *Workflow) recordAnalysis(ctx context.Context, ok bool) {
	if w.obs == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "degraded"
	}
	w.obs.RecordAnalysisProcessed(ctx, status)
}

func (w *Workflow) recordQuote(ctx context.Context, status string) {
	if w.obs != nil {
		w.obs.RecordQuoteProcessed(ctx, status)
	}
}

// Personalize attaches a greeting with a savings tip to a successfully priced
// quote. Simulated quotes pass through untouched; their figures are not worth
// a personal pitch.
func Personalize(quote pricing.QuoteResult, contact models.ContactInfo) pricing.QuoteResult {
	if !quote.Success || quote.Data == nil {
		return quote
	}

	data := *quote.Data
	data.PersonalizedMessage = personalizedMessage(data, contact)
	quote.Data = &data
	return quote
}

func personalizedMessage(data pricing.QuoteData, contact models.ContactInfo) string {
	firstName := contact.FullName
	if idx := strings.IndexByte(firstName, ' '); idx > 0 {
		firstName = firstName[:idx]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hola %s,\n\n", firstName)
	fmt.Fprintf(&b, "Tu presupuesto personalizado está listo. Con un tiempo estimado de %s, ofrecemos una solución completa de corte láser por €%.2f.\n", data.EstimatedTime, data.TotalPrice)

	if tip := savingsTip(data.Breakdown); tip != "" {
		fmt.Fprintf(&b, "\n💡 Consejo: %s\n", tip)
	}

	b.WriteString("\nEl presupuesto es válido por 30 días. ¿Te gustaría proceder con el pedido?")
	return b.String()
}

// savingsTip suggests one optimization at most, material cost first.
func savingsTip(breakdown pricing.Breakdown) string {
	if breakdown.MaterialCost > 50 {
		return "Considera materiales alternativos para reducir costos hasta un 20%."
	}
	if breakdown.CuttingCost > 30 {
		return "Optimizando el diseño DXF podrías reducir el tiempo de corte."
	}
	return ""
}
