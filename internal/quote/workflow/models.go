package workflow

import (
	"laserquote/internal/models"
	"laserquote/internal/quote/analysis"
	"laserquote/internal/quote/pricing"
)

// Step identifies how far a quote request got through the pipeline.
type Step string

const (
	StepAnalysis    Step = "analysis"
	StepCalculation Step = "calculation"
	StepCompleted   Step = "completed"
)

// Input carries everything needed for a complete quote: the drawing plus the
// customer's selections from the wizard.
type Input struct {
	File     analysis.DrawingFile
	Contact  models.ContactInfo
	Material models.MaterialSelection
	Delivery models.DeliverySelection
}

// Result reports the outcome of a workflow run. Analysis is set whenever the
// drawing was analyzed, even when that analysis failed; Quote is only set
// once pricing ran.
type Result struct {
	Success  bool                 `json:"success"`
	Step     Step                 `json:"step"`
	Analysis *analysis.Result     `json:"dxf_analysis,omitempty"`
	Quote    *pricing.QuoteResult `json:"quote,omitempty"`
	Error    string               `json:"error,omitempty"`
	Message  string               `json:"message,omitempty"`
}
