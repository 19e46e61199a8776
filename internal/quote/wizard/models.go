package wizard

import (
	"time"

	"laserquote/internal/models"
	"laserquote/internal/quote/analysis"
	"laserquote/internal/quote/workflow"
)

// Step is the wizard's current position. Transitions are strictly linear:
// upload → material → contact → delivery → result.
type Step string

const (
	StepUpload   Step = "upload"
	StepMaterial Step = "material"
	StepContact  Step = "contact"
	StepDelivery Step = "delivery"
	StepResult   Step = "result"
)

// Session accumulates one quote conversation. The drawing bytes are kept in
// the session so the delivery step can run the full pipeline without the
// client re-uploading.
type Session struct {
	ID       string                   `json:"id"`
	UserID   string                   `json:"user_id"`
	Step     Step                     `json:"step"`
	FileName string                   `json:"file_name,omitempty"`
	FileData []byte                   `json:"file_data,omitempty"`
	Analysis *analysis.Result         `json:"analysis,omitempty"`
	Material models.MaterialSelection `json:"material"`
	Contact  models.ContactInfo       `json:"contact"`
	Delivery models.DeliverySelection `json:"delivery"`
	Result   *workflow.Result         `json:"result,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Terminal reports whether the session reached the result step. A requote
// needs a fresh session.
func (s *Session) Terminal() bool {
	return s.Step == StepResult
}
