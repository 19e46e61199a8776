package analysis

// DrawingFile is the user-submitted CAD drawing. It lives only for the
// duration of one quote attempt.
type DrawingFile struct {
	Name        string
	Size        int64
	ContentType string
	Data        []byte
}

// Complexity classifies how hard a drawing is to cut.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

type Layer struct {
	Name          string `json:"name"`
	Color         string `json:"color"`
	EntitiesCount int    `json:"entities_count"`
}

type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Units  string  `json:"units"`
}

// BoundingBox is the minimal axis-aligned rectangle enclosing all drawing
// geometry. Area is in mm² and drives material-cost estimation.
type BoundingBox struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
	Area float64 `json:"area"`
}

// Result is the outcome of analyzing one drawing. Success=false marks a
// simulated result; the flag propagates to every downstream consumer.
type Result struct {
	Layers      []Layer     `json:"layers"`
	Dimensions  Dimensions  `json:"dimensions"`
	BoundingBox BoundingBox `json:"bounding_box"`
	CuttingTime float64     `json:"cutting_time"` // minutes
	Complexity  Complexity  `json:"complexity"`
	TotalLength float64     `json:"total_length"` // mm of cut path
	Warnings    []string    `json:"warnings,omitempty"`
	Success     bool        `json:"success"`
	Message     string      `json:"message,omitempty"`
}
