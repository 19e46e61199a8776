package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laserquote/internal/common/logger"
)

func testFile() DrawingFile {
	data := []byte("0\nSECTION\n2\nENTITIES\n0\nENDSEC\n0\nEOF\n")
	return DrawingFile{
		Name:        "bracket.dxf",
		Size:        int64(len(data)),
		ContentType: "application/dxf",
		Data:        data,
	}
}

func newTestClient(baseURL string) *Client {
	return NewClient(&Config{BaseURL: baseURL, Timeout: 2 * time.Second}, logger.NewNoOpLogger())
}

func assertSimulatedBaseline(t *testing.T, result Result) {
	t.Helper()
	assert.False(t, result.Success)
	require.NotEmpty(t, result.Warnings)
	assert.NotEmpty(t, result.Message)
	assert.Equal(t, 100.0, result.Dimensions.Width)
	assert.Equal(t, 50.0, result.Dimensions.Height)
	assert.Equal(t, 5000.0, result.BoundingBox.Area)
	assert.Equal(t, ComplexityModerate, result.Complexity)
	assert.Equal(t, 300.0, result.TotalLength)
	require.Len(t, result.Layers, 1)
	assert.Equal(t, "Layer 1", result.Layers[0].Name)
}

func TestAnalyze_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/analyze", r.URL.Path)

		err := r.ParseMultipartForm(MaxFileSize)
		require.NoError(t, err)
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "bracket.dxf", header.Filename)

		response := Result{
			Layers: []Layer{
				{Name: "cut", Color: "white", EntitiesCount: 42},
				{Name: "engrave", Color: "blue", EntitiesCount: 7},
			},
			Dimensions:  Dimensions{Width: 240, Height: 180, Units: "mm"},
			BoundingBox: BoundingBox{MinX: 0, MinY: 0, MaxX: 240, MaxY: 180, Area: 43200},
			CuttingTime: 22,
			Complexity:  ComplexityComplex,
			TotalLength: 1240,
			Success:     true,
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	result := client.Analyze(context.Background(), testFile())

	assert.True(t, result.Success)
	assert.Equal(t, 43200.0, result.BoundingBox.Area)
	assert.Equal(t, ComplexityComplex, result.Complexity)
	assert.Len(t, result.Layers, 2)
	assert.Empty(t, result.Warnings)
}

func TestAnalyze_HTTPErrorFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	result := newTestClient(server.URL).Analyze(context.Background(), testFile())
	assertSimulatedBaseline(t, result)
	assert.Contains(t, result.Message, "500")
}

func TestAnalyze_ServiceRejectionFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": false, "message": "unsupported DXF version"}`))
	}))
	defer server.Close()

	result := newTestClient(server.URL).Analyze(context.Background(), testFile())
	assertSimulatedBaseline(t, result)
	assert.Equal(t, "unsupported DXF version", result.Message)
}

func TestAnalyze_MissingSuccessFieldFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"layers": []}`))
	}))
	defer server.Close()

	result := newTestClient(server.URL).Analyze(context.Background(), testFile())
	assertSimulatedBaseline(t, result)
}

func TestAnalyze_MalformedJSONFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer server.Close()

	result := newTestClient(server.URL).Analyze(context.Background(), testFile())
	assertSimulatedBaseline(t, result)
}

func TestAnalyze_UnreachableServiceFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listening any more

	result := newTestClient(server.URL).Analyze(context.Background(), testFile())
	assertSimulatedBaseline(t, result)
}

func TestValidateFile(t *testing.T) {
	tests := []struct {
		name     string
		file     DrawingFile
		valid    bool
		numErrs  int
	}{
		{"valid dxf", testFile(), true, 0},
		{"uppercase extension", DrawingFile{Name: "PART.DXF", Size: 10, Data: []byte("x")}, true, 0},
		{"wrong extension", DrawingFile{Name: "part.dwg", Size: 10}, false, 1},
		{"empty file", DrawingFile{Name: "part.dxf", Size: 0}, false, 1},
		{"oversized", DrawingFile{Name: "part.dxf", Size: MaxFileSize + 1}, false, 1},
		{"wrong extension and empty", DrawingFile{Name: "part.svg", Size: 0}, false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, errs := ValidateFile(tt.file)
			assert.Equal(t, tt.valid, valid)
			assert.Len(t, errs, tt.numErrs)
		})
	}
}
