package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-editor/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-editor/pkg/errors"
)

// GenerateRequest is the problem statement handed to the external
// constraint-solving service. The editor never interprets restriction rules
// itself; they are passed through verbatim.
type GenerateRequest struct {
	Level        string                     `json:"level"`
	Days         int                        `json:"days"`
	Blocks       int                        `json:"blocks"`
	Grades       int                        `json:"grades"`
	Teachers     []models.Teacher           `json:"teachers"`
	Assignments  []models.TeacherAssignment `json:"assignments"`
	Quotas       []models.HourQuota         `json:"quotas"`
	Restrictions []models.RestrictionRule   `json:"restrictions"`
}

type generateResponse struct {
	Cells [][][]int `json:"cells"`
	Error string    `json:"error,omitempty"`
}

// Client calls the external schedule generation service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient configures a solver client. A nil logger falls back to no-op.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Generate submits the problem and returns the candidate grid. Solver
// unavailability, an error response, a malformed grid and an all-zero grid
// are all the same failure from the editor's point of view: no variant is
// added and prior state is preserved.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (models.Grid, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return models.Grid{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode generation request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate", bytes.NewReader(payload))
	if err != nil {
		return models.Grid{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build generation request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return models.Grid{}, appErrors.Wrap(err, appErrors.ErrGenerationFailed.Code, appErrors.ErrGenerationFailed.Status, "generation service unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Grid{}, appErrors.Wrap(err, appErrors.ErrGenerationFailed.Code, appErrors.ErrGenerationFailed.Status, "failed to read generation response")
	}

	c.logger.Debug("generation call finished",
		zap.String("level", req.Level),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode != http.StatusOK {
		return models.Grid{}, appErrors.Clone(appErrors.ErrGenerationFailed, fmt.Sprintf("generation service returned status %d", resp.StatusCode))
	}

	var decoded generateResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return models.Grid{}, appErrors.Wrap(err, appErrors.ErrGenerationFailed.Code, appErrors.ErrGenerationFailed.Status, "malformed generation response")
	}
	if decoded.Error != "" {
		return models.Grid{}, appErrors.Clone(appErrors.ErrGenerationFailed, decoded.Error)
	}

	grid, err := models.GridFromCells(decoded.Cells)
	if err != nil {
		return models.Grid{}, appErrors.Wrap(err, appErrors.ErrGenerationFailed.Code, appErrors.ErrGenerationFailed.Status, "generation service returned malformed grid")
	}
	if grid.Days() != req.Days || grid.Blocks() != req.Blocks || grid.Grades() != req.Grades {
		return models.Grid{}, appErrors.Clone(appErrors.ErrGenerationFailed, fmt.Sprintf(
			"generation service returned grid of shape %dx%dx%d, want %dx%dx%d",
			grid.Days(), grid.Blocks(), grid.Grades(), req.Days, req.Blocks, req.Grades))
	}
	if grid.IsEmpty() {
		return models.Grid{}, appErrors.Clone(appErrors.ErrGenerationFailed, "generation service returned an empty schedule")
	}

	return grid, nil
}
