package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/amanpal02x/Cask-Ai-sub001/models"
)

// PoseAnalysis is the scoring contract of the ML backend for one frame.
type PoseAnalysis struct {
	Accuracy      float64            `json:"accuracy"`
	Feedback      []string           `json:"feedback"`
	Angles        map[string]float64 `json:"angles"`
	IsRepComplete bool               `json:"isRepComplete"`
	RepCount      int                `json:"repCount,omitempty"`
}

// PoseAnalyzer scores a single pose sample. Implementations are treated as
// remote and possibly slow; callers pass a bounded context.
type PoseAnalyzer interface {
	Analyze(ctx context.Context, landmarks []models.PoseLandmark, exercise string) (*PoseAnalysis, error)
}

// MLClient calls the Python ML backend's /predict endpoint. A dropped frame
// is tolerable, so there is no retry here; failures surface per-frame as
// ErrAnalysisFailed and the client decides whether to resubmit.
type MLClient struct {
	baseURL string
	client  *http.Client
}

func NewMLClient(baseURL string, timeout time.Duration) *MLClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &MLClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (m *MLClient) Analyze(ctx context.Context, landmarks []models.PoseLandmark, exercise string) (*PoseAnalysis, error) {
	payload := struct {
		Landmarks []models.PoseLandmark `json:"landmarks"`
		Exercise  string                `json:"exercise,omitempty"`
	}{Landmarks: landmarks, Exercise: exercise}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", ErrAnalysisFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: ml backend returned %d", ErrAnalysisFailed, resp.StatusCode)
	}

	var result PoseAnalysis
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrAnalysisFailed, err)
	}

	return &result, nil
}
