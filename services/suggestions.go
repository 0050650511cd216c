package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"main/model"
)

const defaultSuggestionEndpoint = "https://generativelanguage.googleapis.com/v1beta/models"

// GrowthService asks a generative model for habit suggestions. Failures are
// logged and degrade to an empty plan rather than an error on the dashboard.
type GrowthService struct {
	APIKey   string
	Model    string
	Endpoint string
	Client   *http.Client
}

func NewGrowthService(apiKey string) *GrowthService {
	return &GrowthService{
		APIKey:   apiKey,
		Model:    "gemini-3-flash-preview",
		Endpoint: defaultSuggestionEndpoint,
		Client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *GrowthService) Enabled() bool {
	return s != nil && s.APIKey != ""
}

type generateRequest struct {
	Contents []struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
	GenerationConfig struct {
		ResponseMimeType string `json:"responseMimeType"`
	} `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GeneratePlan summarizes the user's habits, prompts the model and parses the
// structured reply. At most three suggested habits are returned.
func (s *GrowthService) GeneratePlan(ctx context.Context, habits []model.Habit) (*model.GrowthPlan, error) {
	if !s.Enabled() {
		return nil, fmt.Errorf("suggestion service not configured")
	}

	var summary strings.Builder
	for _, h := range habits {
		fmt.Fprintf(&summary, "- %s (%d completions)\n", h.Name, len(h.CompletedDates))
	}

	prompt := fmt.Sprintf(`You are the 'Bloom Botanist', a world-class life coach.
Analyze these habits:
%s
Provide:
1. A short (20 words) motivational 'Botanist's Note' on their current progress.
2. 3 new habits to add that would complement this routine.

Return the response in JSON format:
{
  "advice": "string",
  "suggestedHabits": [{"name": "string", "reason": "string"}]
}`, summary.String())

	var req generateRequest
	req.Contents = make([]struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	}, 1)
	req.Contents[0].Parts = make([]struct {
		Text string `json:"text"`
	}, 1)
	req.Contents[0].Parts[0].Text = prompt
	req.GenerationConfig.ResponseMimeType = "application/json"

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", s.Endpoint, s.Model, s.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("suggestion service returned status %d", resp.StatusCode)
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return nil, err
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("suggestion service returned no candidates")
	}

	var plan model.GrowthPlan
	if err := json.Unmarshal([]byte(genResp.Candidates[0].Content.Parts[0].Text), &plan); err != nil {
		log.Printf("failed to parse growth plan: %v", err)
		return nil, err
	}
	if len(plan.SuggestedHabits) > 3 {
		plan.SuggestedHabits = plan.SuggestedHabits[:3]
	}
	return &plan, nil
}
