package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// aiRequestTimeout bounds every outbound AI call. The fallback paths kick in
// once this expires, so it stays deliberately short.
const aiRequestTimeout = 15 * time.Second

// Message represents a message in the chat completion request
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents a request to the chat completions API
type ChatRequest struct {
	Model          string            `json:"model"`
	Messages       []Message         `json:"messages"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
	Temperature    float64           `json:"temperature,omitempty"`
}

// FoodAnalysis is the structured nutrition breakdown for a described meal.
type FoodAnalysis struct {
	Foods []struct {
		Name     string  `json:"name"`
		Calories float64 `json:"calories"`
		Protein  float64 `json:"protein"`
		Carbs    float64 `json:"carbs"`
		Fat      float64 `json:"fat"`
		Fiber    float64 `json:"fiber"`
		Sugar    float64 `json:"sugar"`
		Quantity string  `json:"quantity"`
	} `json:"foods"`
	TotalCalories float64 `json:"totalCalories"`
	Analysis      string  `json:"analysis"`
}

// AIMeal is a single recommended meal inside an AI-generated plan.
type AIMeal struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"` // breakfast, lunch, dinner, snack
	Calories     float64  `json:"calories"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	PrepTime     int      `json:"prepTime"`
	Nutrition    struct {
		Protein float64 `json:"protein"`
		Carbs   float64 `json:"carbs"`
		Fat     float64 `json:"fat"`
		Fiber   float64 `json:"fiber"`
	} `json:"nutrition"`
}

// AIMealPlan is the structured multi-meal plan returned by the AI service.
type AIMealPlan struct {
	Meals         []AIMeal `json:"meals"`
	TotalCalories float64  `json:"totalCalories"`
	Analysis      string   `json:"analysis"`
}

// AIRecipe is a recommended recipe returned by the AI service.
type AIRecipe struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	PrepTime     int      `json:"prepTime"`
	CookTime     int      `json:"cookTime"`
	Servings     int      `json:"servings"`
	Calories     float64  `json:"calories"`
	Nutrition    struct {
		Protein float64 `json:"protein"`
		Carbs   float64 `json:"carbs"`
		Fat     float64 `json:"fat"`
		Fiber   float64 `json:"fiber"`
	} `json:"nutrition"`
	Tags []string `json:"tags"`
}

// MealPlanPreferences shapes the meal-plan generation prompt.
type MealPlanPreferences struct {
	DietType  string
	Calories  float64
	Meals     int
	Allergies []string
	Includes  []string
}

// AIService calls a chat-completions style generative API. Every caller must
// treat an error as a signal to fall back to its local path; failures here
// are never surfaced to end users.
type AIService struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
}

// NewAIService creates an AIService from the environment.
func NewAIService() (*AIService, error) {
	apiKey := os.Getenv("AI_API_KEY")
	if apiKey == "" {
		apiKeyFile := os.Getenv("AI_API_KEY_FILE")
		if apiKeyFile == "" {
			return nil, fmt.Errorf("AI_API_KEY or AI_API_KEY_FILE must be set")
		}
		apiKeyBytes, err := os.ReadFile(apiKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read API key file: %w", err)
		}
		apiKey = strings.TrimSpace(string(apiKeyBytes))
		if apiKey == "" {
			return nil, fmt.Errorf("API key file is empty")
		}
	}

	apiURL := os.Getenv("AI_API_URL")
	if apiURL == "" {
		apiURL = "https://api.deepseek.com/v1/chat/completions"
	}
	model := os.Getenv("AI_MODEL")
	if model == "" {
		model = "deepseek-chat"
	}

	return &AIService{
		apiKey: apiKey,
		apiURL: apiURL,
		model:  model,
		client: &http.Client{Timeout: aiRequestTimeout},
	}, nil
}

// AnalyzeFood asks for a structured nutrition breakdown of a free-text food
// description.
func (s *AIService) AnalyzeFood(ctx context.Context, description string) (*FoodAnalysis, error) {
	system := `You are a nutrition expert. Respond only with JSON of the form:
{"foods":[{"name":"","calories":0,"protein":0,"carbs":0,"fat":0,"fiber":0,"sugar":0,"quantity":""}],"totalCalories":0,"analysis":""}
All nutrition fields are numbers (grams, sodium in mg). Use realistic values for standard portions.`

	content, err := s.complete(ctx, system, fmt.Sprintf("Analyze this food: %q", description))
	if err != nil {
		return nil, err
	}

	var analysis FoodAnalysis
	if err := unmarshalEmbeddedObject(content, &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse food analysis: %w", err)
	}
	if len(analysis.Foods) == 0 {
		return nil, fmt.Errorf("no foods in analysis")
	}
	return &analysis, nil
}

// GenerateMealPlan asks for a structured multi-meal plan.
func (s *AIService) GenerateMealPlan(ctx context.Context, prefs MealPlanPreferences) (*AIMealPlan, error) {
	system := `You are a professional nutritionist. Respond only with JSON of the form:
{"meals":[{"name":"","type":"breakfast|lunch|dinner|snack","calories":0,"ingredients":[],"instructions":[],"prepTime":0,"nutrition":{"protein":0,"carbs":0,"fat":0,"fiber":0}}],"totalCalories":0,"analysis":""}`

	prompt := fmt.Sprintf(
		"Generate a daily meal plan.\nDiet type: %s\nTarget calories: %.0f\nNumber of meals: %d\nAllergies to avoid: %s\nFood preferences: %s",
		orDefault(prefs.DietType, "balanced"),
		prefs.Calories,
		prefs.Meals,
		joinOrNone(prefs.Allergies),
		joinOrNone(prefs.Includes),
	)

	content, err := s.complete(ctx, system, prompt)
	if err != nil {
		return nil, err
	}

	var plan AIMealPlan
	if err := unmarshalEmbeddedObject(content, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse meal plan: %w", err)
	}
	return &plan, nil
}

// RecommendRecipes asks for recipe recommendations matching a free-text
// query and dietary preference list.
func (s *AIService) RecommendRecipes(ctx context.Context, query string, dietaryPrefs []string) ([]AIRecipe, error) {
	system := `You are a professional chef and nutritionist. Respond only with a JSON array of the form:
[{"name":"","description":"","ingredients":[],"instructions":[],"prepTime":0,"cookTime":0,"servings":0,"calories":0,"nutrition":{"protein":0,"carbs":0,"fat":0,"fiber":0},"tags":[]}]`

	prompt := fmt.Sprintf("Generate 3 recipe recommendations for: %q", query)
	if len(dietaryPrefs) > 0 {
		prompt += ". The recipes should be suitable for: " + strings.Join(dietaryPrefs, ", ")
	}

	content, err := s.complete(ctx, system, prompt)
	if err != nil {
		return nil, err
	}

	var recipes []AIRecipe
	if err := unmarshalEmbeddedArray(content, &recipes); err != nil {
		return nil, fmt.Errorf("failed to parse recipes: %w", err)
	}
	return recipes, nil
}

// CoachResponse asks for free-text coaching advice with a profile context
// preamble. Empty responses count as failures so the rule-based coach can
// take over.
func (s *AIService) CoachResponse(ctx context.Context, message, profileContext string) (string, error) {
	system := "You are a professional health and fitness coach. Provide helpful, encouraging, personalized advice in 2-3 short paragraphs."

	prompt := message
	if profileContext != "" {
		prompt = profileContext + "\n\nUser message: " + message
	}

	content, err := s.complete(ctx, system, prompt)
	if err != nil {
		return "", err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return "", fmt.Errorf("empty coach response")
	}
	return content, nil
}

func (s *AIService) complete(ctx context.Context, system, user string) (string, error) {
	reqBody := ChatRequest{
		Model: s.model,
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.7,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no response from API")
	}
	return result.Choices[0].Message.Content, nil
}

// unmarshalEmbeddedObject extracts the first JSON object embedded in text.
// Models often wrap JSON in prose or markdown fences; anything without a
// parseable object counts as a failed call.
func unmarshalEmbeddedObject(text string, dest interface{}) error {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return fmt.Errorf("no JSON object in response")
	}
	return json.Unmarshal([]byte(text[start:end+1]), dest)
}

// unmarshalEmbeddedArray extracts the first JSON array embedded in text.
func unmarshalEmbeddedArray(text string, dest interface{}) error {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return fmt.Errorf("no JSON array in response")
	}
	return json.Unmarshal([]byte(text[start:end+1]), dest)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "none"
	}
	return strings.Join(values, ", ")
}
