package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"quizarena/internal/config"
	"quizarena/internal/model"
)

var (
	// ErrGeneratorUnavailable is returned when the Gemini API is not
	// configured or an upstream call fails. No fallback content is served.
	ErrGeneratorUnavailable = errors.New("quiz generator unavailable")

	// ErrMalformedGeneration is returned when a generation response cannot
	// be parsed into a well-formed question set.
	ErrMalformedGeneration = errors.New("malformed generation response")
)

// codeFence strips the ```json fences Gemini wraps around JSON output
// even when asked not to.
var codeFence = regexp.MustCompile("```json\n?|```")

// QuizGenerator produces new question sets. Satisfied by GeneratorService;
// tests substitute a scripted implementation.
type QuizGenerator interface {
	GenerateQuestions(ctx context.Context, exclude []string) ([]model.Question, error)
}

// GeneratorService calls the Gemini API for quiz generation, easter-egg
// lookups, and text-to-speech.
type GeneratorService struct {
	config *config.AIConfig
	client *http.Client
}

// NewGeneratorService creates a new generator service
func NewGeneratorService() *GeneratorService {
	cfg := config.DefaultAIConfig()
	return &GeneratorService{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

// NewGeneratorServiceWithConfig is used by tests to point at a stub server.
func NewGeneratorServiceWithConfig(cfg *config.AIConfig) *GeneratorService {
	return &GeneratorService{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

// GenerateQuestions asks Gemini for one quiz worth of questions. The
// exclude list is advisory: the model is told to avoid those texts, but
// callers must still deduplicate the result (the generator cannot be
// trusted to honor exclusion instructions exactly).
func (s *GeneratorService) GenerateQuestions(ctx context.Context, exclude []string) ([]model.Question, error) {
	if !s.config.IsEnabled() {
		return nil, ErrGeneratorUnavailable
	}

	payload := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": s.buildQuizPrompt(exclude)},
				},
			},
		},
		"systemInstruction": map[string]interface{}{
			"parts": []map[string]string{
				{"text": quizSystemInstruction},
			},
		},
	}

	text, err := s.callGemini(ctx, s.config.Models.QuizGen, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneratorUnavailable, err)
	}

	return parseQuestions(text)
}

// FindEgg looks up a single easter egg matching the query.
func (s *GeneratorService) FindEgg(ctx context.Context, query string) (*model.EggFindResult, error) {
	if !s.config.IsEnabled() {
		return nil, ErrGeneratorUnavailable
	}

	payload := textPayload(
		fmt.Sprintf("Find an MCU easter egg related to: %q", query),
		eggFindSystemInstruction,
	)

	text, err := s.callGemini(ctx, s.config.Models.EggText, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneratorUnavailable, err)
	}

	var result model.EggFindResult
	cleaned := strings.TrimSpace(codeFence.ReplaceAllString(text, ""))
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedGeneration, err)
	}
	return &result, nil
}

// ExplainEgg produces a short, simple explanation of an easter egg.
func (s *GeneratorService) ExplainEgg(ctx context.Context, eggContext string) (string, error) {
	return s.eggText(ctx, "The Easter egg is: "+eggContext, eggExplainSystemInstruction)
}

// WhatIf writes a short "What If...?" scenario based on an easter egg.
func (s *GeneratorService) WhatIf(ctx context.Context, eggContext string) (string, error) {
	return s.eggText(ctx, "The Easter egg is: "+eggContext, eggWhatIfSystemInstruction)
}

func (s *GeneratorService) eggText(ctx context.Context, prompt, instruction string) (string, error) {
	if !s.config.IsEnabled() {
		return "", ErrGeneratorUnavailable
	}

	text, err := s.callGemini(ctx, s.config.Models.EggText, textPayload(prompt, instruction))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneratorUnavailable, err)
	}
	return text, nil
}

// Speak renders the given text as audio and returns it base64-encoded,
// as delivered by the TTS model's inlineData.
func (s *GeneratorService) Speak(ctx context.Context, text string) (string, error) {
	if !s.config.IsEnabled() {
		return "", ErrGeneratorUnavailable
	}

	payload := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": "Say in a knowledgeable, slightly proper and a neutral but enthusiastic way: " + text},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseModalities": []string{"AUDIO"},
			"speechConfig": map[string]interface{}{
				"voiceConfig": map[string]interface{}{
					"prebuiltVoiceConfig": map[string]string{"voiceName": "Aoede"},
				},
			},
		},
	}

	resp, err := s.call(ctx, s.config.Models.TTS, payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneratorUnavailable, err)
	}

	if len(resp.Candidates) > 0 && len(resp.Candidates[0].Content.Parts) > 0 {
		if data := resp.Candidates[0].Content.Parts[0].InlineData.Data; data != "" {
			return data, nil
		}
	}
	return "", fmt.Errorf("%w: no audio data in TTS response", ErrMalformedGeneration)
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text       string `json:"text"`
				InlineData struct {
					Data string `json:"data"`
				} `json:"inlineData"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// callGemini makes a request to the Gemini API and returns the first
// candidate's text.
func (s *GeneratorService) callGemini(ctx context.Context, modelName string, payload map[string]interface{}) (string, error) {
	resp, err := s.call(ctx, modelName, payload)
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) > 0 && len(resp.Candidates[0].Content.Parts) > 0 {
		return resp.Candidates[0].Content.Parts[0].Text, nil
	}
	return "", fmt.Errorf("empty response from Gemini")
}

func (s *GeneratorService) call(ctx context.Context, modelName string, payload map[string]interface{}) (*geminiResponse, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s?key=%s", s.config.ModelEndpoint(modelName), s.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini API status %d (%s)", resp.StatusCode, modelName)
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return nil, err
	}
	return &geminiResp, nil
}

// parseQuestions parses a generation response into a validated question
// set: a strict JSON array of exactly 5 objects with 4 options each.
func parseQuestions(text string) ([]model.Question, error) {
	cleaned := strings.TrimSpace(codeFence.ReplaceAllString(text, ""))

	var questions []model.Question
	if err := json.Unmarshal([]byte(cleaned), &questions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedGeneration, err)
	}

	if len(questions) != model.QuestionCount {
		return nil, fmt.Errorf("%w: got %d questions, want %d", ErrMalformedGeneration, len(questions), model.QuestionCount)
	}
	for i := range questions {
		if !questions[i].Valid() {
			return nil, fmt.Errorf("%w: question %d is not well-formed", ErrMalformedGeneration, i)
		}
	}
	return questions, nil
}

func textPayload(prompt, systemInstruction string) map[string]interface{} {
	return map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"systemInstruction": map[string]interface{}{
			"parts": []map[string]string{
				{"text": systemInstruction},
			},
		},
	}
}

func (s *GeneratorService) buildQuizPrompt(exclude []string) string {
	var sb strings.Builder
	sb.WriteString(`Generate a 5-question Marvel Cinematic Universe quiz in JSON format.
Each question must have:
- question (string)
- options (array of 4 strings)
- correct (index 0-3)

Return ONLY the JSON array of 5 questions, no markdown, no extra text.`)

	if len(exclude) > 0 {
		sb.WriteString("\n\nDo NOT reuse any of these existing questions:\n")
		for _, q := range exclude {
			sb.WriteString("- ")
			sb.WriteString(q)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

const quizSystemInstruction = `You are a Marvel Cinematic Universe trivia expert. Create exactly 5 multiple-choice questions about MCU movies, characters, scenes, or Easter eggs. Each question must have exactly 4 options and exactly one correct answer. Output must be a valid JSON array of objects with keys: question, options, correct. No explanations, no markdown, no additional text.`

const eggFindSystemInstruction = `You are a Marvel Cinematic Universe expert. Your task is to find a single, specific, and verifiable Easter egg based on a user's query. You must respond ONLY with a JSON object in the format {"title": "A short, catchy title for the Easter egg", "description": "A detailed paragraph describing the Easter egg, the scene it appears in, and its significance."}. Do not include any other text, greetings, or explanations outside of the JSON object. If you cannot find a specific Easter egg for the query, respond with the JSON object {"error": "I could not find a specific Easter egg for that term in my database. Try being more specific or using a different keyword."}.`

const eggExplainSystemInstruction = `You are a friendly comic book expert. Explain the following movie Easter egg in a simple and fun way. Keep it to one short paragraph.`

const eggWhatIfSystemInstruction = `You are a creative writer for Marvel's 'What If...?' series. Based on the following movie Easter egg, write a short, exciting 'What If...?' scenario in a single paragraph, keep it concise. Start your response with 'What If...?' and be creative and dramatic.`
