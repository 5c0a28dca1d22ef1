// Package analysis turns a finished check-in transcript into a short
// written mood reflection using the Gemini API.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

const reflectionPrompt = `You are a supportive mood check-in companion.
Below is the transcript of a short spoken check-in between a user and a
voice assistant. Write a brief, warm reflection (3-5 sentences) of how
the user seems to be feeling, naming the main emotions you noticed and
one gentle suggestion. Address the user directly. If the transcript
indicates no speech was captured, say so kindly and invite them to try
again.

Transcript:
%s`

// MoodReport is the written outcome of one check-in.
type MoodReport struct {
	Transcript string
	Reflection string
}

// Analyzer produces a mood report from a transcript.
type Analyzer interface {
	Analyze(ctx context.Context, transcript string) (MoodReport, error)
}

// GeminiAnalyzer is an Analyzer backed by the Gemini API.
type GeminiAnalyzer struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// NewGeminiAnalyzer creates an analyzer authenticated with the given
// API key. model may be empty to use the default.
func NewGeminiAnalyzer(ctx context.Context, apiKey, model string, logger *slog.Logger) (*GeminiAnalyzer, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("analysis: api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	if model == "" {
		model = defaultModel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GeminiAnalyzer{client: client, model: model, logger: logger}, nil
}

// Analyze asks the model for a reflection on the transcript.
func (a *GeminiAnalyzer) Analyze(ctx context.Context, transcript string) (MoodReport, error) {
	prompt := fmt.Sprintf(reflectionPrompt, transcript)

	resp, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(prompt), nil)
	if err != nil {
		return MoodReport{}, fmt.Errorf("generate reflection: %w", err)
	}

	reflection := strings.TrimSpace(resp.Text())
	if reflection == "" {
		return MoodReport{}, fmt.Errorf("empty reflection from model %s", a.model)
	}

	a.logger.Debug("generated mood reflection", "model", a.model, "chars", len(reflection))
	return MoodReport{Transcript: transcript, Reflection: reflection}, nil
}
