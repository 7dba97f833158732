package services

import (
	"context"
	"errors"

	"github.com/adamyamd/Missionary-Trainer-ENG/config"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Global Gemini client instance
var geminiClient *genai.Client

var geminiModelName = "gemini-1.5-flash"

// InitTrainerService initializes the Gemini client using the API key from
// the config.
func InitTrainerService(cfg *config.Config) error {
	if cfg.Gemini.ApiKey == "" {
		return errors.New("gemini api key not configured")
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.Gemini.ApiKey))
	if err != nil {
		return err
	}
	geminiClient = client
	if cfg.Gemini.Model != "" {
		geminiModelName = cfg.Gemini.Model
	}
	return nil
}
