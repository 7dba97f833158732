package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
)

// Fatal-to-the-round failure kinds, surfaced to the user. Neither is
// retried; the round simply does not advance.
var (
	ErrUploadFailed    = errors.New("audio upload failed")
	ErrInferenceFailed = errors.New("evaluation failed")
)

// DefaultTopic is the user-declared option at the head of the topic list.
const DefaultTopic = "State Your Own Principle (Default)"

// Topics is the fixed list the form offers. The first entry lets the user
// declare their own principle.
var Topics = []string{
	DefaultTopic,
	"The Restoration (Prophets & Dispensation)",
	"The Book of Mormon (Keystone of our Religion)",
	"The Plan of Salvation (Where we came from)",
	"The Nature of God (Loving Heavenly Father)",
	"Faith in Jesus Christ",
	"Repentance (Joyful change)",
	"Baptism & Confirmation",
	"The Gift of the Holy Ghost",
	"The Word of Wisdom",
	"The Law of Chastity",
}

// BuildTrainerPrompt renders the fixed evaluation rubric for a topic. The
// rubric and the output-format contract ("**SCORE: X / 10.0**" plus three
// labeled sections) are constants; only the topic varies. Whether the
// model honors the format is a soft contract — ParseScore stays defensive.
func BuildTrainerPrompt(topic string) string {
	return fmt.Sprintf(
		`You are an encouraging but sharp Missionary Trainer. Your goal is to help missionaries improve their MESSAGE, not their performance.

CONTEXT:
- Principle: "%s"

NEGATIVE CONSTRAINTS (CRITICAL):
- DO NOT evaluate the user's voice, speed, volume, tone, or delivery style.
- DO NOT comment on "whispering," "slow pace," or "halting speech."
- Evaluate ONLY the words, logic, and structure of the argument.

EVALUATION CRITERIA (The 5 Metrics):
1. DOCTRINE: Did they share a core truth?
2. RELATABILITY: Did they connect it to real life?
3. SIMPLICITY: Was it easy to understand? (No undefined jargon).
4. SPIRIT: Was the content faithful and inviting? (Judge the WORDS, not the voice).
5. INVITATION: Did they ask the listener to DO something?

TASK:
1. Listen to the audio content.
2. Grade EACH of the 5 criteria on a scale of 1.0 to 10.0.
3. Calculate the FINAL SCORE by taking the Average of these 5 numbers.
4. Calculate a TARGET SCORE = Final Score + 1.0 (Max 10.0).
5. Give "Sandwich" feedback (STRICT WORD LIMITS).

OUTPUT RULES:
- DO NOT output the individual metric scores or the math.
- OUTPUT ONLY the Final Score and the Sandwich.
- Format the Score strictly as: "**SCORE: 8.5 / 10.0**"

FEEDBACK FORMAT:
**SCORE: [Final Score] / 10.0**

Nailed It: (Max 15 words) Strongest content element.

The Fix: (Max 20 words) Biggest content/logic area to improve.

Next Challenge: [Actionable Tactic] to hit an **[TARGET SCORE] / 10.0** next.`,
		topic,
	)
}

// Evaluator submits one recording for evaluation and returns the raw
// response text.
type Evaluator interface {
	EvaluateRecording(ctx context.Context, topic string, audio []byte) (string, error)
}

// TrainerService evaluates recordings against the rubric with Gemini.
type TrainerService struct{}

// EvaluateRecording writes the audio to a scoped temp file, uploads it to
// the Gemini Files API as audio/wav, and asks the model for the rubric
// evaluation. The temp file is removed on every exit path.
func (ts *TrainerService) EvaluateRecording(ctx context.Context, topic string, audio []byte) (string, error) {
	if geminiClient == nil {
		return "", fmt.Errorf("%w: gemini client not initialized", ErrInferenceFailed)
	}

	tmp, err := os.CreateTemp("", "recording-*.wav")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(audio); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if _, err := tmp.Seek(0, 0); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	file, err := geminiClient.UploadFile(ctx, "", tmp, &genai.UploadFileOptions{MIMEType: "audio/wav"})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer func() {
		if err := geminiClient.DeleteFile(ctx, file.Name); err != nil {
			log.Printf("Failed to delete uploaded audio %s: %v", file.Name, err)
		}
	}()

	model := geminiClient.GenerativeModel(geminiModelName)
	resp, err := model.GenerateContent(ctx,
		genai.Text(BuildTrainerPrompt(topic)),
		genai.FileData{MIMEType: file.MIMEType, URI: file.URI},
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInferenceFailed, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrInferenceFailed)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	result := strings.TrimSpace(sb.String())
	if result == "" {
		return "", fmt.Errorf("%w: no text in response", ErrInferenceFailed)
	}
	return result, nil
}
