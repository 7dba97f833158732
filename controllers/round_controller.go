package controllers

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/adamyamd/Missionary-Trainer-ENG/models"
	"github.com/adamyamd/Missionary-Trainer-ENG/services"

	"github.com/gin-gonic/gin"
)

// Recordings are capped at 60 seconds in the UI; anything bigger than this
// is not a legitimate clip.
const maxAudioBytes = 16 << 20

const defaultName = "Elder/Sister Anonymous"

// RowAppender is the persistence sink for completed rounds. Appends are
// best effort: failures go to the operator log, never to the user.
type RowAppender interface {
	Append(ctx context.Context, name, topic, score, feedback string) error
}

// RoundController runs the evaluation pipeline for one submitted
// recording: upload, inference, score extraction, history append,
// spreadsheet append.
type RoundController struct {
	Sessions  *services.SessionService
	Evaluator services.Evaluator
	Sink      RowAppender
}

// SubmitRound handles POST /session/:id/round (multipart form: name,
// topic, audio).
func (rc *RoundController) SubmitRound(c *gin.Context) {
	sessionId := c.Param("id")
	if _, err := rc.Sessions.Get(sessionId); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	name := c.PostForm("name")
	if name == "" {
		name = defaultName
	}
	topic := c.PostForm("topic")
	if topic == "" {
		topic = services.DefaultTopic
	}

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Audio recording is required"})
		return
	}
	if fileHeader.Size > maxAudioBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Recording is too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read recording"})
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read recording"})
		return
	}

	// Same recording, same topic: answer from the cached result instead of
	// evaluating the audio a second time.
	signature := services.Signature(len(audio), topic)
	if cached, ok := rc.Sessions.DuplicateResult(sessionId, signature); ok {
		duplicate := *cached
		duplicate.Duplicate = true
		c.JSON(http.StatusOK, duplicate)
		return
	}

	rawFeedback, err := rc.Evaluator.EvaluateRecording(c.Request.Context(), topic, audio)
	if err != nil {
		log.Printf("Evaluation failed for session %s: %v", sessionId, err)
		message := "Analysis failed. Please try again."
		if errors.Is(err, services.ErrUploadFailed) {
			message = "Upload failed. Please try again."
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": message})
		return
	}

	// A missing score line does not fail the round; the sentinel is
	// recorded and persisted like any other value.
	score := services.ParseScore(rawFeedback)

	saved := false
	if rc.Sink != nil {
		if err := rc.Sink.Append(c.Request.Context(), name, topic, score, rawFeedback); err != nil {
			log.Printf("Sheet append failed for session %s: %v", sessionId, err)
		} else {
			saved = true
		}
	}

	result := &models.RoundResult{
		Score:         score,
		Feedback:      services.StripScoreLines(rawFeedback),
		TargetMessage: services.TargetMessage(score),
		Saved:         saved,
	}

	attempt := models.Attempt{Score: score, Timestamp: time.Now()}
	round, err := rc.Sessions.AppendAttempt(sessionId, attempt, signature, result)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	result.Round = round

	c.JSON(http.StatusOK, result)
}
