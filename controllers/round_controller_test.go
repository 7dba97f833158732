package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/adamyamd/Missionary-Trainer-ENG/models"
	"github.com/adamyamd/Missionary-Trainer-ENG/services"

	"github.com/gin-gonic/gin"
)

type stubEvaluator struct {
	response string
	err      error
	calls    int
}

func (s *stubEvaluator) EvaluateRecording(ctx context.Context, topic string, audio []byte) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

type stubSink struct {
	rows [][]string
	err  error
}

func (s *stubSink) Append(ctx context.Context, name, topic, score, feedback string) error {
	if s.err != nil {
		return s.err
	}
	s.rows = append(s.rows, []string{name, topic, score, feedback})
	return nil
}

func newTestRouter(evaluator services.Evaluator, sink RowAppender) (*gin.Engine, *services.SessionService) {
	gin.SetMode(gin.TestMode)
	sessions := services.GetSessionService(time.Hour)
	rc := &RoundController{Sessions: sessions, Evaluator: evaluator, Sink: sink}

	router := gin.New()
	router.POST("/session/:id/round", rc.SubmitRound)
	return router, sessions
}

func submitRound(t *testing.T, router *gin.Engine, sessionId, name, topic string, audio []byte) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if name != "" {
		writer.WriteField("name", name)
	}
	writer.WriteField("topic", topic)
	part, err := writer.CreateFormFile("audio", "recording.wav")
	if err != nil {
		t.Fatalf("CreateFormFile failed: %v", err)
	}
	part.Write(audio)
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/session/%s/round", sessionId), &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestSubmitRoundEndToEnd(t *testing.T) {
	response := "**SCORE: 8.5 / 10.0**\n\nNailed It: ...\nThe Fix: ...\nNext Challenge: ... **9.5 / 10.0** next."
	evaluator := &stubEvaluator{response: response}
	sink := &stubSink{}
	router, sessions := newTestRouter(evaluator, sink)
	session := sessions.Create()

	recorder := submitRound(t, router, session.ID, "", "Faith in Jesus Christ", []byte("wav-bytes-1"))
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var result models.RoundResult
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("Invalid response JSON: %v", err)
	}
	if result.Score != "8.5" {
		t.Errorf("Expected score 8.5, got %q", result.Score)
	}
	if result.Round != 1 {
		t.Errorf("Expected round 1, got %d", result.Round)
	}
	if !result.Saved {
		t.Error("Expected the round to be persisted")
	}
	if result.TargetMessage != "Beat your 8.5! Aim for 9.5." {
		t.Errorf("Unexpected target message: %q", result.TargetMessage)
	}

	history, err := sessions.History(session.ID)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 1 || history[0].Score != "8.5" {
		t.Errorf("Expected one attempt with score 8.5, got %+v", history)
	}

	if len(sink.rows) != 1 {
		t.Fatalf("Expected one sheet row, got %d", len(sink.rows))
	}
	row := sink.rows[0]
	if row[0] != "Elder/Sister Anonymous" {
		t.Errorf("Blank name must default, got %q", row[0])
	}
	if row[3] != response {
		t.Error("Sheet row must carry the full feedback text")
	}
}

func TestSubmitRoundDuplicateSignatureSkipsEvaluation(t *testing.T) {
	evaluator := &stubEvaluator{response: "**SCORE: 7.0 / 10.0**\n\nNailed It: ok"}
	sink := &stubSink{}
	router, sessions := newTestRouter(evaluator, sink)
	session := sessions.Create()

	audio := []byte("same-recording")
	first := submitRound(t, router, session.ID, "Dan", "The Word of Wisdom", audio)
	if first.Code != http.StatusOK {
		t.Fatalf("First submission failed: %d", first.Code)
	}

	second := submitRound(t, router, session.ID, "Dan", "The Word of Wisdom", audio)
	if second.Code != http.StatusOK {
		t.Fatalf("Duplicate submission failed: %d", second.Code)
	}

	var result models.RoundResult
	if err := json.Unmarshal(second.Body.Bytes(), &result); err != nil {
		t.Fatalf("Invalid response JSON: %v", err)
	}
	if !result.Duplicate {
		t.Error("Expected duplicate flag on resubmission")
	}
	if evaluator.calls != 1 {
		t.Errorf("Expected exactly one evaluation, got %d", evaluator.calls)
	}
	if len(sink.rows) != 1 {
		t.Errorf("Expected exactly one sheet row, got %d", len(sink.rows))
	}
	if history, _ := sessions.History(session.ID); len(history) != 1 {
		t.Errorf("Expected one history entry, got %d", len(history))
	}
}

func TestSubmitRoundUnparseableScoreStillCompletes(t *testing.T) {
	evaluator := &stubEvaluator{response: "The model rambled and never gave a score."}
	sink := &stubSink{}
	router, sessions := newTestRouter(evaluator, sink)
	session := sessions.Create()

	recorder := submitRound(t, router, session.ID, "Dan", "Baptism & Confirmation", []byte("audio"))
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", recorder.Code)
	}

	var result models.RoundResult
	json.Unmarshal(recorder.Body.Bytes(), &result)
	if result.Score != services.ScoreUnknown {
		t.Errorf("Expected sentinel score, got %q", result.Score)
	}
	if result.TargetMessage != "Ready for another round?" {
		t.Errorf("Expected generic target message, got %q", result.TargetMessage)
	}

	if history, _ := sessions.History(session.ID); len(history) != 1 || history[0].Score != services.ScoreUnknown {
		t.Errorf("Sentinel round must still enter history, got %+v", history)
	}
	if len(sink.rows) != 1 || sink.rows[0][2] != services.ScoreUnknown {
		t.Errorf("Sentinel round must still be persisted, got %+v", sink.rows)
	}
}

func TestSubmitRoundUploadFailureDoesNotAdvance(t *testing.T) {
	evaluator := &stubEvaluator{err: fmt.Errorf("%w: network down", services.ErrUploadFailed)}
	router, sessions := newTestRouter(evaluator, &stubSink{})
	session := sessions.Create()

	recorder := submitRound(t, router, session.ID, "Dan", "Faith in Jesus Christ", []byte("audio"))
	if recorder.Code != http.StatusBadGateway {
		t.Fatalf("Expected 502, got %d", recorder.Code)
	}

	var body map[string]string
	json.Unmarshal(recorder.Body.Bytes(), &body)
	if body["error"] != "Upload failed. Please try again." {
		t.Errorf("Unexpected error message: %q", body["error"])
	}
	if history, _ := sessions.History(session.ID); len(history) != 0 {
		t.Error("Failed round must not create a history entry")
	}
}

func TestSubmitRoundPersistenceFailureIsNotFatal(t *testing.T) {
	evaluator := &stubEvaluator{response: "**SCORE: 9.6 / 10.0**\n\nNailed It: superb"}
	sink := &stubSink{err: errors.New("sheet unreachable")}
	router, sessions := newTestRouter(evaluator, sink)
	session := sessions.Create()

	recorder := submitRound(t, router, session.ID, "Dan", "The Law of Chastity", []byte("audio"))
	if recorder.Code != http.StatusOK {
		t.Fatalf("Sheet failure must not fail the round, got %d", recorder.Code)
	}

	var result models.RoundResult
	json.Unmarshal(recorder.Body.Bytes(), &result)
	if result.Score != "9.6" {
		t.Errorf("Expected score 9.6, got %q", result.Score)
	}
	if result.Saved {
		t.Error("Saved flag must be false when the append fails")
	}
	if result.TargetMessage != "Beat your 9.6! Aim for 10.0." {
		t.Errorf("Target must clamp at 10.0, got %q", result.TargetMessage)
	}
	if history, _ := sessions.History(session.ID); len(history) != 1 {
		t.Error("Round must complete despite persistence failure")
	}
}

func TestSubmitRoundUnknownSession(t *testing.T) {
	router, _ := newTestRouter(&stubEvaluator{response: "x"}, nil)

	recorder := submitRound(t, router, "missing", "Dan", services.DefaultTopic, []byte("audio"))
	if recorder.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown session, got %d", recorder.Code)
	}
}

func TestSubmitRoundMissingAudio(t *testing.T) {
	router, sessions := newTestRouter(&stubEvaluator{response: "x"}, nil)
	session := sessions.Create()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	writer.WriteField("topic", services.DefaultTopic)
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/session/%s/round", session.ID), &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without audio, got %d", recorder.Code)
	}
}
