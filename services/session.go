package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/adamyamd/Missionary-Trainer-ENG/models"

	"github.com/google/uuid"
)

// SessionService keeps one Session per interactive user, keyed by a
// client-held id. State is in-memory only; the spreadsheet is the durable
// copy of results.
type SessionService struct {
	sessions map[string]*models.Session
	mutex    sync.RWMutex
	ttl      time.Duration
}

var (
	sessionService *SessionService
	sessionOnce    sync.Once
)

// GetSessionService returns the singleton session registry.
func GetSessionService(ttl time.Duration) *SessionService {
	sessionOnce.Do(func() {
		sessionService = &SessionService{
			sessions: make(map[string]*models.Session),
			ttl:      ttl,
		}
		go sessionService.cleanupStaleSessions()
	})
	return sessionService
}

// Create registers a fresh session with an empty history and round zero.
func (ss *SessionService) Create() *models.Session {
	ss.mutex.Lock()
	defer ss.mutex.Unlock()

	now := time.Now()
	session := &models.Session{
		ID:           uuid.NewString(),
		History:      []models.Attempt{},
		AudioRound:   0,
		CreatedAt:    now,
		LastActivity: now,
	}
	ss.sessions[session.ID] = session
	return session
}

// Get looks up a session and refreshes its activity clock.
func (ss *SessionService) Get(id string) (*models.Session, error) {
	ss.mutex.Lock()
	defer ss.mutex.Unlock()

	session, exists := ss.sessions[id]
	if !exists {
		return nil, fmt.Errorf("session %s not found", id)
	}
	session.LastActivity = time.Now()
	return session, nil
}

// AppendAttempt records a completed round and caches its result as the
// session's active one. Returns the 1-based round number.
func (ss *SessionService) AppendAttempt(id string, attempt models.Attempt, signature string, result *models.RoundResult) (int, error) {
	ss.mutex.Lock()
	defer ss.mutex.Unlock()

	session, exists := ss.sessions[id]
	if !exists {
		return 0, fmt.Errorf("session %s not found", id)
	}
	session.History = append(session.History, attempt)
	session.LastSignature = signature
	session.LastResult = result
	session.LastActivity = time.Now()
	return len(session.History), nil
}

// DuplicateResult returns the cached result when the incoming submission
// matches the session's previous (audio size, topic) signature, so the
// same recording is not evaluated twice.
func (ss *SessionService) DuplicateResult(id, signature string) (*models.RoundResult, bool) {
	ss.mutex.RLock()
	defer ss.mutex.RUnlock()

	session, exists := ss.sessions[id]
	if !exists || session.LastSignature == "" || session.LastSignature != signature {
		return nil, false
	}
	return session.LastResult, session.LastResult != nil
}

// NextRound bumps the audio-round counter so the client discards the
// previous recorder widget. The signature guard is cleared with it.
func (ss *SessionService) NextRound(id string) (int, error) {
	ss.mutex.Lock()
	defer ss.mutex.Unlock()

	session, exists := ss.sessions[id]
	if !exists {
		return 0, fmt.Errorf("session %s not found", id)
	}
	session.AudioRound++
	session.LastSignature = ""
	session.LastActivity = time.Now()
	return session.AudioRound, nil
}

// History returns the session's attempts in insertion order.
func (ss *SessionService) History(id string) ([]models.Attempt, error) {
	ss.mutex.RLock()
	defer ss.mutex.RUnlock()

	session, exists := ss.sessions[id]
	if !exists {
		return nil, fmt.Errorf("session %s not found", id)
	}
	history := make([]models.Attempt, len(session.History))
	copy(history, session.History)
	return history, nil
}

// cleanupStaleSessions drops sessions idle past the TTL.
func (ss *SessionService) cleanupStaleSessions() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-ss.ttl)
		ss.mutex.Lock()
		for id, session := range ss.sessions {
			if session.LastActivity.Before(cutoff) {
				delete(ss.sessions, id)
			}
		}
		ss.mutex.Unlock()
	}
}

// Signature builds the duplicate-submission key for a recording.
func Signature(audioSize int, topic string) string {
	return fmt.Sprintf("%d_%s", audioSize, topic)
}
