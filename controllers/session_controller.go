package controllers

import (
	"net/http"

	"github.com/adamyamd/Missionary-Trainer-ENG/services"

	"github.com/gin-gonic/gin"
)

// SessionController manages the per-user practice session lifecycle.
type SessionController struct {
	Sessions *services.SessionService
}

// CreateSession handles POST /session.
func (sc *SessionController) CreateSession(c *gin.Context) {
	session := sc.Sessions.Create()
	c.JSON(http.StatusOK, gin.H{
		"sessionId":  session.ID,
		"audioRound": session.AudioRound,
	})
}

// GetHistory handles GET /session/:id/history. Rounds are numbered from 1
// in insertion order.
func (sc *SessionController) GetHistory(c *gin.Context) {
	history, err := sc.Sessions.History(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	rounds := make([]gin.H, 0, len(history))
	for i, attempt := range history {
		rounds = append(rounds, gin.H{
			"round":     i + 1,
			"score":     attempt.Score,
			"timestamp": attempt.Timestamp,
		})
	}
	c.JSON(http.StatusOK, gin.H{"history": rounds})
}

// NextRound handles POST /session/:id/newRound. The bumped counter tells
// the client to drop its current recorder widget.
func (sc *SessionController) NextRound(c *gin.Context) {
	audioRound, err := sc.Sessions.NextRound(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"audioRound": audioRound})
}

// GetTopics handles GET /topics.
func (sc *SessionController) GetTopics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"topics": services.Topics})
}
