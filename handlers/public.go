package handlers

import (
	"net/http"

	"restaurant-pos/statemachine"

	"github.com/gin-gonic/gin"
)

// Health reports the service as up
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "Restaurant POS",
	})
}

// GetStateMachineInfo returns the full order state machine for informational purposes
func (h *Handler) GetStateMachineInfo(c *gin.Context) {
	transitions := statemachine.Transitions()
	info := make([]gin.H, 0, len(transitions))
	for _, t := range transitions {
		actor := t.Actor
		if actor == statemachine.ActorStaff {
			actor = "staff or admin"
		}
		info = append(info, gin.H{"from": t.From, "to": t.To, "actor": actor})
	}
	c.JSON(http.StatusOK, gin.H{
		"transitions":     info,
		"terminal_states": []string{"COMPLETED", "CANCELLED"},
		"side_effects": gin.H{
			"create_order": "table becomes OCCUPIED",
			"terminal":     "table becomes AVAILABLE",
		},
	})
}
