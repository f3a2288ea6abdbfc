package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techagentng/cleancity/models"
)

// The trigger endpoints are the HTTP adapter in front of the lifecycle
// handlers. The body is the full record snapshot the event carried; the
// outcome always travels in the result structure with a 200, so the
// event infrastructure can tell "handled, nothing to do" apart from a
// transport failure worth redelivering.

func (s *Server) handleReportCreatedTrigger() gin.HandlerFunc {
	return func(c *gin.Context) {
		var report models.WasteReport
		if err := c.ShouldBindJSON(&report); err != nil {
			c.JSON(http.StatusOK, models.HandlerResult{
				Success: false,
				Message: "Invalid trigger payload.",
				Error:   err.Error(),
			})
			return
		}

		result := s.AssignmentService.AssignWorker(&report)
		c.JSON(http.StatusOK, result)
	}
}

func (s *Server) handleReportUpdatedTrigger() gin.HandlerFunc {
	return func(c *gin.Context) {
		var report models.WasteReport
		if err := c.ShouldBindJSON(&report); err != nil {
			c.JSON(http.StatusOK, models.HandlerResult{
				Success: false,
				Message: "Invalid trigger payload.",
				Error:   err.Error(),
			})
			return
		}

		result := s.CompletionService.CompleteTask(&report)
		c.JSON(http.StatusOK, result)
	}
}
