package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bitmark-inc/helpity-api/dispatch"
	"github.com/bitmark-inc/helpity-api/schema"
)

// askForHelp is the API for asking help from nearby volunteers
func (s *Server) askForHelp(c *gin.Context) {
	var params struct {
		UserID          string           `json:"user_id" binding:"required"`
		TaskDescription string           `json:"task_description" binding:"required"`
		Location        *schema.GeoPoint `json:"location" binding:"required"`
		ScheduledTime   *time.Time       `json:"scheduled_time" binding:"required"`
		Emergency       bool             `json:"emergency"`
	}

	if err := c.ShouldBindJSON(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	result, err := s.orchestrator.CreateHelpRequest(c.Request.Context(), dispatch.Submission{
		RequesterID:     params.UserID,
		TaskDescription: params.TaskDescription,
		Location:        *params.Location,
		ScheduledTime:   *params.ScheduledTime,
		Emergency:       params.Emergency,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":            "Help request created successfully",
		"request_id":         result.RequestID,
		"notifications_sent": result.NotificationsSent,
	})
}

// listHelps returns the pending requests to volunteers and the own requests
// to everyone else
func (s *Server) listHelps(c *gin.Context) {
	role := schema.AccountRole(c.Query("role"))
	userID := c.Query("user_id")

	helps, err := s.orchestrator.ListHelpRequests(c.Request.Context(), role, userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, helps)
}

// helpDetail is the API to query a help request
func (s *Server) helpDetail(c *gin.Context) {
	help, err := s.orchestrator.GetHelpRequest(c.Request.Context(), c.Param("requestID"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, help)
}

// answerHelp is the API for a volunteer to accept a help request
func (s *Server) answerHelp(c *gin.Context) {
	var params struct {
		VolunteerID string            `json:"volunteer_id" binding:"required"`
		RequestID   string            `json:"request_id" binding:"required"`
		Status      schema.HelpStatus `json:"status"`
	}

	if err := c.ShouldBindJSON(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	if err := s.orchestrator.RespondToHelpRequest(c.Request.Context(), dispatch.VolunteerResponse{
		VolunteerID: params.VolunteerID,
		RequestID:   params.RequestID,
		Status:      params.Status,
	}); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Response recorded successfully"})
}
