package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type communityStory struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Date         string `json:"date"`
	Volunteer    string `json:"volunteer"`
	PointsEarned int    `json:"points_earned"`
}

// stories shown on the community wall until completed requests are tracked
var featuredStories = []communityStory{
	{
		ID:           "1",
		Title:        "Morning Walk Support",
		Description:  "John helped Sarah with her morning walk around the park. It was a beautiful day filled with great conversation!",
		Date:         "2025-04-05",
		Volunteer:    "John D.",
		PointsEarned: 50,
	},
	{
		ID:           "2",
		Title:        "Doctor's Appointment Assistance",
		Description:  "Maria accompanied Tom to his medical appointment, making sure he got there safely and on time.",
		Date:         "2025-04-04",
		Volunteer:    "Maria S.",
		PointsEarned: 75,
	},
}

func (s *Server) communityWall(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"stories": featuredStories})
}
