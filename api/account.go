package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bitmark-inc/helpity-api/schema"
)

// accountRegister is the API for register a new account
func (s *Server) accountRegister(c *gin.Context) {
	logger := log.WithField("api", "accountRegister")

	var params struct {
		Email     string             `json:"email" binding:"required"`
		FullName  string             `json:"full_name" binding:"required"`
		Role      schema.AccountRole `json:"role" binding:"required"`
		Phone     string             `json:"phone"`
		PushToken string             `json:"push_token"`
		Language  string             `json:"language"`
	}

	if err := c.ShouldBindJSON(&params); err != nil {
		logger.WithError(err).Error(errorInvalidParameters.Message)
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	if !params.Role.Valid() {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidAccountRole)
		return
	}

	a := &schema.Account{
		Email:     params.Email,
		FullName:  params.FullName,
		Role:      params.Role,
		Phone:     params.Phone,
		PushToken: params.PushToken,
		Language:  params.Language,
	}
	if err := s.accountStore.CreateAccount(a); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User created successfully",
		"user_id": a.ID,
	})
}

// accountDetail is the API to query an account
func (s *Server) accountDetail(c *gin.Context) {
	account, err := s.accountStore.GetAccount(c.Param("userID"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result": account,
	})
}

// accountUpdatePushToken registers the device token used to push
// notifications to an account
func (s *Server) accountUpdatePushToken(c *gin.Context) {
	var params struct {
		PushToken string `json:"push_token"`
	}

	if err := c.ShouldBindJSON(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorCannotParseRequest, err)
		return
	}

	if err := s.accountStore.UpdateAccountPushToken(c.Param("userID"), params.PushToken); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": "OK"})
}
