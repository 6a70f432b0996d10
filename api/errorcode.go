package api

import (
	"errors"
	"net/http"

	"github.com/bitmark-inc/helpity-api/dispatch"
	"github.com/bitmark-inc/helpity-api/store"
)

var (
	errorMessageMap = map[int64]string{
		999: "internal server error",

		1010: "invalid parameters",
		1011: "cannot parse request",

		1100: store.ErrAccountTaken.Error(),
		1101: store.ErrAccountNotFound.Error(),
		1102: "invalid account role",

		1200: store.ErrHelpNotFound.Error(),
		1201: store.ErrHelpNotPending.Error(),
		1202: store.ErrSelfResponse.Error(),
		1203: dispatch.ErrInvalidResponseStatus.Error(),
		1204: dispatch.ErrCreationFailed.Error(),
		1205: dispatch.ErrMissingUserID.Error(),

		1300: store.ErrPersistence.Error(),
	}

	errorInternalServer = errorJSON(999)

	errorInvalidParameters  = errorJSON(1010)
	errorCannotParseRequest = errorJSON(1011)

	errorAccountTaken       = errorJSON(1100)
	errorAccountNotFound    = errorJSON(1101)
	errorInvalidAccountRole = errorJSON(1102)

	errorRequestNotExist       = errorJSON(1200)
	errorRequestNotPending     = errorJSON(1201)
	errorSelfResponse          = errorJSON(1202)
	errorInvalidResponseStatus = errorJSON(1203)
	errorRequestCreationFailed = errorJSON(1204)
	errorMissingUserID         = errorJSON(1205)

	errorStoreUnavailable = errorJSON(1300)
)

type ErrorResponse struct {
	Code    int64  `json:"code"`
	Message string `json:"message"`
}

// errorJSON converts an error code to a standardized error object
func errorJSON(code int64) ErrorResponse {
	var message string
	if msg, ok := errorMessageMap[code]; ok {
		message = msg
	} else {
		message = "unknown"
	}

	return ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// errorResponse picks the http status and error code of an error raised by
// the help request flows. Every one of them is reported as a client error
// carrying the message of err.
func errorResponse(err error) (int, ErrorResponse) {
	status := http.StatusBadRequest
	var obj ErrorResponse

	switch {
	case errors.Is(err, dispatch.ErrCreationFailed):
		obj = errorRequestCreationFailed
	case errors.Is(err, store.ErrHelpNotFound):
		status, obj = http.StatusNotFound, errorRequestNotExist
	case errors.Is(err, store.ErrAccountNotFound):
		status, obj = http.StatusNotFound, errorAccountNotFound
	case errors.Is(err, store.ErrHelpNotPending):
		status, obj = http.StatusConflict, errorRequestNotPending
	case errors.Is(err, store.ErrSelfResponse):
		status, obj = http.StatusConflict, errorSelfResponse
	case errors.Is(err, store.ErrAccountTaken):
		status, obj = http.StatusConflict, errorAccountTaken
	case errors.Is(err, dispatch.ErrInvalidResponseStatus):
		obj = errorInvalidResponseStatus
	case errors.Is(err, dispatch.ErrMissingUserID):
		obj = errorMissingUserID
	case errors.Is(err, dispatch.ErrInvalidSubmission), errors.Is(err, dispatch.ErrInvalidResponse):
		obj = errorInvalidParameters
	case errors.Is(err, store.ErrPersistence):
		obj = errorStoreUnavailable
	default:
		obj = errorInternalServer
	}

	obj.Message = err.Error()
	return status, obj
}
