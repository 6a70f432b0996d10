package dispatch

import "errors"

var (
	ErrCreationFailed        = errors.New("fail to create help request")
	ErrInvalidSubmission     = errors.New("invalid help request")
	ErrInvalidResponse       = errors.New("invalid volunteer response")
	ErrInvalidResponseStatus = errors.New("a volunteer can only accept a help request")
	ErrMissingUserID         = errors.New("user id is required")
)
