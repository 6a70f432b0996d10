package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func TestHealthz(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()
	ts := newTestServer(ctl)

	ts.mongo.EXPECT().Ping().Return(nil).Times(2)
	ts.accounts.EXPECT().Ping().Return(nil)
	ts.accounts.EXPECT().Ping().Return(errors.New("connection refused"))

	w := ts.do("GET", "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code, "wrong status code")

	w = ts.do("GET", "/healthz", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code, "wrong status code")
}

func TestCommunityWall(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()
	ts := newTestServer(ctl)

	w := ts.do("GET", "/api/community-wall", nil)
	assert.Equal(t, http.StatusOK, w.Code, "wrong status code")
	assert.Contains(t, w.Body.String(), "Morning Walk Support")
}
