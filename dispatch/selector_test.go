package dispatch_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/helpity-api/dispatch"
	"github.com/bitmark-inc/helpity-api/mocks"
	"github.com/bitmark-inc/helpity-api/schema"
)

func volunteers(n int) []schema.Account {
	accounts := make([]schema.Account, 0, n)
	for i := 0; i < n; i++ {
		accounts = append(accounts, schema.Account{
			ID:        fmt.Sprintf("volunteer-%d", i),
			Role:      schema.RoleVolunteer,
			PushToken: fmt.Sprintf("token-%d", i),
		})
	}
	return accounts
}

func TestSelectAsksForVolunteersOnly(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	accounts := mocks.NewMockAccountStore(ctl)
	accounts.EXPECT().
		ListAccountsByRole(schema.RoleVolunteer, dispatch.MaxCandidates).
		Return(volunteers(3), nil)

	candidates, err := dispatch.NewSelector(accounts).Select(&schema.HelpRequest{RequesterID: "user-1"})
	assert.NoError(t, err)
	assert.Len(t, candidates, 3)
}

func TestSelectIsBounded(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	accounts := mocks.NewMockAccountStore(ctl)
	accounts.EXPECT().
		ListAccountsByRole(gomock.Any(), gomock.Any()).
		Return(volunteers(8), nil)

	candidates, err := dispatch.NewSelector(accounts).Select(&schema.HelpRequest{RequesterID: "user-1"})
	assert.NoError(t, err)
	assert.Len(t, candidates, dispatch.MaxCandidates)
}

func TestSelectDropsNonVolunteersAndRequester(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	list := volunteers(2)
	list = append(list,
		schema.Account{ID: "user-2", Role: schema.RoleUser, PushToken: "t"},
		schema.Account{ID: "requester", Role: schema.RoleVolunteer, PushToken: "t"},
	)

	accounts := mocks.NewMockAccountStore(ctl)
	accounts.EXPECT().ListAccountsByRole(gomock.Any(), gomock.Any()).Return(list, nil)

	candidates, err := dispatch.NewSelector(accounts).Select(&schema.HelpRequest{RequesterID: "requester"})
	assert.NoError(t, err)
	assert.Len(t, candidates, 2)
	for _, c := range candidates {
		assert.Equal(t, schema.RoleVolunteer, c.Role)
		assert.NotEqual(t, "requester", c.ID)
	}
}

func TestSelectStoreFailure(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	accounts := mocks.NewMockAccountStore(ctl)
	accounts.EXPECT().ListAccountsByRole(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

	candidates, err := dispatch.NewSelector(accounts).Select(&schema.HelpRequest{})
	assert.Error(t, err)
	assert.Nil(t, candidates)
}
