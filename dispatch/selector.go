package dispatch

import (
	"github.com/bitmark-inc/helpity-api/schema"
	"github.com/bitmark-inc/helpity-api/store"
)

// MaxCandidates is the most volunteers notified about a single request
const MaxCandidates = 5

// Selector picks the volunteers to notify about a help request.
//
// Any volunteer qualifies for now. The location and the emergency flag of
// the request are not considered and the result is in no particular order.
type Selector struct {
	accounts store.AccountStore
}

func NewSelector(accounts store.AccountStore) *Selector {
	return &Selector{accounts: accounts}
}

// Select returns at most MaxCandidates volunteer accounts, never including
// the requester
func (s *Selector) Select(help *schema.HelpRequest) ([]schema.Account, error) {
	accounts, err := s.accounts.ListAccountsByRole(schema.RoleVolunteer, MaxCandidates)
	if err != nil {
		return nil, err
	}

	candidates := make([]schema.Account, 0, len(accounts))
	for _, a := range accounts {
		if a.Role != schema.RoleVolunteer || a.ID == help.RequesterID {
			continue
		}
		candidates = append(candidates, a)
		if len(candidates) == MaxCandidates {
			break
		}
	}

	return candidates, nil
}
