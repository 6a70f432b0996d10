package store

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"

	"github.com/bitmark-inc/helpity-api/schema"
)

const (
	ormLogPrefix = "orm"

	uniqueViolation = "23505"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountTaken    = errors.New("the account has been registered")
)

// AccountStore reads and registers accounts
type AccountStore interface {
	Ping() error

	CreateAccount(a *schema.Account) error
	GetAccount(accountID string) (*schema.Account, error)
	ListAccountsByRole(role schema.AccountRole, limit int) ([]schema.Account, error)
	UpdateAccountPushToken(accountID, token string) error
}

// HelpityStore is the postgres implementation of AccountStore
type HelpityStore struct {
	ormDB *gorm.DB
}

func NewHelpityStore(ormDB *gorm.DB) *HelpityStore {
	return &HelpityStore{
		ormDB: ormDB,
	}
}

// Ping is to check the storage health status
func (s *HelpityStore) Ping() error {
	return s.ormDB.DB().Ping()
}

// CreateAccount registers an account. An id is generated when none is given.
func (s *HelpityStore) CreateAccount(a *schema.Account) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}

	if err := s.ormDB.Create(a).Error; err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrAccountTaken
		}
		log.WithFields(log.Fields{
			"prefix": ormLogPrefix,
			"error":  err,
		}).Error("create account")
		return persistenceError(err)
	}

	return nil
}

// GetAccount returns an account instance of a given account id
func (s *HelpityStore) GetAccount(accountID string) (*schema.Account, error) {
	var a schema.Account
	if err := s.ormDB.Where("id = ?", accountID).First(&a).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, ErrAccountNotFound
		}
		return nil, persistenceError(err)
	}
	return &a, nil
}

// ListAccountsByRole returns at most limit accounts of a role. The order is
// whatever the database returns.
func (s *HelpityStore) ListAccountsByRole(role schema.AccountRole, limit int) ([]schema.Account, error) {
	accounts := make([]schema.Account, 0)
	if err := s.ormDB.Where("role = ?", role).Limit(limit).Find(&accounts).Error; err != nil {
		return nil, persistenceError(err)
	}
	return accounts, nil
}

// UpdateAccountPushToken replaces the push delivery token of an account.
// An empty token unregisters the device.
func (s *HelpityStore) UpdateAccountPushToken(accountID, token string) error {
	result := s.ormDB.Model(&schema.Account{}).
		Where("id = ?", accountID).
		Update("push_token", token)
	if result.Error != nil {
		return persistenceError(result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}

	return nil
}
