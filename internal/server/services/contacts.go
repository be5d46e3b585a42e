package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dmitrijs2005/secdesk/internal/server/models"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/query"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/repomanager"
)

// DefaultContactType is used when a contact is saved without one.
const DefaultContactType = "Person"

type ContactService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewContactService(db *sql.DB, m repomanager.RepositoryManager) *ContactService {
	return &ContactService{db: db, repomanager: m}
}

func (s *ContactService) List(ctx context.Context, l query.List) ([]models.Contact, int, error) {
	return s.repomanager.Contacts(s.db).List(ctx, l)
}

func (s *ContactService) Approvers(ctx context.Context) ([]models.Contact, error) {
	return s.repomanager.Contacts(s.db).Approvers(ctx)
}

func (s *ContactService) Get(ctx context.Context, id int64) (*models.Contact, error) {
	return s.repomanager.Contacts(s.db).Get(ctx, id)
}

func (s *ContactService) Create(ctx context.Context, c models.Contact) (*models.Contact, error) {
	if err := validateContact(&c); err != nil {
		return nil, err
	}
	return s.repomanager.Contacts(s.db).Create(ctx, &c)
}

func (s *ContactService) Update(ctx context.Context, c models.Contact) (*models.Contact, error) {
	if err := validateContact(&c); err != nil {
		return nil, err
	}
	if err := s.repomanager.Contacts(s.db).Update(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *ContactService) Delete(ctx context.Context, id int64) error {
	return s.repomanager.Contacts(s.db).Delete(ctx, id)
}

func validateContact(c *models.Contact) error {
	c.Name = strings.TrimSpace(c.Name)
	c.CompanyName = strings.TrimSpace(c.CompanyName)
	if c.ContactType = strings.TrimSpace(c.ContactType); c.ContactType == "" {
		c.ContactType = DefaultContactType
	}
	if c.Name == "" {
		return fieldError("name", "This field may not be blank.")
	}
	return nil
}
