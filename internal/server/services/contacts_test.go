package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/secdesk/internal/common"
	"github.com/dmitrijs2005/secdesk/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactService_Create(t *testing.T) {
	ctx := context.Background()
	repos := newMemRepos()
	s := NewContactService(nil, repos)

	_, err := s.Create(ctx, models.Contact{CompanyName: "ACME"})
	require.ErrorIs(t, err, common.ErrorValidation)

	c, err := s.Create(ctx, models.Contact{Name: " Ahmed ", CompanyName: " ACME "})
	require.NoError(t, err)
	assert.Equal(t, "Ahmed", c.Name)
	assert.Equal(t, "ACME", c.CompanyName)
	assert.Equal(t, DefaultContactType, c.ContactType)

	c, err = s.Create(ctx, models.Contact{Name: "Legal", ContactType: "Department", IsApprover: true})
	require.NoError(t, err)
	assert.Equal(t, "Department", c.ContactType)
	assert.Len(t, repos.contacts, 2)
}
