package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/secdesk/internal/dbx"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/attachments"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/contacts"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/letters"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/lettertypes"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/procedures"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so the same
// service code runs on the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Types(db dbx.DBTX) lettertypes.Repository
	Procedures(db dbx.DBTX) procedures.Repository
	Contacts(db dbx.DBTX) contacts.Repository
	Letters(db dbx.DBTX) letters.Repository
	Attachments(db dbx.DBTX) attachments.Repository
}
