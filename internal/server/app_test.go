package server

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/secdesk/internal/server/config"
	"github.com/stretchr/testify/require"
)

func TestNewApp_OpenError(t *testing.T) {
	orig := openDB
	defer func() { openDB = orig }()
	openDB = func(string) (*sql.DB, error) { return nil, errors.New("bad dsn") }

	cfg := &config.Config{}
	cfg.LoadDefaults()

	_, err := NewApp(context.Background(), cfg)
	require.ErrorContains(t, err, "db init error: bad dsn")
}

func TestNewApp_PingError(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectClose()

	orig := openDB
	defer func() { openDB = orig }()
	openDB = func(string) (*sql.DB, error) { return db, nil }

	cfg := &config.Config{}
	cfg.LoadDefaults()

	_, err = NewApp(context.Background(), cfg)
	require.ErrorContains(t, err, "db ping error: connection refused")
	require.NoError(t, mock.ExpectationsWereMet())
}
