package sweeper

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jonesrussell/llmsgen/internal/logger"
	"github.com/jonesrussell/llmsgen/internal/storage"
)

func TestNewRejectsInvalidSchedule(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := storage.NewRunStore(db, logger.NewNop())

	if _, err := New(store, "not a cron spec", logger.NewNop()); err == nil {
		t.Fatal("New() = nil error for invalid schedule")
	}
}

func TestSweepDeletesExpiredRuns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := storage.NewRunStore(db, logger.NewNop())

	s, err := New(store, "@hourly", logger.NewNop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	mock.ExpectExec("DELETE FROM runs").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 5))

	s.sweep()

	if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
		t.Errorf("unfulfilled expectations: %v", expectErr)
	}
}

func TestStartStop(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := storage.NewRunStore(db, logger.NewNop())

	s, err := New(store, "@hourly", logger.NewNop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	s.Start()
	s.Stop()
}
