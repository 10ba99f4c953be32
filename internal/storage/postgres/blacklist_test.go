package postgres

import (
	"context"
	"errors"
	"testing"

	pgxmockv3 "github.com/pashagolub/pgxmock/v3"
)

func TestBlacklistRepository(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &blacklistRepository{storage: storage}
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO blacklist").WithArgs("555-1234").WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	if err := repo.Add(ctx, "555-1234"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectQuery("SELECT number FROM blacklist").WillReturnRows(pgxmockv3.NewRows([]string{"number"}).AddRow("555-1234"))
	numbers, err := repo.List(ctx)
	if err != nil || len(numbers) != 1 || numbers[0] != "555-1234" {
		t.Fatalf("unexpected numbers: %v err=%v", numbers, err)
	}

	mock.ExpectQuery("SELECT EXISTS").WithArgs("555-1234").WillReturnRows(pgxmockv3.NewRows([]string{"exists"}).AddRow(true))
	if ok, err := repo.Contains(ctx, "555-1234"); err != nil || !ok {
		t.Fatalf("expected number to be listed, got %v err=%v", ok, err)
	}

	mock.ExpectExec("DELETE FROM blacklist").WithArgs("555-1234").WillReturnResult(pgxmockv3.NewResult("DELETE", 1))
	if err := repo.Remove(ctx, "555-1234"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectQuery("SELECT number FROM blacklist").WillReturnRows(pgxmockv3.NewRows([]string{"number"}))
	numbers, err = repo.List(ctx)
	if err != nil || len(numbers) != 0 {
		t.Fatalf("expected empty list, got %v err=%v", numbers, err)
	}

	mock.ExpectQuery("SELECT number FROM blacklist").WillReturnError(errors.New("boom"))
	if _, err := repo.List(ctx); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}
