package database

import (
	"context"
	"errors"
	"testing"

	"moola-wars-bot/internal/store"

	"github.com/shopspring/decimal"
)

func TestAdjustPoints_Credit(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	insertRow(t, service, "user1", "0xabc", "10", "")

	balance, err := service.AdjustPoints(context.Background(), "user1", decimal.NewFromInt(5))
	if err != nil {
		t.Fatalf("AdjustPoints failed: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(15)) {
		t.Errorf("Expected balance 15, got %s", balance.String())
	}
}

func TestAdjustPoints_FineClampsAtZero(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	insertRow(t, service, "user1", "0xabc", "10", "")

	balance, err := service.AdjustPoints(context.Background(), "user1", decimal.NewFromInt(-25))
	if err != nil {
		t.Fatalf("AdjustPoints failed: %v", err)
	}
	if !balance.Equal(decimal.Zero) {
		t.Errorf("Expected balance clamped to 0, got %s", balance.String())
	}
}

func TestAdjustPoints_NotFound(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := service.AdjustPoints(context.Background(), "missing", decimal.NewFromInt(5))
	if !errors.Is(err, store.ErrRecordNotFound) {
		t.Errorf("Expected ErrRecordNotFound, got %v", err)
	}
}

func TestAdjustPoints_TargetsCanonicalRow(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	// Duplicate rows: the adjustment must land on the linked row, not the
	// bare one with more points.
	insertRow(t, service, "user1", "", "500", "")
	insertRow(t, service, "user1", "0xabc", "10", "")

	balance, err := service.AdjustPoints(context.Background(), "user1", decimal.NewFromInt(5))
	if err != nil {
		t.Fatalf("AdjustPoints failed: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(15)) {
		t.Errorf("Expected 15 on the linked row, got %s", balance.String())
	}

	rec, err := service.GetRecord(context.Background(), "user1")
	if err != nil {
		t.Fatalf("GetRecord failed: %v", err)
	}
	if !rec.Points.Equal(decimal.NewFromInt(15)) {
		t.Errorf("Expected canonical row updated to 15, got %s", rec.Points.String())
	}
}

func TestAdjustPoints_DecimalDelta(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	insertRow(t, service, "user1", "0xabc", "0.5", "")

	balance, err := service.AdjustPoints(context.Background(), "user1", decimal.RequireFromString("0.25"))
	if err != nil {
		t.Fatalf("AdjustPoints failed: %v", err)
	}
	if !balance.Equal(decimal.RequireFromString("0.75")) {
		t.Errorf("Expected 0.75, got %s", balance.String())
	}
}
