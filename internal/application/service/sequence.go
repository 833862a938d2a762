package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nirmalkarki/udharo-api/internal/domain/enum"
	"github.com/nirmalkarki/udharo-api/internal/domain/repository"
)

// fallbackStoreName prefixes generated numbers when the store row is
// missing, matching numbers already issued against deleted stores.
const fallbackStoreName = "STORE"

// SequenceGenerator produces the next human-readable document number
// for a store and calendar year: STORENAME-2025-00001 for bills,
// STORENAME-ORD-2025-00001 for orders.
//
// The store name is resolved at generation time, so renaming a store
// mid-year changes the prefix of subsequent numbers while older numbers
// keep theirs. Next must run inside the same transaction as the insert
// of the numbered document; the per-business unique index on the number
// turns a concurrent race into a conflict the coordinator retries.
type SequenceGenerator struct {
	storeRepo repository.StoreRepository
	billRepo  repository.BillRepository
	orderRepo repository.OrderRepository
	now       func() time.Time
}

// NewSequenceGenerator creates a new document number generator
func NewSequenceGenerator(storeRepo repository.StoreRepository, billRepo repository.BillRepository, orderRepo repository.OrderRepository) *SequenceGenerator {
	return &SequenceGenerator{
		storeRepo: storeRepo,
		billRepo:  billRepo,
		orderRepo: orderRepo,
		now:       time.Now,
	}
}

// Next returns the next document number for the store and the current
// calendar year.
func (g *SequenceGenerator) Next(ctx context.Context, storeID uuid.UUID, kind enum.DocumentKind) (string, error) {
	year := g.now().Year()

	storeName := fallbackStoreName
	store, err := g.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return "", err
	}
	if store != nil {
		storeName = store.Name
	}

	var last string
	switch kind {
	case enum.DocumentKindOrder:
		last, err = g.orderRepo.LastNumberForYear(ctx, storeID, year)
	default:
		last, err = g.billRepo.LastNumberForYear(ctx, storeID, year)
	}
	if err != nil {
		return "", err
	}

	seq := nextSequence(last)

	if kind == enum.DocumentKindOrder {
		return fmt.Sprintf("%s-ORD-%d-%05d", storeName, year, seq), nil
	}
	return fmt.Sprintf("%s-%d-%05d", storeName, year, seq), nil
}

// nextSequence parses the numeric segment after the last dash of the
// most recent number and increments it. A missing or malformed number
// degrades to sequence 1; the malformed case is logged because it can
// silently restart numbering after data corruption.
func nextSequence(last string) int {
	if last == "" {
		return 1
	}
	parts := strings.Split(last, "-")
	tail := parts[len(parts)-1]
	n, err := strconv.Atoi(tail)
	if err != nil || n < 0 {
		log.Printf("Warning: malformed document number %q, restarting sequence at 1", last)
		return 1
	}
	return n + 1
}
