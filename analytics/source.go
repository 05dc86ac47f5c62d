package analytics

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"simas/database"
	"simas/model"
)

// UnreachableMessage is the sticky user-facing message shown when the PSB
// backend cannot be reached.
const UnreachableMessage = "Backend PSB service tidak dapat dijangkau"

var (
	// ErrNoData marks a successful fetch that carried zero orders. Distinct
	// from a real failure: callers stay silent instead of toasting.
	ErrNoData = errors.New("no_data")

	// ErrUnreachable marks transport-level failures and 5xx responses.
	ErrUnreachable = errors.New(UnreachableMessage)
)

// Source produces the PSB analytics aggregate. The manager does not care
// whether it comes from the local database or the upstream PSB backend.
type Source interface {
	FetchAnalytics(ctx context.Context) (*model.PSBAnalytics, error)
}

// DBSource aggregates directly from the local psb_orders table.
type DBSource struct {
	db *sqlx.DB
}

func NewDBSource(db *sqlx.DB) *DBSource {
	return &DBSource{db: db}
}

func (s *DBSource) FetchAnalytics(ctx context.Context) (*model.PSBAnalytics, error) {
	return database.GetPSBAnalytics(ctx, s.db)
}
