package usage

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/bibliosophia/internal/models"
)

// Ledger persists one UsageEntry per successful pipeline run.
type Ledger interface {
	// Record appends e and prunes the ledger to the newest MaxEntries rows.
	Record(ctx context.Context, e models.UsageEntry) error
	// Entries returns every stored entry, newest first.
	Entries(ctx context.Context) ([]models.UsageEntry, error)
	// Report totals the entries recorded at or after since.
	Report(ctx context.Context, since time.Time) (Report, error)
	// Export writes every entry to an xlsx workbook at path.
	Export(ctx context.Context, path string) error
	Close() error
}

// Report aggregates a set of usage entries.
type Report struct {
	Videos     int
	CostUSD    float64
	Tokens     uint64
	Minutes    float64
	ByProvider map[string]ProviderTotals
}

// ProviderTotals is the share of one summary provider in a Report.
type ProviderTotals struct {
	Videos  int
	CostUSD float64
	Tokens  uint64
}
