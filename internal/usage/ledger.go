package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/bibliosophia/internal/models"
)

func (l *implLedger) Record(ctx context.Context, e models.UsageEntry) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO usage_entries (id, timestamp, video_title, video_url, transcription_provider,
		 summary_provider, audio_duration_seconds, tokens_used, cost_usd)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Timestamp, e.VideoTitle, e.VideoURL, e.TranscriptionProvider,
		e.SummaryProvider, e.AudioDurationSeconds, e.TokensUsed, e.CostUSD,
	); err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM usage_entries WHERE rowid NOT IN (
		 SELECT rowid FROM usage_entries ORDER BY timestamp DESC, rowid DESC LIMIT ?)`,
		l.maxEntries,
	); err != nil {
		return fmt.Errorf("prune entries: %w", err)
	}

	return tx.Commit()
}

func (l *implLedger) Entries(ctx context.Context) ([]models.UsageEntry, error) {
	return l.query(ctx, "")
}

func (l *implLedger) Report(ctx context.Context, since time.Time) (Report, error) {
	entries, err := l.query(ctx, since.UTC().Format(time.RFC3339))
	if err != nil {
		return Report{}, err
	}
	return Summarize(entries), nil
}

// query lists entries newest first, limited to timestamps >= since when set.
// Timestamps are RFC 3339 UTC, so text order is time order.
func (l *implLedger) query(ctx context.Context, since string) ([]models.UsageEntry, error) {
	q := `SELECT id, timestamp, video_title, video_url, transcription_provider, summary_provider,
	      audio_duration_seconds, tokens_used, cost_usd FROM usage_entries`
	var args []interface{}
	if since != "" {
		q += ` WHERE timestamp >= ?`
		args = append(args, since)
	}
	q += ` ORDER BY timestamp DESC, rowid DESC`

	rows, err := l.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var out []models.UsageEntry
	for rows.Next() {
		var e models.UsageEntry
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.VideoTitle, &e.VideoURL, &e.TranscriptionProvider,
			&e.SummaryProvider, &e.AudioDurationSeconds, &e.TokensUsed, &e.CostUSD); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	return out, nil
}

// Summarize totals entries, grouping cost and tokens by summary provider.
func Summarize(entries []models.UsageEntry) Report {
	r := Report{ByProvider: make(map[string]ProviderTotals)}
	for _, e := range entries {
		r.Videos++
		r.CostUSD += e.CostUSD
		r.Tokens += uint64(e.TokensUsed)
		r.Minutes += float64(e.AudioDurationSeconds) / 60

		p := r.ByProvider[e.SummaryProvider]
		p.Videos++
		p.CostUSD += e.CostUSD
		p.Tokens += uint64(e.TokensUsed)
		r.ByProvider[e.SummaryProvider] = p
	}
	return r
}

// MonthStart returns the first instant of t's month in t's location.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
