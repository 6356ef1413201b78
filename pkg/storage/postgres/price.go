package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cryptoticker/internal/ticker"

	"gorm.io/gorm/clause"
)

// ErrDuplicatePrice is returned when a snapshot for the same asset and
// upstream timestamp is already stored.
var ErrDuplicatePrice = errors.New("duplicate price skipped")

func (p *PostgresClient) InsertPrice(ctx context.Context, record *PriceRecord) error {
	tx := p.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "asset_id"},
			{Name: "last_updated"},
		},
		DoNothing: true,
	}).Create(record)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return fmt.Errorf("%w: asset=%s last_updated=%s", ErrDuplicatePrice, record.AssetID, record.LastUpdated)
	}

	return nil
}

// SavePrice archives c; already-stored snapshots are not an error.
func (p *PostgresClient) SavePrice(ctx context.Context, c *ticker.Currency, recordedAt time.Time) error {
	err := p.InsertPrice(ctx, ToPriceRecord(c, recordedAt))
	if errors.Is(err, ErrDuplicatePrice) {
		return nil
	}
	return err
}

// DeleteOldPrices removes rows recorded before the cutoff.
func (p *PostgresClient) DeleteOldPrices(ctx context.Context, before time.Time) error {
	return p.DB.WithContext(ctx).
		Where("recorded_at < ?", before).
		Delete(&PriceRecord{}).Error
}

// ToPriceRecord converts a snapshot into a PriceRecord for DB insertion.
// A missing upstream timestamp is stored as "null" so the unique index still applies.
func ToPriceRecord(c *ticker.Currency, recordedAt time.Time) *PriceRecord {
	lastUpdated := ticker.NullMarker
	if c.LastUpdated != nil {
		lastUpdated = *c.LastUpdated
	}

	return &PriceRecord{
		AssetID:          c.ID,
		LastUpdated:      lastUpdated,
		Name:             c.Name,
		Symbol:           c.Symbol,
		Rank:             c.Rank,
		PriceUSD:         c.PriceUSD,
		PriceBTC:         c.PriceBTC,
		VolumeUSD24h:     c.VolumeUSD24h,
		MarketCapUSD:     c.MarketCapUSD,
		AvailableSupply:  c.AvailableSupply,
		TotalSupply:      c.TotalSupply,
		PercentChange1h:  c.PercentChange1h,
		PercentChange24h: c.PercentChange24h,
		PercentChange7d:  c.PercentChange7d,
		RecordedAt:       recordedAt,
	}
}
