package postgres

import "time"

// PriceRecord is one archived ticker snapshot. Market fields stay as upstream text.
type PriceRecord struct {
	ID uint `gorm:"primaryKey"`

	// unique index
	AssetID     string `gorm:"type:text;not null;index:idx_price_asset;index:idx_asset_last_updated,unique"`
	LastUpdated string `gorm:"type:text;not null;index:idx_asset_last_updated,unique"`

	Name   string `gorm:"type:text;not null"`
	Symbol string `gorm:"type:varchar(32);not null"`
	Rank   string `gorm:"type:varchar(16);not null"`

	PriceUSD         *string `gorm:"type:text"`
	PriceBTC         *string `gorm:"type:text"`
	VolumeUSD24h     *string `gorm:"type:text"`
	MarketCapUSD     *string `gorm:"type:text"`
	AvailableSupply  *string `gorm:"type:text"`
	TotalSupply      *string `gorm:"type:text"`
	PercentChange1h  *string `gorm:"type:text"`
	PercentChange24h *string `gorm:"type:text"`
	PercentChange7d  *string `gorm:"type:text"`

	RecordedAt time.Time `gorm:"not null;index:idx_price_recorded_at"`
}

// TableName overrides the default table name for GORM.
func (PriceRecord) TableName() string {
	return "price_record"
}
