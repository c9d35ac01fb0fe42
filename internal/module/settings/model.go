package settings

import "time"

// DefaultStoreID is the scope every store falls back to.
const DefaultStoreID = 0

// Setting is one stored value. A row for a store other than DefaultStoreID
// overrides the default row with the same name.
type Setting struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	StoreID   int       `gorm:"not null;uniqueIndex:idx_settings_store_name"`
	Name      string    `gorm:"type:varchar(128);not null;uniqueIndex:idx_settings_store_name"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the database table name.
func (Setting) TableName() string {
	return "settings"
}
