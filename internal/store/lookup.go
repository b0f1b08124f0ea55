package store

import "gorm.io/gorm"

// Find resolves a foreign key to its record, if it still exists. Dangling
// references (the target was deleted) come back as ok=false and are shown
// with an "unknown" label, never surfaced as an error.
func Find[T any](db *gorm.DB, id uint) (*T, bool) {
	var rec T
	if err := db.First(&rec, "id = ?", id).Error; err != nil {
		return nil, false
	}
	return &rec, true
}
