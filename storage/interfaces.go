package storage

import "bungalows-map/models"

// SnapshotWriter is the interface any secondary snapshot backend must
// satisfy. The CSV files are the primary store; backends like Postgres
// mirror the same enriched set.
type SnapshotWriter interface {
	Write(listings []models.Listing) error
	Close() error
}
