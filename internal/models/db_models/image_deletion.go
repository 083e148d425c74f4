package db_models

import "github.com/google/uuid"

// PendingImageDeletion is an object-store delete that failed after the
// change orphaning the object committed. EntityID is the listing or
// account the object belonged to. The reconciler retries these.
type PendingImageDeletion struct {
	BaseModel
	ObjectKey string    `gorm:"uniqueIndex"`
	EntityID  uuid.UUID `gorm:"type:uuid;index"`
	Attempts  int
	LastError string
}
