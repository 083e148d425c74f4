package db_models

import (
	"time"

	"github.com/lib/pq"
)

type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "active"
	AccountStatusSuspended AccountStatus = "suspended"
)

type SubscriptionStatus string

const (
	SubStatusNone    SubscriptionStatus = "none"
	SubStatusActive  SubscriptionStatus = "active"
	SubStatusExpired SubscriptionStatus = "expired"
)

// SubscriptionSnapshot is the denormalised copy of the chosen package
// kept on the account row.
type SubscriptionSnapshot struct {
	PackageID     string             `gorm:"size:32"`
	PlanName      string             `gorm:"size:64"`
	ListingsUsed  int                `gorm:"default:0"`
	ListingsTotal int                `gorm:"default:0"`
	Status        SubscriptionStatus `gorm:"size:16;default:none"`
	PeriodStart   int64
}

// RollOver starts a new monthly period when the current one has elapsed.
// It reports whether the snapshot changed.
func (s *SubscriptionSnapshot) RollOver(now time.Time) bool {
	if s.Status != SubStatusActive || s.PeriodStart <= 0 {
		return false
	}
	start := time.Unix(s.PeriodStart, 0).UTC()
	next := start.AddDate(0, 1, 0)
	if now.Before(next) {
		return false
	}
	for !now.Before(next.AddDate(0, 1, 0)) {
		next = next.AddDate(0, 1, 0)
	}
	s.PeriodStart = next.Unix()
	s.ListingsUsed = 0
	return true
}

func (s *SubscriptionSnapshot) HasQuota() bool {
	return s.Status == SubStatusActive && s.ListingsUsed < s.ListingsTotal
}

// Account covers buyers, agents and agencies, told apart by Kind.
type Account struct {
	BaseModel
	Kind         string `gorm:"size:16;index"`
	Name         string
	Email        string `gorm:"unique"`
	PasswordHash string
	FirebaseUID  string `gorm:"index"`
	Phone        string
	Bio          string `gorm:"type:text"`
	AvatarURL    string
	CompanyName  string
	LicenseNo    string
	Website      string
	Status       AccountStatus `gorm:"size:16;default:active"`

	SavedListingIDs pq.StringArray       `gorm:"type:text[]"`
	Subscription    SubscriptionSnapshot `gorm:"embedded;embeddedPrefix:subscription_"`
}
