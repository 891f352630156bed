package model

import "time"

// KVEntry is one client-local key, the server-side stand-in for browser storage.
type KVEntry struct {
	ClientID  string `gorm:"primaryKey;size:64;not null"`
	Key       string `gorm:"primaryKey;size:64;not null"`
	Value     string `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type AttemptStatus string

const (
	AttemptInitiated      AttemptStatus = "initiated"
	AttemptProcessing     AttemptStatus = "processing"
	AttemptSuccess        AttemptStatus = "success"
	AttemptFailed         AttemptStatus = "failed"
	AttemptFinalizeFailed AttemptStatus = "finalize_failed"
)

// PaymentAttempt is the audit record of one push-payment.
type PaymentAttempt struct {
	ID                uint   `gorm:"primaryKey"`
	ClientID          string `gorm:"size:64;index;not null"`
	CheckoutRequestID string `gorm:"size:128;index"`
	ItemType          string `gorm:"size:16;not null"`
	ItemID            string `gorm:"size:64;not null"`
	PhoneNumber       string `gorm:"size:16;not null"`
	Amount            int64  `gorm:"not null"`
	Status            string `gorm:"size:32;index;not null"`
	Attempts          int    `gorm:"not null"`
	OrderID           string `gorm:"size:64"`
	FailureReason     string `gorm:"size:255"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
