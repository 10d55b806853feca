package model

import "time"

// Client is a registered back-office customer.
type Client struct {
	ID        string    `gorm:"primaryKey;size:36"`
	FullName  string    `gorm:"not null;size:200"`
	Email     string    `gorm:"size:320;index"`
	Phone     string    `gorm:"size:32"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Vehicle is a licensed vehicle owned by a client.
type Vehicle struct {
	ID               string    `gorm:"primaryKey;size:36"`
	ClientID         string    `gorm:"index;not null;size:36"`
	PlateNumber      string    `gorm:"not null;size:16;index"`
	Make             string    `gorm:"size:100"`
	Model            string    `gorm:"size:100"`
	LicenseExpiresAt time.Time `gorm:"index"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

// ServiceOrder is one unit of licensing work moving through the office.
type ServiceOrder struct {
	ID          string    `gorm:"primaryKey;size:36"`
	ClientID    string    `gorm:"index;not null;size:36"`
	VehicleID   string    `gorm:"index;size:36"`
	ServiceName string    `gorm:"not null;size:200"`
	Status      string    `gorm:"not null;size:32;index"`
	PriceCents  int64     `gorm:"not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// Service order workflow statuses.
const (
	OrderStatusPending    = "pending"
	OrderStatusInProgress = "in_progress"
	OrderStatusReady      = "ready"
	OrderStatusDelivered  = "delivered"
)
