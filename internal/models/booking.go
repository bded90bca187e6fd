package models

import (
	"time"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

type Booking struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	PackageID       uint           `json:"package_id" gorm:"not null;index"`
	Package         *TravelPackage `json:"-" gorm:"foreignKey:PackageID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	UserName        string         `json:"user_name" gorm:"size:255;not null"`
	Email           string         `json:"email" gorm:"size:255;not null"`
	Phone           *string        `json:"phone" gorm:"size:20"`
	Travelers       int            `json:"travelers" gorm:"not null"`
	TravelDate      Date           `json:"travel_date" gorm:"not null"`
	SpecialRequests *string        `json:"special_requests" gorm:"type:text"`
	Status          BookingStatus  `json:"status" gorm:"size:16;not null;default:pending;check:status IN ('pending','confirmed','cancelled')"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func (Booking) TableName() string {
	return "bookings"
}
