package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrInvalidPackage = errors.New("invalid travel package")

type TravelPackage struct {
	ID          uint     `json:"id" gorm:"primaryKey"`
	Destination string   `json:"destination" gorm:"size:255;not null"`
	Description string   `json:"description" gorm:"type:text"`
	Price       float64  `json:"price" gorm:"type:decimal(10,2);not null"`
	Rating      float64  `json:"rating" gorm:"type:decimal(3,2);default:0;index"`
	StartDate   Date     `json:"start_date"`
	EndDate     Date     `json:"end_date"`
	Duration    int      `json:"duration" gorm:"not null"`
	ImageURL    string   `json:"image_url" gorm:"size:255"`
	Facilities  []string `json:"facilities" gorm:"-"`

	// RawFacilities is the stored JSON text behind Facilities.
	RawFacilities datatypes.JSON `json:"-" gorm:"column:facilities"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TravelPackage) TableName() string {
	return "travel_packages"
}

// DecodeFacilities parses a stored facilities blob. Absent or malformed JSON yields an empty list.
func DecodeFacilities(raw []byte) []string {
	facilities := []string{}
	if len(raw) == 0 {
		return facilities
	}
	if err := json.Unmarshal(raw, &facilities); err != nil || facilities == nil {
		return []string{}
	}
	return facilities
}

func EncodeFacilities(facilities []string) (datatypes.JSON, error) {
	if facilities == nil {
		facilities = []string{}
	}
	b, err := json.Marshal(facilities)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

func (p *TravelPackage) Validate() error {
	switch {
	case strings.TrimSpace(p.Destination) == "":
		return fmt.Errorf("%w: destination is required", ErrInvalidPackage)
	case p.Price < 0:
		return fmt.Errorf("%w: price must not be negative", ErrInvalidPackage)
	case p.Rating < 0 || p.Rating > 5:
		return fmt.Errorf("%w: rating must be between 0 and 5", ErrInvalidPackage)
	case p.Duration <= 0:
		return fmt.Errorf("%w: duration must be positive", ErrInvalidPackage)
	case !p.StartDate.IsZero() && !p.EndDate.IsZero() && p.EndDate.Before(p.StartDate.Time):
		return fmt.Errorf("%w: end_date is before start_date", ErrInvalidPackage)
	}
	return nil
}

func (p *TravelPackage) BeforeSave(tx *gorm.DB) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Facilities != nil || len(p.RawFacilities) == 0 {
		raw, err := EncodeFacilities(p.Facilities)
		if err != nil {
			return err
		}
		p.RawFacilities = raw
	}
	return nil
}

func (p *TravelPackage) AfterFind(tx *gorm.DB) error {
	p.Facilities = DecodeFacilities(p.RawFacilities)
	return nil
}
