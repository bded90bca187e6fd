// Package seed loads a YAML catalog of travel packages into the store.
package seed

import (
	"context"
	"fmt"
	"os"

	"github.com/gdg-garage/travel-booking/internal/models"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

type Catalog struct {
	Packages []PackageEntry `yaml:"packages"`
}

type PackageEntry struct {
	Destination string      `yaml:"destination"`
	Description string      `yaml:"description"`
	Price       float64     `yaml:"price"`
	Rating      float64     `yaml:"rating"`
	StartDate   models.Date `yaml:"start_date"`
	EndDate     models.Date `yaml:"end_date"`
	Duration    int         `yaml:"duration"`
	ImageURL    string      `yaml:"image_url"`
	Facilities  []string    `yaml:"facilities"`
}

func (e PackageEntry) Package() models.TravelPackage {
	facilities := e.Facilities
	if facilities == nil {
		facilities = []string{}
	}
	return models.TravelPackage{
		Destination: e.Destination,
		Description: e.Description,
		Price:       e.Price,
		Rating:      e.Rating,
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
		Duration:    e.Duration,
		ImageURL:    e.ImageURL,
		Facilities:  facilities,
	}
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return &c, nil
}

func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Insert stores every package of the catalog in a single transaction.
// Nothing is written when any package fails validation.
func Insert(ctx context.Context, db *gorm.DB, c *Catalog) ([]models.TravelPackage, error) {
	packages := make([]models.TravelPackage, 0, len(c.Packages))
	for _, entry := range c.Packages {
		packages = append(packages, entry.Package())
	}
	if len(packages) == 0 {
		return packages, nil
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range packages {
			if err := tx.Create(&packages[i]).Error; err != nil {
				return fmt.Errorf("insert package %q: %w", packages[i].Destination, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return packages, nil
}
