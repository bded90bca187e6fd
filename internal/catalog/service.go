package catalog

import (
	"context"
	"errors"

	"github.com/gdg-garage/travel-booking/internal/metrics"
	"github.com/gdg-garage/travel-booking/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FeaturedCache stores the featured list between requests.
type FeaturedCache interface {
	Get(ctx context.Context) ([]models.TravelPackage, bool, error)
	Set(ctx context.Context, packages []models.TravelPackage) error
}

// BookingNotifier is told about every booking that was stored.
type BookingNotifier interface {
	NotifyBooking(booking models.Booking, pkg models.TravelPackage) error
}

type Service struct {
	db       *gorm.DB
	log      zerolog.Logger
	validate *validator.Validate
	cache    FeaturedCache
	notifier BookingNotifier
}

type Option func(*Service)

func WithFeaturedCache(c FeaturedCache) Option {
	return func(s *Service) { s.cache = c }
}

func WithNotifier(n BookingNotifier) Option {
	return func(s *Service) { s.notifier = n }
}

func NewService(db *gorm.DB, log zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		db:       db,
		log:      log.With().Str("component", "catalog").Logger(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PackagePage is one slice of the catalog plus the size of the whole catalog.
type PackagePage struct {
	Packages []models.TravelPackage
	Total    int64
}

// ListPackages returns the packages at offset (page-1)*limit in primary key order.
func (s *Service) ListPackages(ctx context.Context, page, limit int) (PackagePage, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.TravelPackage{}).Count(&total).Error; err != nil {
		return PackagePage{}, storeError("count packages", err)
	}

	packages := []models.TravelPackage{}
	err := s.db.WithContext(ctx).
		Order("id ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&packages).Error
	if err != nil {
		return PackagePage{}, storeError("list packages", err)
	}
	return PackagePage{Packages: packages, Total: total}, nil
}

// SearchPackages returns every package satisfying all supplied filters.
func (s *Service) SearchPackages(ctx context.Context, f SearchFilters) ([]models.TravelPackage, error) {
	q := s.db.WithContext(ctx).Model(&models.TravelPackage{})

	if f.Destination != "" {
		q = q.Where("LOWER(destination) LIKE LOWER(?)", "%"+f.Destination+"%")
	}
	if f.StartDate != nil && f.EndDate != nil {
		q = q.Where("start_date >= ? AND end_date <= ?", *f.StartDate, *f.EndDate)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.MinRating != nil {
		q = q.Where("rating >= ?", *f.MinRating)
	}

	packages := []models.TravelPackage{}
	if err := q.Order("id ASC").Find(&packages).Error; err != nil {
		return nil, storeError("search packages", err)
	}
	return packages, nil
}

func (s *Service) GetPackage(ctx context.Context, id uint) (*models.TravelPackage, error) {
	var pkg models.TravelPackage
	err := s.db.WithContext(ctx).First(&pkg, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPackageNotFound
	}
	if err != nil {
		return nil, storeError("get package", err)
	}
	return &pkg, nil
}

// FeaturedPackages returns at most five packages rated 4.5 or higher, best first.
func (s *Service) FeaturedPackages(ctx context.Context) ([]models.TravelPackage, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("featured cache read failed")
		} else if ok {
			return cached, nil
		}
	}

	packages := []models.TravelPackage{}
	err := s.db.WithContext(ctx).
		Where("rating >= ?", FeaturedMinRating).
		Order("rating DESC").
		Order("id ASC").
		Limit(FeaturedLimit).
		Find(&packages).Error
	if err != nil {
		return nil, storeError("featured packages", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, packages); err != nil {
			s.log.Warn().Err(err).Msg("featured cache write failed")
		}
	}
	return packages, nil
}

// CreateBooking stores a pending booking for an existing package.
func (s *Service) CreateBooking(ctx context.Context, req BookingRequest) (*models.Booking, error) {
	req.normalize()
	if err := s.validateBooking(req); err != nil {
		return nil, err
	}

	travelDate, err := models.ParseDate(req.TravelDate)
	if err != nil {
		return nil, &ValidationError{Message: "travel_date must be a date in YYYY-MM-DD format"}
	}

	pkg, err := s.GetPackage(ctx, uint(req.PackageID))
	if err != nil {
		return nil, err
	}

	booking := models.Booking{
		PackageID:       pkg.ID,
		UserName:        req.UserName,
		Email:           req.Email,
		Phone:           req.Phone,
		Travelers:       int(req.Travelers),
		TravelDate:      travelDate,
		SpecialRequests: req.SpecialRequests,
		Status:          models.BookingPending,
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&booking).Error; err != nil {
		return nil, storeError("create booking", err)
	}
	booking.Package = pkg
	metrics.IncBookingCreated()

	if s.notifier != nil {
		if err := s.notifier.NotifyBooking(booking, *pkg); err != nil {
			s.log.Warn().Err(err).Uint("booking_id", booking.ID).Msg("booking notification failed")
		}
	}
	return &booking, nil
}

func (s *Service) validateBooking(req BookingRequest) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{Message: err.Error()}
	}
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return &ValidationError{Message: "Missing required fields"}
		}
	}
	return &ValidationError{Message: "travelers must be a positive integer"}
}
