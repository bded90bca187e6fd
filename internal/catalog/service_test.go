package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/gdg-garage/travel-booking/internal/config"
	"github.com/gdg-garage/travel-booking/internal/database"
	"github.com/gdg-garage/travel-booking/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := &config.Config{DBDriver: config.DriverSQLite, DatabasePath: ":memory:", DBMaxOpenConns: 10}
	db, err := database.Connect(cfg, zerolog.Nop())
	require.NoError(t, err)
	return db
}

// seedPackages inserts a fixed catalog; ids are 1..7 in this order.
func seedPackages(t *testing.T, db *gorm.DB) []models.TravelPackage {
	t.Helper()
	packages := []models.TravelPackage{
		{Destination: "Paris, France", Description: "City of light", Price: 1500, Rating: 4.7, Duration: 5,
			StartDate: models.NewDate(2025, 6, 1), EndDate: models.NewDate(2025, 6, 6), Facilities: []string{"wifi", "breakfast"}},
		{Destination: "Bali, Indonesia", Description: "Beaches", Price: 900, Rating: 4.9, Duration: 7,
			StartDate: models.NewDate(2025, 7, 1), EndDate: models.NewDate(2025, 7, 8), Facilities: []string{"pool"}},
		{Destination: "Oslo, Norway", Description: "Fjords", Price: 2100, Rating: 4.1, Duration: 4,
			StartDate: models.NewDate(2025, 8, 10), EndDate: models.NewDate(2025, 8, 14)},
		{Destination: "Rome, Italy", Description: "History", Price: 1200, Rating: 4.5, Duration: 6,
			StartDate: models.NewDate(2025, 6, 3), EndDate: models.NewDate(2025, 6, 9)},
		{Destination: "Cairo, Egypt", Description: "Pyramids", Price: 700, Rating: 3.8, Duration: 5,
			StartDate: models.NewDate(2025, 10, 1), EndDate: models.NewDate(2025, 10, 6)},
		{Destination: "Kyoto, Japan", Description: "Temples", Price: 1800, Rating: 4.8, Duration: 8,
			StartDate: models.NewDate(2025, 4, 1), EndDate: models.NewDate(2025, 4, 9)},
		{Destination: "Santorini, Greece", Description: "Sunsets", Price: 1600, Rating: 4.6, Duration: 5,
			StartDate: models.NewDate(2025, 9, 1), EndDate: models.NewDate(2025, 9, 6)},
	}
	require.NoError(t, db.Create(&packages).Error)
	return packages
}

func ids(packages []models.TravelPackage) []uint {
	out := make([]uint, 0, len(packages))
	for _, p := range packages {
		out = append(out, p.ID)
	}
	return out
}

func TestListPackages(t *testing.T) {
	db := newTestDB(t)
	seedPackages(t, db)
	svc := NewService(db, zerolog.Nop())
	ctx := context.Background()

	tests := []struct {
		name        string
		page, limit int
		want        []uint
	}{
		{"FirstPage", 1, 3, []uint{1, 2, 3}},
		{"SecondPage", 2, 3, []uint{4, 5, 6}},
		{"PartialLastPage", 3, 3, []uint{7}},
		{"PastTheEnd", 4, 3, []uint{}},
		{"Defaults", 0, 0, []uint{1, 2, 3, 4, 5, 6, 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.ListPackages(ctx, tt.page, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(page.Packages))
			assert.Equal(t, int64(7), page.Total)
			assert.LessOrEqual(t, len(page.Packages), max(tt.limit, DefaultLimit))
		})
	}
}

func TestSearchPackages(t *testing.T) {
	db := newTestDB(t)
	seedPackages(t, db)
	svc := NewService(db, zerolog.Nop())
	ctx := context.Background()

	tests := []struct {
		name  string
		query SearchQuery
		want  []uint
	}{
		{"NoFilters", SearchQuery{}, []uint{1, 2, 3, 4, 5, 6, 7}},
		{"DestinationCaseInsensitive", SearchQuery{Destination: "pARis"}, []uint{1}},
		{"DestinationPartial", SearchQuery{Destination: "a"}, []uint{1, 2, 3, 4, 5, 6, 7}},
		{"DestinationNoMatch", SearchQuery{Destination: "Atlantis"}, []uint{}},
		{"DateRange", SearchQuery{StartDate: "2025-06-01", EndDate: "2025-06-30"}, []uint{1, 4}},
		{"DateRangeNeedsBothEnds", SearchQuery{StartDate: "2025-06-01"}, []uint{1, 2, 3, 4, 5, 6, 7}},
		{"InvalidDateIgnored", SearchQuery{StartDate: "June", EndDate: "2025-06-30"}, []uint{1, 2, 3, 4, 5, 6, 7}},
		{"PriceRange", SearchQuery{MinPrice: "1000", MaxPrice: "1600"}, []uint{1, 4, 7}},
		{"MinRating", SearchQuery{MinRating: "4.7"}, []uint{1, 2, 6}},
		{"NonNumericIgnored", SearchQuery{MinPrice: "cheap", MaxPrice: "NaN", MinRating: "high"}, []uint{1, 2, 3, 4, 5, 6, 7}},
		{"Combined", SearchQuery{Destination: "i", MaxPrice: "1600", MinRating: "4.5"}, []uint{1, 2, 4, 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := ParseFilters(tt.query)
			got, err := svc.SearchPackages(ctx, f)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))

			for _, p := range got {
				if f.MinPrice != nil {
					assert.GreaterOrEqual(t, p.Price, *f.MinPrice)
				}
				if f.MaxPrice != nil {
					assert.LessOrEqual(t, p.Price, *f.MaxPrice)
				}
				if f.MinRating != nil {
					assert.GreaterOrEqual(t, p.Rating, *f.MinRating)
				}
				if f.StartDate != nil {
					assert.False(t, p.StartDate.Before(f.StartDate.Time))
					assert.False(t, p.EndDate.After(f.EndDate.Time))
				}
			}
		})
	}
}

func TestGetPackage(t *testing.T) {
	db := newTestDB(t)
	seedPackages(t, db)
	svc := NewService(db, zerolog.Nop())
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		pkg, err := svc.GetPackage(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Paris, France", pkg.Destination)
		assert.Equal(t, []string{"wifi", "breakfast"}, pkg.Facilities)
		assert.Equal(t, "2025-06-01", pkg.StartDate.String())
	})

	t.Run("NoFacilities", func(t *testing.T) {
		pkg, err := svc.GetPackage(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, []string{}, pkg.Facilities)
	})

	t.Run("MalformedFacilities", func(t *testing.T) {
		require.NoError(t, db.Exec("UPDATE travel_packages SET facilities = ? WHERE id = ?", `["wifi",`, 4).Error)
		pkg, err := svc.GetPackage(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, []string{}, pkg.Facilities)
	})

	t.Run("NullFacilities", func(t *testing.T) {
		require.NoError(t, db.Exec("UPDATE travel_packages SET facilities = NULL WHERE id = ?", 5).Error)
		pkg, err := svc.GetPackage(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, []string{}, pkg.Facilities)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := svc.GetPackage(ctx, 999)
		assert.ErrorIs(t, err, ErrPackageNotFound)
	})
}

type memoryCache struct {
	packages []models.TravelPackage
	hit      bool
	sets     int
}

func (c *memoryCache) Get(ctx context.Context) ([]models.TravelPackage, bool, error) {
	return c.packages, c.hit, nil
}

func (c *memoryCache) Set(ctx context.Context, packages []models.TravelPackage) error {
	c.packages = packages
	c.hit = true
	c.sets++
	return nil
}

func TestFeaturedPackages(t *testing.T) {
	db := newTestDB(t)
	seedPackages(t, db)
	ctx := context.Background()

	t.Run("TopRatedFirst", func(t *testing.T) {
		svc := NewService(db, zerolog.Nop())
		got, err := svc.FeaturedPackages(ctx)
		require.NoError(t, err)
		assert.Equal(t, []uint{2, 6, 1, 7, 4}, ids(got))
		assert.LessOrEqual(t, len(got), FeaturedLimit)
		for i, p := range got {
			assert.GreaterOrEqual(t, p.Rating, FeaturedMinRating)
			if i > 0 {
				assert.LessOrEqual(t, p.Rating, got[i-1].Rating)
			}
		}
	})

	t.Run("CappedAtFive", func(t *testing.T) {
		extra := models.TravelPackage{Destination: "Maldives", Price: 3000, Rating: 5, Duration: 6}
		require.NoError(t, db.Create(&extra).Error)

		svc := NewService(db, zerolog.Nop())
		got, err := svc.FeaturedPackages(ctx)
		require.NoError(t, err)
		require.Len(t, got, FeaturedLimit)
		assert.Equal(t, extra.ID, got[0].ID)
	})

	t.Run("ServedFromCache", func(t *testing.T) {
		cache := &memoryCache{}
		svc := NewService(db, zerolog.Nop(), WithFeaturedCache(cache))

		first, err := svc.FeaturedPackages(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, cache.sets)

		second, err := svc.FeaturedPackages(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, cache.sets)
		assert.Equal(t, ids(first), ids(second))
	})
}

type recordingNotifier struct {
	bookings []models.Booking
	err      error
}

func (n *recordingNotifier) NotifyBooking(booking models.Booking, pkg models.TravelPackage) error {
	n.bookings = append(n.bookings, booking)
	return n.err
}

func validRequest() BookingRequest {
	return BookingRequest{
		PackageID:  1,
		UserName:   "A",
		Email:      "a@example.com",
		Travelers:  2,
		TravelDate: "2025-06-01",
	}
}

func countBookings(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Booking{}).Count(&n).Error)
	return n
}

func TestCreateBooking(t *testing.T) {
	db := newTestDB(t)
	seedPackages(t, db)
	notifier := &recordingNotifier{}
	svc := NewService(db, zerolog.Nop(), WithNotifier(notifier))
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		booking, err := svc.CreateBooking(ctx, validRequest())
		require.NoError(t, err)
		assert.Positive(t, booking.ID)

		var stored models.Booking
		require.NoError(t, db.First(&stored, booking.ID).Error)
		assert.Equal(t, models.BookingPending, stored.Status)
		assert.Equal(t, uint(1), stored.PackageID)
		assert.Equal(t, "2025-06-01", stored.TravelDate.String())
		assert.Nil(t, stored.Phone)
		assert.Len(t, notifier.bookings, 1)
	})

	t.Run("OptionalFields", func(t *testing.T) {
		req := validRequest()
		phone := " +44 20 7946 0000 "
		requests := "Vegetarian meals"
		req.Phone = &phone
		req.SpecialRequests = &requests

		booking, err := svc.CreateBooking(ctx, req)
		require.NoError(t, err)

		var stored models.Booking
		require.NoError(t, db.First(&stored, booking.ID).Error)
		require.NotNil(t, stored.Phone)
		assert.Equal(t, "+44 20 7946 0000", *stored.Phone)
		require.NotNil(t, stored.SpecialRequests)
		assert.Equal(t, requests, *stored.SpecialRequests)
	})

	t.Run("NotifierFailureIsNotFatal", func(t *testing.T) {
		failing := &recordingNotifier{err: errors.New("offline")}
		svc := NewService(db, zerolog.Nop(), WithNotifier(failing))
		_, err := svc.CreateBooking(ctx, validRequest())
		require.NoError(t, err)
		assert.Len(t, failing.bookings, 1)
	})
}

func TestCreateBooking_Rejected(t *testing.T) {
	db := newTestDB(t)
	seedPackages(t, db)
	svc := NewService(db, zerolog.Nop())
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(r *BookingRequest)
		message string
	}{
		{"MissingEmail", func(r *BookingRequest) { r.Email = "" }, "Missing required fields"},
		{"BlankUserName", func(r *BookingRequest) { r.UserName = "   " }, "Missing required fields"},
		{"MissingPackage", func(r *BookingRequest) { r.PackageID = 0 }, "Missing required fields"},
		{"ZeroTravelers", func(r *BookingRequest) { r.Travelers = 0 }, "Missing required fields"},
		{"MissingTravelDate", func(r *BookingRequest) { r.TravelDate = "" }, "Missing required fields"},
		{"NegativeTravelers", func(r *BookingRequest) { r.Travelers = -2 }, "travelers must be a positive integer"},
		{"BadTravelDate", func(r *BookingRequest) { r.TravelDate = "next week" }, "travel_date must be a date in YYYY-MM-DD format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			_, err := svc.CreateBooking(ctx, req)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.message, verr.Message)
			assert.Zero(t, countBookings(t, db))
		})
	}

	t.Run("UnknownPackage", func(t *testing.T) {
		req := validRequest()
		req.PackageID = 999

		_, err := svc.CreateBooking(ctx, req)
		assert.ErrorIs(t, err, ErrPackageNotFound)
		assert.Zero(t, countBookings(t, db))
	})
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		page, limit         string
		wantPage, wantLimit int
	}{
		{"", "", 1, 10},
		{"2", "5", 2, 5},
		{"abc", "xyz", 1, 10},
		{"0", "-3", 1, 10},
		{" 3 ", "20", 3, 20},
	}
	for _, tt := range tests {
		page, limit := ParsePage(tt.page, tt.limit)
		assert.Equal(t, tt.wantPage, page, "page %q", tt.page)
		assert.Equal(t, tt.wantLimit, limit, "limit %q", tt.limit)
	}
}
