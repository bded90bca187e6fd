package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/gdg-garage/travel-booking/internal/catalog"
	"github.com/gdg-garage/travel-booking/internal/config"
	"github.com/gdg-garage/travel-booking/internal/database"
	"github.com/gdg-garage/travel-booking/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(&config.Config{
		DBDriver:       config.DriverSQLite,
		DatabasePath:   ":memory:",
		DBMaxOpenConns: 1,
	}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// seedPackages stores Paris (4.7), Bali (4.9) and Cairo (3.8), in that id order.
func seedPackages(t *testing.T, db *gorm.DB) []models.TravelPackage {
	t.Helper()
	packages := []models.TravelPackage{
		{Destination: "Paris, France", Description: "Museums", Price: 1500, Rating: 4.7, Duration: 7,
			StartDate: models.NewDate(2025, 6, 1), EndDate: models.NewDate(2025, 6, 8), Facilities: []string{"Hotel", "Breakfast"}},
		{Destination: "Bali, Indonesia", Description: "Beaches", Price: 900, Rating: 4.9, Duration: 10,
			StartDate: models.NewDate(2025, 7, 10), EndDate: models.NewDate(2025, 7, 20), Facilities: []string{"Villa"}},
		{Destination: "Cairo, Egypt", Description: "Pyramids", Price: 700, Rating: 3.8, Duration: 5,
			StartDate: models.NewDate(2025, 11, 2), EndDate: models.NewDate(2025, 11, 7)},
	}
	for i := range packages {
		require.NoError(t, db.Create(&packages[i]).Error)
	}
	return packages
}

var testAssets = fstest.MapFS{
	"index.html":   {Data: []byte("<html>listing</html>")},
	"details.html": {Data: []byte("<html>details</html>")},
	"app.js":       {Data: []byte("console.log('app')")},
}

func newTestRouter(t *testing.T, db *gorm.DB, limiter *RateLimiter) http.Handler {
	t.Helper()
	svc := catalog.NewService(db, zerolog.Nop())
	r := chi.NewRouter()
	RegisterRoutes(r, RouteOptions{
		Logger:         zerolog.Nop(),
		BookingLimiter: limiter,
		Assets:         testAssets,
	}, NewPackageHandler(svc, zerolog.Nop()), NewBookingHandler(svc, zerolog.Nop()))
	return r
}

func doRequest(t *testing.T, h http.Handler, method, target, contentType string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type errorBody struct {
	Error string `json:"error"`
}
