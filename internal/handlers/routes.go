package handlers

import (
	"io/fs"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type RouteOptions struct {
	Logger         zerolog.Logger
	EnableCORS     bool
	MetricsEnabled bool
	BookingLimiter *RateLimiter
	Assets         fs.FS
}

func RegisterRoutes(r *chi.Mux, opts RouteOptions, packageHandler *PackageHandler, bookingHandler *BookingHandler) huma.API {
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(opts.Logger, opts.MetricsEnabled))
	r.Use(Recoverer(opts.Logger))
	if opts.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"*"},
			ExposedHeaders: []string{"X-Total-Count"},
		}))
	}

	// Initialize Huma API
	config := huma.DefaultConfig("Travel Booking API", "1.0.0")
	config.CreateHooks = nil
	api := humachi.New(r, config)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	if opts.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	huma.Register(api, huma.Operation{
		OperationID: "list-packages",
		Method:      http.MethodGet,
		Path:        "/api/packages",
		Summary:     "List packages",
		Tags:        []string{"Packages"},
	}, packageHandler.HandleList)

	huma.Register(api, huma.Operation{
		OperationID: "search-packages",
		Method:      http.MethodGet,
		Path:        "/api/packages/search",
		Summary:     "Search packages",
		Tags:        []string{"Packages"},
	}, packageHandler.HandleSearch)

	huma.Register(api, huma.Operation{
		OperationID: "get-package",
		Method:      http.MethodGet,
		Path:        "/api/packages/{id}",
		Summary:     "Get package details",
		Tags:        []string{"Packages"},
		Errors:      []int{http.StatusNotFound},
	}, packageHandler.HandleGet)

	huma.Register(api, huma.Operation{
		OperationID: "featured-packages",
		Method:      http.MethodGet,
		Path:        "/api/featured-packages",
		Summary:     "List featured packages",
		Tags:        []string{"Packages"},
	}, packageHandler.HandleFeatured)

	bookingOp := huma.Operation{
		OperationID:   "create-booking",
		Method:        http.MethodPost,
		DefaultStatus: http.StatusOK,
		Path:          "/api/bookings",
		Summary:       "Create a booking",
		Description:   "Accepts a JSON or form-encoded body. The booking is stored with status pending.",
		Tags:          []string{"Bookings"},
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound, http.StatusTooManyRequests},
		RequestBody: &huma.RequestBody{
			Description: "package_id, user_name, email, travelers and travel_date are required; phone and special_requests are optional.",
		},
	}
	// The handler decodes and validates the body itself: it may be form-encoded
	// and numbers may arrive as strings.
	bookingOp.SkipValidateBody = true
	if opts.BookingLimiter != nil {
		bookingOp.Middlewares = huma.Middlewares{opts.BookingLimiter.Middleware(api)}
	}
	huma.Register(api, bookingOp, bookingHandler.HandleCreate)

	if opts.Assets != nil {
		r.Get("/*", shellHandler(opts.Assets))
	}

	return api
}
