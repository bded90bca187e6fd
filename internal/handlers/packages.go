package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gdg-garage/travel-booking/internal/catalog"
	"github.com/gdg-garage/travel-booking/internal/models"
	"github.com/rs/zerolog"
)

type PackageHandler struct {
	catalog *catalog.Service
	log     zerolog.Logger
}

func NewPackageHandler(svc *catalog.Service, log zerolog.Logger) *PackageHandler {
	return &PackageHandler{catalog: svc, log: log.With().Str("component", "packages").Logger()}
}

type ListPackagesRequest struct {
	Page  string `query:"page" doc:"1-based page number, defaults to 1"`
	Limit string `query:"limit" doc:"Page size, defaults to 10"`
}

type ListPackagesResponse struct {
	TotalCount int64 `header:"X-Total-Count" doc:"Number of packages in the whole catalog"`
	Body       []models.TravelPackage
}

func (h *PackageHandler) HandleList(ctx context.Context, input *ListPackagesRequest) (*ListPackagesResponse, error) {
	page, limit := catalog.ParsePage(input.Page, input.Limit)

	result, err := h.catalog.ListPackages(ctx, page, limit)
	if err != nil {
		return nil, h.storeFailure(err, "An error occurred while fetching packages")
	}
	return &ListPackagesResponse{TotalCount: result.Total, Body: result.Packages}, nil
}

type SearchPackagesRequest struct {
	Destination string `query:"destination" doc:"Case-insensitive substring of the destination"`
	StartDate   string `query:"startDate" doc:"Earliest start date (YYYY-MM-DD), only used together with endDate"`
	EndDate     string `query:"endDate" doc:"Latest end date (YYYY-MM-DD), only used together with startDate"`
	MinPrice    string `query:"minPrice" doc:"Minimum price, ignored when not numeric"`
	MaxPrice    string `query:"maxPrice" doc:"Maximum price, ignored when not numeric"`
	MinRating   string `query:"minRating" doc:"Minimum rating, ignored when not numeric"`
}

type PackagesResponse struct {
	Body []models.TravelPackage
}

func (h *PackageHandler) HandleSearch(ctx context.Context, input *SearchPackagesRequest) (*PackagesResponse, error) {
	filters := catalog.ParseFilters(catalog.SearchQuery{
		Destination: input.Destination,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		MinPrice:    input.MinPrice,
		MaxPrice:    input.MaxPrice,
		MinRating:   input.MinRating,
	})

	packages, err := h.catalog.SearchPackages(ctx, filters)
	if err != nil {
		return nil, h.storeFailure(err, "An error occurred while searching packages")
	}
	return &PackagesResponse{Body: packages}, nil
}

type GetPackageRequest struct {
	ID string `path:"id" doc:"Package ID"`
}

type PackageResponse struct {
	Body *models.TravelPackage
}

func (h *PackageHandler) HandleGet(ctx context.Context, input *GetPackageRequest) (*PackageResponse, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(input.ID), 10, 64)
	if err != nil {
		return nil, newAPIError(http.StatusNotFound, "Package not found")
	}

	pkg, err := h.catalog.GetPackage(ctx, uint(id))
	if errors.Is(err, catalog.ErrPackageNotFound) {
		return nil, newAPIError(http.StatusNotFound, "Package not found")
	}
	if err != nil {
		return nil, h.storeFailure(err, "An error occurred while fetching package details")
	}
	return &PackageResponse{Body: pkg}, nil
}

func (h *PackageHandler) HandleFeatured(ctx context.Context, _ *struct{}) (*PackagesResponse, error) {
	packages, err := h.catalog.FeaturedPackages(ctx)
	if err != nil {
		return nil, h.storeFailure(err, "An error occurred while fetching featured packages")
	}
	return &PackagesResponse{Body: packages}, nil
}

func (h *PackageHandler) storeFailure(err error, message string) error {
	h.log.Error().Err(err).Msg(message)
	return newAPIError(http.StatusInternalServerError, message)
}
