package handlers

import (
	"context"
	"errors"
	"mime"
	"net/http"

	"github.com/gdg-garage/travel-booking/internal/catalog"
	"github.com/rs/zerolog"
)

type BookingHandler struct {
	catalog *catalog.Service
	log     zerolog.Logger
}

func NewBookingHandler(svc *catalog.Service, log zerolog.Logger) *BookingHandler {
	return &BookingHandler{catalog: svc, log: log.With().Str("component", "bookings").Logger()}
}

// CreateBookingRequest keeps the body raw: package_id and travelers may arrive
// as strings, and the body may be JSON or form-encoded.
type CreateBookingRequest struct {
	ContentType string `header:"Content-Type"`
	RawBody     []byte `contentType:"application/json"`
}

type CreateBookingResponse struct {
	Body struct {
		Message string `json:"message"`
		ID      uint   `json:"id"`
	}
}

func (h *BookingHandler) HandleCreate(ctx context.Context, input *CreateBookingRequest) (*CreateBookingResponse, error) {
	req, err := decodeBooking(input.ContentType, input.RawBody)
	if err != nil {
		return nil, newAPIError(http.StatusBadRequest, "Invalid request body")
	}

	booking, err := h.catalog.CreateBooking(ctx, req)
	if err != nil {
		var verr *catalog.ValidationError
		switch {
		case errors.As(err, &verr):
			return nil, newAPIError(http.StatusBadRequest, verr.Message)
		case errors.Is(err, catalog.ErrPackageNotFound):
			return nil, newAPIError(http.StatusNotFound, "Package not found")
		default:
			h.log.Error().Err(err).Msg("Error creating booking")
			return nil, newAPIError(http.StatusInternalServerError, "An error occurred while creating the booking")
		}
	}

	h.log.Info().Uint("booking_id", booking.ID).Uint("package_id", booking.PackageID).Msg("booking created")

	res := &CreateBookingResponse{}
	res.Body.Message = "Booking created successfully"
	res.Body.ID = booking.ID
	return res, nil
}

func decodeBooking(contentType string, body []byte) (catalog.BookingRequest, error) {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	if mediaType == "application/x-www-form-urlencoded" {
		return catalog.DecodeBookingForm(body)
	}
	return catalog.DecodeBookingJSON(body)
}
