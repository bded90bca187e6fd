package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// FlexInt accepts a JSON number or a numeric string. Browser forms post
// package_id and travelers as strings.
type FlexInt int64

func (n *FlexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		return n.parse(s)
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	return n.parse(num.String())
}

func (n *FlexInt) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*n = 0
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("%q is not an integer", s)
	}
	*n = FlexInt(v)
	return nil
}

// BookingRequest carries the fields accepted by CreateBooking.
type BookingRequest struct {
	PackageID       FlexInt `json:"package_id" validate:"required"`
	UserName        string  `json:"user_name" validate:"required"`
	Email           string  `json:"email" validate:"required"`
	Phone           *string `json:"phone"`
	Travelers       FlexInt `json:"travelers" validate:"required,gt=0"`
	TravelDate      string  `json:"travel_date" validate:"required"`
	SpecialRequests *string `json:"special_requests"`
}

// DecodeBookingJSON decodes a JSON booking body. Unknown fields are ignored.
func DecodeBookingJSON(body []byte) (BookingRequest, error) {
	var req BookingRequest
	if len(bytes.TrimSpace(body)) == 0 {
		return req, nil
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return BookingRequest{}, err
	}
	return req, nil
}

// DecodeBookingForm decodes an application/x-www-form-urlencoded booking body.
func DecodeBookingForm(body []byte) (BookingRequest, error) {
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return BookingRequest{}, err
	}

	var req BookingRequest
	if err := req.PackageID.parse(values.Get("package_id")); err != nil {
		return BookingRequest{}, err
	}
	if err := req.Travelers.parse(values.Get("travelers")); err != nil {
		return BookingRequest{}, err
	}
	req.UserName = values.Get("user_name")
	req.Email = values.Get("email")
	req.TravelDate = values.Get("travel_date")
	if values.Has("phone") {
		phone := values.Get("phone")
		req.Phone = &phone
	}
	if values.Has("special_requests") {
		sr := values.Get("special_requests")
		req.SpecialRequests = &sr
	}
	return req, nil
}

func (r *BookingRequest) normalize() {
	r.UserName = strings.TrimSpace(r.UserName)
	r.Email = strings.TrimSpace(r.Email)
	r.TravelDate = strings.TrimSpace(r.TravelDate)
	r.Phone = trimOptional(r.Phone)
	r.SpecialRequests = trimOptional(r.SpecialRequests)
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
