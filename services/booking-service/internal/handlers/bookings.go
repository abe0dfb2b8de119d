package handlers

import (
	"context"
	"net/http"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/app"
	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/domain"
)

func (a *API) registerCustomer(w http.ResponseWriter, r *http.Request) {
	var in app.RegisterCustomerInput
	if !decode(w, r, &in, false) {
		return
	}
	v, err := a.app.RegisterCustomer(r.Context(), in)
	respond(a, w, r, http.StatusCreated, v, err)
}

func (a *API) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", domain.ParseCustomerID)
	if !ok {
		return
	}
	v, err := a.app.GetCustomer(r.Context(), id)
	respond(a, w, r, http.StatusOK, v, err)
}

func (a *API) listCustomerBookings(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", domain.ParseCustomerID)
	if !ok {
		return
	}
	v, err := a.app.ListCustomerBookings(r.Context(), id)
	respond(a, w, r, http.StatusOK, v, err)
}

// createBookingRequest takes dates as YYYY-MM-DD and times as HH:MM in the
// provider's time zone.
type createBookingRequest struct {
	ServiceID     string `json:"service_id"`
	StaffID       string `json:"staff_id"`
	CustomerID    string `json:"customer_id"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	CustomerNotes string `json:"customer_notes"`
}

func (req createBookingRequest) input() (app.CreateBookingInput, string) {
	var in app.CreateBookingInput
	var err error
	if in.ServiceID, err = domain.ParseServiceID(strings.TrimSpace(req.ServiceID)); err != nil {
		return in, "invalid service_id"
	}
	if in.CustomerID, err = domain.ParseCustomerID(strings.TrimSpace(req.CustomerID)); err != nil {
		return in, "invalid customer_id"
	}
	if staff := strings.TrimSpace(req.StaffID); staff != "" {
		if in.StaffID, err = domain.ParseStaffID(staff); err != nil {
			return in, "invalid staff_id"
		}
	}
	if in.Date, err = civil.ParseDate(strings.TrimSpace(req.Date)); err != nil {
		return in, "invalid date"
	}
	if in.StartTime, err = domain.ParseClock(req.StartTime); err != nil {
		return in, "invalid start_time"
	}
	in.Notes = req.CustomerNotes
	return in, ""
}

func (a *API) createBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if !decode(w, r, &req, false) {
		return
	}
	in, problem := req.input()
	if problem != "" {
		badRequest(w, problem)
		return
	}
	v, err := a.app.CreateBooking(r.Context(), in)
	respond(a, w, r, http.StatusCreated, v, err)
}

func (a *API) getBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", domain.ParseBookingID)
	if !ok {
		return
	}
	v, err := a.app.GetBooking(r.Context(), id)
	respond(a, w, r, http.StatusOK, v, err)
}

func (a *API) getBookingByNumber(w http.ResponseWriter, r *http.Request) {
	v, err := a.app.GetBookingByNumber(r.Context(), r.PathValue("number"))
	respond(a, w, r, http.StatusOK, v, err)
}

func (a *API) transition(w http.ResponseWriter, r *http.Request, fn func(context.Context, domain.BookingID) (app.BookingView, error)) {
	id, ok := pathID(w, r, "id", domain.ParseBookingID)
	if !ok {
		return
	}
	v, err := fn(r.Context(), id)
	respond(a, w, r, http.StatusOK, v, err)
}

func (a *API) confirmBooking(w http.ResponseWriter, r *http.Request) {
	a.transition(w, r, a.app.ConfirmBooking)
}

func (a *API) completeBooking(w http.ResponseWriter, r *http.Request) {
	a.transition(w, r, a.app.CompleteBooking)
}

func (a *API) markNoShow(w http.ResponseWriter, r *http.Request) {
	a.transition(w, r, a.app.MarkBookingNoShow)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (a *API) cancelBooking(w http.ResponseWriter, r *http.Request) {
	var req cancelRequest
	if !decode(w, r, &req, true) {
		return
	}
	a.transition(w, r, func(ctx context.Context, id domain.BookingID) (app.BookingView, error) {
		return a.app.CancelBooking(ctx, id, req.Reason)
	})
}

// listSlots serves GET /api/v1/slots?service_id=&staff_id=&date=.
func (a *API) listSlots(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	serviceID, err := domain.ParseServiceID(q.Get("service_id"))
	if err != nil {
		badRequest(w, "invalid service_id")
		return
	}
	var staffID domain.StaffID
	if raw := q.Get("staff_id"); raw != "" {
		if staffID, err = domain.ParseStaffID(raw); err != nil {
			badRequest(w, "invalid staff_id")
			return
		}
	}
	date, err := civil.ParseDate(q.Get("date"))
	if err != nil {
		badRequest(w, "invalid date")
		return
	}
	v, err := a.app.ListSlots(r.Context(), serviceID, staffID, date)
	respond(a, w, r, http.StatusOK, v, err)
}
