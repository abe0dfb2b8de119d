// Package handlers exposes the booking application over HTTP/JSON.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/md-rashed-zaman/slotbook/libs/httpx"
	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/app"
	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/domain"
)

type API struct {
	app    *app.Service
	logger *slog.Logger
}

func NewAPI(svc *app.Service, logger *slog.Logger) *API {
	if logger == nil {
		logger = slog.Default()
	}
	return &API{app: svc, logger: logger}
}

type route struct {
	pattern string
	handler http.HandlerFunc
}

// routes lists the API. Lookups by slug or number live outside the {id}
// segment so that no two GET patterns overlap.
func (a *API) routes() []route {
	return []route{
		{"POST /api/v1/providers", a.createProvider},
		{"GET /api/v1/providers/{id}", a.getProvider},
		{"GET /api/v1/provider-slugs/{slug}", a.getProviderBySlug},
		{"PUT /api/v1/providers/{id}", a.updateProvider},
		{"POST /api/v1/providers/{id}/activate", a.activateProvider},
		{"POST /api/v1/providers/{id}/deactivate", a.deactivateProvider},

		{"POST /api/v1/providers/{id}/services", a.createService},
		{"GET /api/v1/providers/{id}/services", a.listServices},
		{"PUT /api/v1/services/{id}", a.updateService},
		{"PUT /api/v1/services/{id}/schedule", a.setServiceSchedule},
		{"PUT /api/v1/services/{id}/capacity", a.setServiceCapacity},

		{"POST /api/v1/providers/{id}/staff", a.createStaff},
		{"GET /api/v1/providers/{id}/staff", a.listStaff},
		{"PUT /api/v1/staff/{id}/schedule", a.setStaffSchedule},
		{"POST /api/v1/staff/{id}/services/{serviceId}", a.assignStaffService},
		{"DELETE /api/v1/staff/{id}/services/{serviceId}", a.unassignStaffService},

		{"POST /api/v1/customers", a.registerCustomer},
		{"GET /api/v1/customers/{id}", a.getCustomer},
		{"GET /api/v1/customers/{id}/bookings", a.listCustomerBookings},

		{"POST /api/v1/bookings", a.createBooking},
		{"GET /api/v1/bookings/{id}", a.getBooking},
		{"GET /api/v1/booking-numbers/{number}", a.getBookingByNumber},
		{"POST /api/v1/bookings/{id}/confirm", a.confirmBooking},
		{"POST /api/v1/bookings/{id}/cancel", a.cancelBooking},
		{"POST /api/v1/bookings/{id}/complete", a.completeBooking},
		{"POST /api/v1/bookings/{id}/no-show", a.markNoShow},

		{"GET /api/v1/slots", a.listSlots},
	}
}

// Register mounts every route on mux.
func (a *API) Register(mux *http.ServeMux) {
	for _, rt := range a.routes() {
		mux.HandleFunc(rt.pattern, rt.handler)
	}
}

var statusByKind = map[app.Kind]int{
	app.KindNotFound:   http.StatusNotFound,
	app.KindValidation: http.StatusBadRequest,
	app.KindConflict:   http.StatusConflict,
	app.KindFailure:    http.StatusInternalServerError,
}

// fail writes err as an envelope. Internal failures are logged and never
// leak their cause.
func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	ae := app.AsError(err)
	status, ok := statusByKind[ae.Kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status == http.StatusInternalServerError {
		a.logger.Error("request failed",
			"request_id", httpx.RequestIDFromContext(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"code", ae.Code,
			"err", err,
		)
		if ae.Code == app.CodeInternal {
			httpx.WriteInternalError(w)
			return
		}
	}
	httpx.WriteError(w, status, ae.Code, ae.Message)
}

func badRequest(w http.ResponseWriter, message string) {
	httpx.WriteError(w, http.StatusBadRequest, app.CodeValidation, message)
}

// respond writes v, or the error when err is set.
func respond[T any](a *API, w http.ResponseWriter, r *http.Request, status int, v T, err error) {
	if err != nil {
		a.fail(w, r, err)
		return
	}
	httpx.WriteData(w, status, v)
}

// decode reads a JSON body into dst. An empty body is allowed when
// optional is set.
func decode(w http.ResponseWriter, r *http.Request, dst any, optional bool) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	switch {
	case err == nil:
		return true
	case optional && errors.Is(err, io.EOF):
		return true
	case domain.IsRuleViolation(err):
		httpx.WriteError(w, http.StatusBadRequest, app.CodeRuleViolation, err.Error())
	default:
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpx.WriteError(w, http.StatusRequestEntityTooLarge, app.CodeValidation, "request body too large")
			return false
		}
		badRequest(w, "invalid json body")
	}
	return false
}

// pathID parses the named path value with parse.
func pathID[T any](w http.ResponseWriter, r *http.Request, name string, parse func(string) (T, error)) (T, bool) {
	id, err := parse(r.PathValue(name))
	if err != nil {
		badRequest(w, "invalid "+name)
		return id, false
	}
	return id, true
}
