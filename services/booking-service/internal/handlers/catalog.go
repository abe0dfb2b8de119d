package handlers

import (
	"net/http"

	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/app"
	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/domain"
)

func (a *API) createService(w http.ResponseWriter, r *http.Request) {
	providerID, ok := pathID(w, r, "id", domain.ParseProviderID)
	if !ok {
		return
	}
	var in app.CreateServiceInput
	if !decode(w, r, &in, false) {
		return
	}
	v, err := a.app.CreateService(r.Context(), providerID, in)
	respond(a, w, r, http.StatusCreated, v, err)
}

func (a *API) listServices(w http.ResponseWriter, r *http.Request) {
	providerID, ok := pathID(w, r, "id", domain.ParseProviderID)
	if !ok {
		return
	}
	v, err := a.app.ListServices(r.Context(), providerID)
	respond(a, w, r, http.StatusOK, v, err)
}

func (a *API) updateService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", domain.ParseServiceID)
	if !ok {
		return
	}
	var in app.UpdateServiceInput
	if !decode(w, r, &in, false) {
		return
	}
	v, err := a.app.UpdateService(r.Context(), id, in)
	respond(a, w, r, http.StatusOK, v, err)
}

func (a *API) setServiceSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", domain.ParseServiceID)
	if !ok {
		return
	}
	var sched domain.WeeklySchedule
	if !decode(w, r, &sched, false) {
		return
	}
	v, err := a.app.SetServiceSchedule(r.Context(), id, sched)
	respond(a, w, r, http.StatusOK, v, err)
}

type capacityRequest struct {
	MaxConcurrentBookings int `json:"max_concurrent_bookings"`
}

func (a *API) setServiceCapacity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", domain.ParseServiceID)
	if !ok {
		return
	}
	var req capacityRequest
	if !decode(w, r, &req, false) {
		return
	}
	v, err := a.app.SetServiceCapacity(r.Context(), id, req.MaxConcurrentBookings)
	respond(a, w, r, http.StatusOK, v, err)
}

func (a *API) createStaff(w http.ResponseWriter, r *http.Request) {
	providerID, ok := pathID(w, r, "id", domain.ParseProviderID)
	if !ok {
		return
	}
	var in app.CreateStaffInput
	if !decode(w, r, &in, false) {
		return
	}
	v, err := a.app.CreateStaff(r.Context(), providerID, in)
	respond(a, w, r, http.StatusCreated, v, err)
}

func (a *API) listStaff(w http.ResponseWriter, r *http.Request) {
	providerID, ok := pathID(w, r, "id", domain.ParseProviderID)
	if !ok {
		return
	}
	v, err := a.app.ListStaff(r.Context(), providerID)
	respond(a, w, r, http.StatusOK, v, err)
}

func (a *API) setStaffSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", domain.ParseStaffID)
	if !ok {
		return
	}
	var sched domain.WeeklySchedule
	if !decode(w, r, &sched, false) {
		return
	}
	v, err := a.app.SetStaffSchedule(r.Context(), id, sched)
	respond(a, w, r, http.StatusOK, v, err)
}

func (a *API) assignStaffService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", domain.ParseStaffID)
	if !ok {
		return
	}
	serviceID, ok := pathID(w, r, "serviceId", domain.ParseServiceID)
	if !ok {
		return
	}
	v, err := a.app.AssignStaffService(r.Context(), id, serviceID)
	respond(a, w, r, http.StatusOK, v, err)
}

func (a *API) unassignStaffService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", domain.ParseStaffID)
	if !ok {
		return
	}
	serviceID, ok := pathID(w, r, "serviceId", domain.ParseServiceID)
	if !ok {
		return
	}
	v, err := a.app.UnassignStaffService(r.Context(), id, serviceID)
	respond(a, w, r, http.StatusOK, v, err)
}
