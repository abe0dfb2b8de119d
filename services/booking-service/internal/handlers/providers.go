package handlers

import (
	"net/http"

	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/app"
	"github.com/md-rashed-zaman/slotbook/services/booking-service/internal/domain"
)

func (a *API) createProvider(w http.ResponseWriter, r *http.Request) {
	var in app.CreateProviderInput
	if !decode(w, r, &in, false) {
		return
	}
	v, err := a.app.CreateProvider(r.Context(), in)
	respond(a, w, r, http.StatusCreated, v, err)
}

func (a *API) getProvider(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", domain.ParseProviderID)
	if !ok {
		return
	}
	v, err := a.app.GetProviderByID(r.Context(), id)
	respond(a, w, r, http.StatusOK, v, err)
}

func (a *API) getProviderBySlug(w http.ResponseWriter, r *http.Request) {
	v, err := a.app.GetProviderBySlug(r.Context(), r.PathValue("slug"))
	respond(a, w, r, http.StatusOK, v, err)
}

func (a *API) updateProvider(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", domain.ParseProviderID)
	if !ok {
		return
	}
	var in app.UpdateProviderInput
	if !decode(w, r, &in, false) {
		return
	}
	v, err := a.app.UpdateProvider(r.Context(), id, in)
	respond(a, w, r, http.StatusOK, v, err)
}

func (a *API) activateProvider(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", domain.ParseProviderID)
	if !ok {
		return
	}
	v, err := a.app.ActivateProvider(r.Context(), id)
	respond(a, w, r, http.StatusOK, v, err)
}

func (a *API) deactivateProvider(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", domain.ParseProviderID)
	if !ok {
		return
	}
	v, err := a.app.DeactivateProvider(r.Context(), id)
	respond(a, w, r, http.StatusOK, v, err)
}
