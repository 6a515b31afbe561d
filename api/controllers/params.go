package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/taeyang999/xposconnect-sub000/api/validators"
	"github.com/taeyang999/xposconnect-sub000/pkg/auth"
)

func pathUUID(r *http.Request, key string) (uuid.UUID, error) {
	return validators.ParsePathUUID(chi.URLParam(r, key), key)
}

func pathEmail(r *http.Request, key string) string {
	return auth.NormalizeEmail(chi.URLParam(r, key))
}
