package handlers

import (
	"net/http"

	"github.com/Rakhulsr/go-shoppingmall/app/helpers"
	"github.com/unrolled/render"
)

func renderError(rnd *render.Render, w http.ResponseWriter, r *http.Request, status int, message string) {
	_ = rnd.HTML(w, status, "error", helpers.GetBaseData(r, map[string]interface{}{
		"Title":        http.StatusText(status),
		"StatusCode":   status,
		"ErrorMessage": message,
	}))
}

func serverError(rnd *render.Render, w http.ResponseWriter, r *http.Request) {
	renderError(rnd, w, r, http.StatusInternalServerError, "Something went wrong. Please try again later.")
}

func notFound(rnd *render.Render, w http.ResponseWriter, r *http.Request, message string) {
	renderError(rnd, w, r, http.StatusNotFound, message)
}
