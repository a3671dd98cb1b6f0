package public

import (
	"net/http"

	"github.com/studentreg/web/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" /{$}", h.handleHome)
	mux.HandleFunc(http.MethodGet+" "+routepath.Health, h.handleHealth)
	mux.HandleFunc(http.MethodPost+" "+routepath.LanguageToggle, h.handleLanguageToggle)
	mux.HandleFunc("/", h.handleNotFound)
}
