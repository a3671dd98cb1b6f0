package publicauth

import (
	"net/http"

	"github.com/studentreg/web/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Login, h.handleLoginPage)
	mux.HandleFunc(http.MethodPost+" "+routepath.Login, h.handleLogin)
	mux.HandleFunc(http.MethodGet+" "+routepath.Register, h.handleRegisterPage)
	mux.HandleFunc(http.MethodPost+" "+routepath.Register, h.handleRegister)
	mux.HandleFunc(http.MethodPost+" "+routepath.Logout, h.handleLogout)
}
