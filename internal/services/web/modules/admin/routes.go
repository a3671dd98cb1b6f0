package admin

import (
	"net/http"

	"github.com/studentreg/web/internal/services/web/platform/httpx"
	"github.com/studentreg/web/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers, dashboardGuard, userGuard httpx.Middleware) {
	if mux == nil {
		return
	}
	mux.Handle(http.MethodGet+" "+routepath.AdminDashboard, dashboardGuard(http.HandlerFunc(h.handleDashboard)))
	mux.Handle(http.MethodPost+" "+routepath.AdminUserEditPattern, userGuard(http.HandlerFunc(h.handleEdit)))
	mux.Handle(http.MethodPost+" "+routepath.AdminUserDeletePattern, userGuard(http.HandlerFunc(h.handleDelete)))
	mux.Handle(http.MethodGet+" "+routepath.AdminUserQRCodePattern, userGuard(http.HandlerFunc(h.handleQRCode)))
	mux.HandleFunc(routepath.AdminPrefix, h.handleNotFound)
}
