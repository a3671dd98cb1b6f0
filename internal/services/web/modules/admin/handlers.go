package admin

import (
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/studentreg/web/internal/services/web/backend"
	flashnotice "github.com/studentreg/web/internal/services/web/platform/flash"
	"github.com/studentreg/web/internal/services/web/platform/httpx"
	"github.com/studentreg/web/internal/services/web/platform/modulehandler"
	"github.com/studentreg/web/internal/services/web/platform/pagerender"
	"github.com/studentreg/web/internal/services/web/routepath"
	webtemplates "github.com/studentreg/web/internal/services/web/templates"
)

type handlers struct {
	modulehandler.Base
	cfg Config
}

func newHandlers(base modulehandler.Base, cfg Config) handlers {
	return handlers{Base: base, cfg: cfg}
}

// fetch lists one page through the session's sequencer. The result is
// returned either way; it only becomes the session's current listing when no
// newer request was issued meanwhile.
func (h handlers) fetch(r *http.Request, page int) Listing {
	ticket := h.cfg.Listings.Begin(h.cfg.SessionID(r))
	result, err := h.cfg.Client.ListUsers(r.Context(), page, h.cfg.PageSize)
	listing := Listing{Page: page, Err: err}
	if err == nil {
		listing.Users = result.Users
		listing.TotalPages = result.TotalPages
		if result.CurrentPage > 0 {
			listing.Page = result.CurrentPage
		}
	}
	h.cfg.Listings.Commit(ticket, listing)
	return listing
}

// currentPage picks the page to work on: the submitted one, then the
// session's committed listing, then the first.
func (h handlers) currentPage(r *http.Request, raw string) int {
	if page, ok := parsePage(raw); ok {
		return page
	}
	if listing, ok := h.cfg.Listings.Current(h.cfg.SessionID(r)); ok && listing.Page > 0 {
		return listing.Page
	}
	return 1
}

func (h handlers) handleDashboard(w http.ResponseWriter, r *http.Request) {
	loc, lang := h.PageLocalizer(r)
	query := r.URL.Query()
	page := 1
	if p, ok := parsePage(query.Get(routepath.AdminDashboardPageQuery)); ok {
		page = p
	}
	listing := h.fetch(r, page)
	view := h.view(loc, lang, listing)

	for _, kind := range []string{webtemplates.AdminDialogEdit, webtemplates.AdminDialogDelete, webtemplates.AdminDialogQRCode} {
		if !query.Has(kind) {
			continue
		}
		user, ok := findUser(listing.Users, query.Get(kind))
		if !ok {
			if view.Error == "" {
				view.Error = webtemplates.T(loc, "admin.errors.no_user_selected")
			}
			break
		}
		view.Dialog = &webtemplates.AdminDialog{Kind: kind, User: user, Values: editValues(user)}
		break
	}
	h.writeDashboard(w, r, http.StatusOK, view)
}

func (h handlers) handleEdit(w http.ResponseWriter, r *http.Request) {
	loc, lang := h.PageLocalizer(r)
	form := parseEditForm(r)
	page := h.currentPage(r, r.PostFormValue("page"))
	listing := h.fetch(r, page)
	view := h.view(loc, lang, listing)

	user, ok := findUser(listing.Users, r.PathValue("userID"))
	if !ok {
		if view.Error == "" {
			view.Error = webtemplates.T(loc, "admin.errors.no_user_selected")
		}
		h.writeDashboard(w, r, http.StatusNotFound, view)
		return
	}
	dialog := &webtemplates.AdminDialog{Kind: webtemplates.AdminDialogEdit, User: user, Values: form.values()}
	view.Dialog = dialog

	failed, err := h.cfg.Validator.Check(r.Context(), &form)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	if len(failed) > 0 {
		dialog.Errors = failed.Messages(loc, editMessages)
		h.writeDashboard(w, r, http.StatusBadRequest, view)
		return
	}

	if _, err := h.cfg.Client.UpdateUser(r.Context(), user.ID, form.update()); err != nil {
		dialog.Error = backend.Message(err)
		if dialog.Error == "" {
			dialog.Error = webtemplates.T(loc, "admin.errors.update_failed")
		}
		h.writeDashboard(w, r, failureStatus(err), view)
		return
	}
	name := strings.TrimSpace(form.FirstName + " " + form.LastName)
	flashnotice.Write(w, r, flashnotice.Success("admin.success.user_updated", name), h.RequestSchemePolicy())
	httpx.SeeOther(w, r, routepath.AdminDashboardPage(page))
}

func (h handlers) handleDelete(w http.ResponseWriter, r *http.Request) {
	loc, lang := h.PageLocalizer(r)
	page := h.currentPage(r, r.PostFormValue("page"))
	listing := h.fetch(r, page)
	view := h.view(loc, lang, listing)

	user, ok := findUser(listing.Users, r.PathValue("userID"))
	if !ok {
		if view.Error == "" {
			view.Error = webtemplates.T(loc, "admin.errors.no_user_selected")
		}
		h.writeDashboard(w, r, http.StatusNotFound, view)
		return
	}

	if err := h.cfg.Client.DeleteUser(r.Context(), user.ID); err != nil {
		message := webtemplates.T(loc, "admin.errors.delete_failed")
		if reason := backend.Message(err); reason != "" {
			message += ": " + reason
		}
		view.Dialog = &webtemplates.AdminDialog{Kind: webtemplates.AdminDialogDelete, User: user, Error: message}
		h.writeDashboard(w, r, failureStatus(err), view)
		return
	}
	flashnotice.Write(w, r, flashnotice.Success("admin.success.user_deleted", user.FullName()), h.RequestSchemePolicy())
	httpx.SeeOther(w, r, routepath.AdminDashboardPage(page))
}

// handleQRCode exports the QR image of a user from the session's current
// listing, or from the requested page when the listing lacks it.
func (h handlers) handleQRCode(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("userID")
	listing, ok := h.cfg.Listings.Current(h.cfg.SessionID(r))
	user, found := findUser(listing.Users, id)
	if !ok || !found {
		listing = h.fetch(r, h.currentPage(r, r.URL.Query().Get(routepath.AdminDashboardPageQuery)))
		user, found = findUser(listing.Users, id)
	}
	if !found {
		h.WriteNotFound(w, r)
		return
	}
	png, err := QRCodePNG(user)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{
		"filename": webtemplates.QRCodeFilename(user),
	}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.WriteNotFound(w, r)
}

func (h handlers) view(loc webtemplates.Localizer, lang string, listing Listing) webtemplates.AdminView {
	view := webtemplates.AdminView{
		Loc:        loc,
		Lang:       lang,
		Users:      listing.Users,
		Page:       listing.Page,
		TotalPages: listing.TotalPages,
	}
	if listing.Err != nil {
		view.Users = nil
		view.Error = webtemplates.T(loc, "admin.errors.fetch_failed")
	}
	return view
}

func (h handlers) writeDashboard(w http.ResponseWriter, r *http.Request, status int, view webtemplates.AdminView) {
	h.WritePage(w, r, pagerender.ModulePage{
		Title:      webtemplates.T(view.Loc, "admin.dashboard.title"),
		StatusCode: status,
		Fragment:   webtemplates.AdminDashboardPage(view),
	})
}

func findUser(users []backend.User, id string) (backend.User, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return backend.User{}, false
	}
	for _, user := range users {
		if user.ID.String() == id {
			return user, true
		}
	}
	return backend.User{}, false
}

// failureStatus maps a failed backend mutation to the status of the
// re-rendered dashboard.
func failureStatus(err error) int {
	status := backend.StatusCode(err)
	if status >= 400 && status < 500 {
		return status
	}
	return http.StatusBadGateway
}
