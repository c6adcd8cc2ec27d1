package page

import (
	"net/http"
	"strings"

	"kidofood-web/internal/api"
	"kidofood-web/internal/guard"
	"kidofood-web/internal/model"

	"github.com/go-chi/chi/v5"
)

const (
	homeItemLimit   = 12
	listLimit       = 24
	searchItemLimit = 10
)

// loadError makes a loader render the error page instead of its own.
type loadError struct {
	status  int
	message string
}

func (e *loadError) Error() string {
	return e.message
}

// backendError maps a failed envelope to the page status the visitor sees.
func backendError[T any](res api.Result[T]) *loadError {
	status := http.StatusBadGateway
	if res.Status == http.StatusNotFound || res.Status == http.StatusForbidden {
		status = res.Status
	}
	return &loadError{status: status, message: res.Message()}
}

func notFound(what string) *loadError {
	return &loadError{status: http.StatusNotFound, message: what + " not found"}
}

type homeProps struct {
	Items   []model.FoodItem
	Message string
}

func (h *Handler) loadHome(r *http.Request) (guard.Result, error) {
	res := h.client.Items(r.Context(), api.ListParams{Limit: homeItemLimit})
	if res.IsError() {
		// The landing page still renders while the backend is down.
		return guard.Props(homeProps{Message: res.Message()})
	}
	items, _ := res.Data()
	props := homeProps{}
	if items != nil {
		props.Items = *items
	}
	return guard.Props(props)
}

type formProps struct {
	Email  string
	Name   string
	Error  string
	Notice string
}

func (h *Handler) loadLogin(r *http.Request) (guard.Result, error) {
	props := formProps{}
	switch {
	case r.URL.Query().Has("registered"):
		props.Notice = "Account created, you can log in now."
	case r.URL.Query().Has("claimed"):
		props.Notice = "Server claimed, log in with the admin account."
	}
	return guard.Props(props)
}

func (h *Handler) loadRegister(r *http.Request) (guard.Result, error) {
	return guard.Props(formProps{})
}

// loadClaim only offers the form while the server is unclaimed.
func (h *Handler) loadClaim(r *http.Request) (guard.Result, error) {
	if _, claimed := h.client.ClaimStatus(r.Context()).Data(); claimed {
		return guard.Result{Redirect: &guard.Redirect{Destination: guard.LoginPath}}, nil
	}
	return guard.Props(formProps{})
}

type listProps[T any] struct {
	Items    []T
	PageInfo *model.PageInfo
	Next     string
}

func newListProps[T any](res api.Result[[]T]) listProps[T] {
	props := listProps[T]{}
	if data, ok := res.Data(); ok {
		props.Items = *data
	}
	if res.Response != nil && res.Response.PageInfo != nil {
		props.PageInfo = res.Response.PageInfo
		if c := res.Response.PageInfo.Cursor; c != nil {
			props.Next = *c
		}
	}
	return props
}

func listParams(r *http.Request) api.ListParams {
	return api.ListParams{Limit: listLimit, Cursor: r.URL.Query().Get("cursor")}
}

func (h *Handler) loadItems(r *http.Request) (guard.Result, error) {
	res := h.client.Items(r.Context(), listParams(r))
	if res.IsError() {
		return guard.Result{}, backendError(res)
	}
	return guard.Props(newListProps(res))
}

func (h *Handler) loadItem(r *http.Request) (guard.Result, error) {
	res := h.client.Item(r.Context(), chi.URLParam(r, "id"))
	if res.IsError() {
		return guard.Result{}, backendError(res)
	}
	item, ok := res.Data()
	if !ok {
		return guard.Result{}, notFound("Item")
	}
	return guard.Props(item)
}

type merchantProps struct {
	Merchant *model.Merchant
	Items    []model.FoodItem
}

func (h *Handler) loadMerchant(r *http.Request) (guard.Result, error) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	res := h.client.Merchant(ctx, id)
	if res.IsError() {
		return guard.Result{}, backendError(res)
	}
	merchant, ok := res.Data()
	if !ok {
		return guard.Result{}, notFound("Merchant")
	}

	props := merchantProps{Merchant: merchant}
	items := h.client.MerchantItems(ctx, id, api.ListParams{Limit: listLimit})
	if data, ok := items.Data(); ok {
		props.Items = *data
	}
	return guard.Props(props)
}

func (h *Handler) loadOrders(r *http.Request) (guard.Result, error) {
	res := h.client.Orders(r.Context(), listParams(r))
	if res.IsError() {
		return guard.Result{}, backendError(res)
	}
	return guard.Props(newListProps(res))
}

type merchantsProps struct {
	Merchants []model.Merchant
}

func (h *Handler) loadAdminMerchants(r *http.Request) (guard.Result, error) {
	res := h.client.Merchants(r.Context())
	if res.IsError() {
		return guard.Result{}, backendError(res)
	}
	props := merchantsProps{}
	if data, ok := res.Data(); ok {
		props.Merchants = *data
	}
	return guard.Props(props)
}

func (h *Handler) loadMerchantDashboard(r *http.Request) (guard.Result, error) {
	res := h.client.SelfMerchant(r.Context())
	if res.IsError() {
		return guard.Result{}, backendError(res)
	}
	merchant, ok := res.Data()
	if !ok {
		return guard.Result{}, notFound("Merchant")
	}
	return guard.Props(merchant)
}

type searchProps struct {
	Query  string
	Result model.MultiSearch
}

func (h *Handler) loadSearch(r *http.Request) (guard.Result, error) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		return guard.Props(searchProps{})
	}

	res := h.client.Search(r.Context(), q, searchItemLimit)
	if res.IsError() {
		return guard.Result{}, backendError(res)
	}
	props := searchProps{Query: q}
	if data, ok := res.Data(); ok {
		props.Result = *data
	}
	return guard.Props(props)
}
