package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"agh/navigator/pkg/datastructure"
	"agh/navigator/pkg/server"
	"agh/navigator/pkg/server/rest/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

type NavigationService interface {
	ShortestPathWalk(ctx context.Context, startName, destName, speedProfile string) (service.WalkRoute, error)
	ShortestPathWalkByCoord(ctx context.Context, srcLat, srcLon, dstLat, dstLon float64, speedProfile string) (service.WalkRoute, error)
	ManyToManyWalk(ctx context.Context, sources, targets []string, speedProfile string) (map[string][]service.TargetResult, error)
	Buildings() []service.Building
}

type NavigationHandler struct {
	svc          NavigationService
	promeMetrics *metrics
}

func NavigatorRouter(r *chi.Mux, svc NavigationService, m *metrics) {
	handler := &NavigationHandler{svc, m}

	r.Group(func(r chi.Router) {
		r.Route("/api/navigations", func(r chi.Router) {
			r.Post("/route", handler.shortestPathWalk)
			r.Post("/route-coord", handler.shortestPathWalkByCoord)
			r.Post("/many-to-many", handler.manyToManyWalk)
			r.Get("/buildings", handler.buildings)
			r.Get("/hello", handler.Hello)
		})
	})
}

// WalkRouteRequest model info
//
//	@Description	request body for a pedestrian route query between two named campus points
type WalkRouteRequest struct {
	Start       string `json:"start" validate:"required"`
	Destination string `json:"destination" validate:"required"`
	Speed       string `json:"speed" validate:"omitempty,oneof=slow walk fast"`
}

func (s *WalkRouteRequest) Bind(r *http.Request) error {
	if s.Start == "" || s.Destination == "" {
		return errors.New("invalid request")
	}
	if s.Speed == "" {
		s.Speed = "walk"
	}
	return nil
}

// WalkRouteCoordRequest model info
//
//	@Description	request body for a pedestrian route query between two raw coordinates
type WalkRouteCoordRequest struct {
	SrcLat float64 `json:"src_lat" validate:"required,lt=90,gt=-90"`
	SrcLon float64 `json:"src_lon" validate:"required,lt=180,gt=-180"`
	DstLat float64 `json:"dst_lat" validate:"required,lt=90,gt=-90"`
	DstLon float64 `json:"dst_lon" validate:"required,lt=180,gt=-180"`
	Speed  string  `json:"speed" validate:"omitempty,oneof=slow walk fast"`
}

func (s *WalkRouteCoordRequest) Bind(r *http.Request) error {
	if s.SrcLat == 0 || s.SrcLon == 0 || s.DstLat == 0 || s.DstLon == 0 {
		return errors.New("invalid request")
	}
	if s.Speed == "" {
		s.Speed = "walk"
	}
	return nil
}

// MarkerRes model info
//
//	@Description	model for a start/destination map marker
type MarkerRes struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// WalkRouteResponse model info
//
//	@Description	response body for a pedestrian route query
type WalkRouteResponse struct {
	Path        string                     `json:"path"`
	DistMeters  int                        `json:"distance_meters"`
	ETAMinutes  int                        `json:"eta_minutes"`
	Found       bool                       `json:"found"`
	Route       []datastructure.Coordinate `json:"route,omitempty"`
	Start       MarkerRes                  `json:"start"`
	Destination MarkerRes                  `json:"destination"`
}

func NewWalkRouteResponse(walk service.WalkRoute) *WalkRouteResponse {
	return &WalkRouteResponse{
		Path:       walk.Path,
		DistMeters: walk.DistMeters,
		ETAMinutes: walk.ETAMinutes,
		Found:      walk.Found,
		Route:      walk.Route,
		Start: MarkerRes{
			Name: walk.Start.Name,
			Lat:  walk.Start.Coord.Lat,
			Lon:  walk.Start.Coord.Lon,
		},
		Destination: MarkerRes{
			Name: walk.Dest.Name,
			Lat:  walk.Dest.Coord.Lat,
			Lon:  walk.Dest.Coord.Lon,
		},
	}
}

// shortestPathWalk
//
//	@Summary		pedestrian shortest path query between two named campus points.
//	@Description	pedestrian shortest path query between two named campus points. One start and one destination
//	@Tags			navigations
//	@Param			body	body	WalkRouteRequest	true	"request body for the route query"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/navigations/route [post]
//	@Success		200	{object}	WalkRouteResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *NavigationHandler) shortestPathWalk(w http.ResponseWriter, r *http.Request) {
	data := &WalkRouteRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	validate := validator.New()
	if err := validate.Struct(*data); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		render.Render(w, r, ErrValidation(err, vv))
		return
	}

	h.promeMetrics.RouteQueryCount.WithLabelValues("by_name").Inc()
	walk, err := h.svc.ShortestPathWalk(r.Context(), data.Start, data.Destination, data.Speed)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	if !walk.Found {
		render.Render(w, r, ErrChi(server.WrapErrorf(nil, server.ErrNotFound,
			"no walkable route between %q and %q", data.Start, data.Destination)))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, NewWalkRouteResponse(walk))
}

// shortestPathWalkByCoord
//
//	@Summary		pedestrian shortest path query between two raw coordinates.
//	@Description	pedestrian shortest path query between two raw coordinates. Both are snapped to the nearest campus point first
//	@Tags			navigations
//	@Param			body	body	WalkRouteCoordRequest	true	"request body for the coordinate route query"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/navigations/route-coord [post]
//	@Success		200	{object}	WalkRouteResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *NavigationHandler) shortestPathWalkByCoord(w http.ResponseWriter, r *http.Request) {
	data := &WalkRouteCoordRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	validate := validator.New()
	if err := validate.Struct(*data); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		render.Render(w, r, ErrValidation(err, vv))
		return
	}

	h.promeMetrics.RouteQueryCount.WithLabelValues("by_coord").Inc()
	walk, err := h.svc.ShortestPathWalkByCoord(r.Context(), data.SrcLat, data.SrcLon, data.DstLat, data.DstLon, data.Speed)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}
	if !walk.Found {
		render.Render(w, r, ErrChi(server.WrapErrorf(nil, server.ErrNotFound,
			"no walkable route between the snapped locations")))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, NewWalkRouteResponse(walk))
}

// ManyToManyRequest model info
//
//	@Description	request body for the route matrix query
type ManyToManyRequest struct {
	Sources []string `json:"sources" validate:"required,min=1"`
	Targets []string `json:"targets" validate:"required,min=1"`
	Speed   string   `json:"speed" validate:"omitempty,oneof=slow walk fast"`
}

func (s *ManyToManyRequest) Bind(r *http.Request) error {
	if len(s.Sources) == 0 || len(s.Targets) == 0 {
		return errors.New("invalid request")
	}
	if s.Speed == "" {
		s.Speed = "walk"
	}
	return nil
}

// TargetRes model info
//
//	@Description	model for one destination in the route matrix response
type TargetRes struct {
	Target     string                     `json:"target"`
	Path       string                     `json:"path"`
	DistMeters int                        `json:"distance_meters"`
	ETAMinutes int                        `json:"eta_minutes"`
	Found      bool                       `json:"found"`
	Route      []datastructure.Coordinate `json:"route,omitempty"`
}

// SrcTargetPair model info
//
//	@Description	model for one source and its targets in the route matrix response
type SrcTargetPair struct {
	Source  string      `json:"source"`
	Targets []TargetRes `json:"targets"`
}

// ManyToManyResponse model info
//
//	@Description	response body for the route matrix query
type ManyToManyResponse struct {
	Results []SrcTargetPair `json:"results"`
}

// manyToManyWalk
//
//	@Summary		pedestrian route matrix query. Shortest path from every source to every target
//	@Description	pedestrian route matrix query. Shortest path from every source to every target
//	@Tags			navigations
//	@Param			body	body	ManyToManyRequest	true	"request body for the route matrix query"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/navigations/many-to-many [post]
//	@Success		200	{object}	ManyToManyResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		404	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
func (h *NavigationHandler) manyToManyWalk(w http.ResponseWriter, r *http.Request) {
	data := &ManyToManyRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	validate := validator.New()
	if err := validate.Struct(*data); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		render.Render(w, r, ErrValidation(err, vv))
		return
	}

	h.promeMetrics.RouteQueryCount.WithLabelValues("many_to_many").Inc()
	results, err := h.svc.ManyToManyWalk(r.Context(), data.Sources, data.Targets, data.Speed)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, RenderManyToManyResponse(results))
}

func RenderManyToManyResponse(res map[string][]service.TargetResult) *ManyToManyResponse {
	results := []SrcTargetPair{}
	for sourceName, targetResults := range res {
		targets := []TargetRes{}
		for _, t := range targetResults {
			targets = append(targets, TargetRes{
				Target:     t.TargetName,
				Path:       t.Path,
				DistMeters: t.DistMeters,
				ETAMinutes: t.ETAMinutes,
				Found:      t.Found,
				Route:      t.Route,
			})
		}
		results = append(results, SrcTargetPair{
			Source:  sourceName,
			Targets: targets,
		})
	}
	return &ManyToManyResponse{
		Results: results,
	}
}

// BuildingRes model info
//
//	@Description	model for one selectable campus building
type BuildingRes struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// buildings
//
//	@Summary		list of selectable campus buildings with marker coordinates
//	@Description	list of selectable campus buildings with marker coordinates, sorted by name
//	@Tags			navigations
//	@Produce		application/json
//	@Router			/navigations/buildings [get]
//	@Success		200	{array}	BuildingRes
func (h *NavigationHandler) buildings(w http.ResponseWriter, r *http.Request) {
	buildings := h.svc.Buildings()

	resp := make([]BuildingRes, 0, len(buildings))
	for _, b := range buildings {
		resp = append(resp, BuildingRes{
			Name: b.Name,
			Lat:  b.Coord.Lat,
			Lon:  b.Coord.Lon,
		})
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

func (h *NavigationHandler) Hello(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, "Hello, World!")
}

// ErrResponse model info
//
//	@Description	model for an error response
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText    string   `json:"status"`          // user-level status message
	AppCode       int64    `json:"code,omitempty"`  // application-specific error code
	ErrorText     string   `json:"error,omitempty"` // application-level error message, for debugging
	ErrValidation []string `json:"validation,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrInternalServerErrorRend(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 500,
		StatusText:     "Internal server error.",
		ErrorText:      err.Error(),
	}
}

func ErrValidation(err error, errV []error) render.Renderer {
	vv := []string{}
	for _, v := range errV {
		vv = append(vv, v.Error())
	}
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
		ErrValidation:  vv,
	}
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

func ErrRender(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 422,
		StatusText:     "Error rendering response.",
		ErrorText:      err.Error(),
	}
}

func ErrChi(err error) render.Renderer {
	statusText := ""
	switch getStatusCode(err) {
	case http.StatusNotFound:
		statusText = "Resource not found."
	case http.StatusInternalServerError:
		statusText = "Internal server error."
	case http.StatusConflict:
		statusText = "Resource conflict."
	case http.StatusBadRequest:
		statusText = "Bad request."
	default:
		statusText = "Error."
	}

	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: getStatusCode(err),
		StatusText:     statusText,
		ErrorText:      err.Error(),
	}
}

func getStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var ierr *server.Error
	if !errors.As(err, &ierr) {
		return http.StatusInternalServerError
	}
	switch ierr.Code() {
	case server.ErrInternalServerError:
		return http.StatusInternalServerError
	case server.ErrNotFound:
		return http.StatusNotFound
	case server.ErrConflict:
		return http.StatusConflict
	case server.ErrBadParamInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	validatorErrs := err.(validator.ValidationErrors)
	for _, e := range validatorErrs {
		translatedErr := fmt.Errorf(e.Translate(trans))
		errs = append(errs, translatedErr)
	}
	return errs
}
