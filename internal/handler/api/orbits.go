package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shashe9/teaminfinity/internal/domain/models"
	"github.com/shashe9/teaminfinity/internal/repository"
	"github.com/shashe9/teaminfinity/internal/usecase"
	apphttp "github.com/shashe9/teaminfinity/pkg/http"
	"github.com/shashe9/teaminfinity/pkg/logger"
)

// OrbitsHandler serves the dashboard API over the orbit dataset.
type OrbitsHandler struct {
	dataset *usecase.Dataset
	log     *logger.Logger
}

// NewOrbitsHandler creates the orbit API handler.
func NewOrbitsHandler(dataset *usecase.Dataset, log *logger.Logger) *OrbitsHandler {
	return &OrbitsHandler{dataset: dataset, log: log}
}

// RegisterRoutes wires the handler into the Echo instance.
func (h *OrbitsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/extent", h.Extent)
	g.GET("/satellites", h.Satellites)
	g.GET("/samples", h.Samples)
	g.GET("/summary", h.Summary)
	g.GET("/track/:name", h.Track)
	g.GET("/export", h.Export)

	e.GET("/healthz", h.Health)
}

// Extent returns the dataset bounds for seeding the filter controls.
func (h *OrbitsHandler) Extent(c echo.Context) error {
	extent, err := h.dataset.Extent(c.Request().Context())
	if err != nil {
		h.log.Error("extent query failed", logger.Error(err))
		return apphttp.AppErrorResponse(c, apphttp.InternalError("could not load the orbit dataset").WithError(err))
	}
	return apphttp.SuccessResponse(c, extent)
}

// Satellites returns the sorted distinct satellite names.
func (h *OrbitsHandler) Satellites(c echo.Context) error {
	names, err := h.dataset.SatelliteNames(c.Request().Context())
	if err != nil {
		h.log.Error("satellites query failed", logger.Error(err))
		return apphttp.AppErrorResponse(c, apphttp.InternalError("could not load the orbit dataset").WithError(err))
	}
	return apphttp.ListResponse(c, names, int64(len(names)))
}

// Samples returns the filtered, downsampled view.
func (h *OrbitsHandler) Samples(c echo.Context) error {
	criteria, payload, err := h.criteria(c)
	if payload != nil {
		return apphttp.BadRequestResponse(c, payload)
	}
	if err != nil {
		return apphttp.AppErrorResponse(c, err)
	}

	samples, err := h.dataset.Samples(c.Request().Context(), criteria)
	if err != nil {
		h.log.Error("samples query failed", logger.Error(err))
		return apphttp.AppErrorResponse(c, apphttp.InternalError("could not load the orbit dataset").WithError(err))
	}
	return apphttp.ListResponse(c, samples, int64(len(samples)))
}

// Summary returns the overview metrics for the filtered view.
func (h *OrbitsHandler) Summary(c echo.Context) error {
	criteria, payload, err := h.criteria(c)
	if payload != nil {
		return apphttp.BadRequestResponse(c, payload)
	}
	if err != nil {
		return apphttp.AppErrorResponse(c, err)
	}

	summary, err := h.dataset.Summary(c.Request().Context(), criteria)
	if err != nil {
		h.log.Error("summary query failed", logger.Error(err))
		return apphttp.AppErrorResponse(c, apphttp.InternalError("could not load the orbit dataset").WithError(err))
	}
	return apphttp.SuccessResponse(c, summary)
}

// Track returns one satellite's full trajectory, ignoring the filter
// controls.
func (h *OrbitsHandler) Track(c echo.Context) error {
	var req models.TrackRequest
	if payload := apphttp.ReadAndValidateRequest(c, &req); payload != nil {
		return apphttp.BadRequestResponse(c, payload)
	}

	track, err := h.dataset.TrackFor(c.Request().Context(), req.Name)
	if err != nil {
		if errors.Is(err, usecase.ErrUnknownSatellite) {
			return apphttp.AppErrorResponse(c, apphttp.NotFoundErrorf("satellite %q not found", req.Name))
		}
		h.log.Error("track query failed", logger.String("name", req.Name), logger.Error(err))
		return apphttp.AppErrorResponse(c, apphttp.InternalError("could not load the orbit dataset").WithError(err))
	}
	return apphttp.ListResponse(c, track, int64(len(track)))
}

// Export streams the filtered view as a CSV download in the same five-column
// format the dataset is loaded from.
func (h *OrbitsHandler) Export(c echo.Context) error {
	criteria, payload, err := h.criteria(c)
	if payload != nil {
		return apphttp.BadRequestResponse(c, payload)
	}
	if err != nil {
		return apphttp.AppErrorResponse(c, err)
	}

	samples, err := h.dataset.Samples(c.Request().Context(), criteria)
	if err != nil {
		h.log.Error("export query failed", logger.Error(err))
		return apphttp.AppErrorResponse(c, apphttp.InternalError("could not load the orbit dataset").WithError(err))
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+repository.ExportFilename+`"`)
	c.Response().WriteHeader(http.StatusOK)
	return repository.WriteSamples(c.Response(), samples)
}

// Health reports store reachability.
func (h *OrbitsHandler) Health(c echo.Context) error {
	if err := h.dataset.Health(c.Request().Context()); err != nil {
		return apphttp.DataResponse(c, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
	}
	return apphttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

// criteria binds and validates the shared filter query parameters. A non-nil
// payload is a validation failure to render as a 400; a non-nil error is an
// application error.
func (h *OrbitsHandler) criteria(c echo.Context) (models.FilterCriteria, interface{}, error) {
	var req models.QueryRequest
	if payload := apphttp.ReadAndValidateRequest(c, &req); payload != nil {
		return models.FilterCriteria{}, payload, nil
	}

	criteria, err := h.dataset.Criteria(c.Request().Context(), &req)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCriteria) {
			return models.FilterCriteria{}, nil, apphttp.BadRequestError(err.Error()).WithError(err)
		}
		h.log.Error("criteria resolution failed", logger.Error(err))
		return models.FilterCriteria{}, nil, apphttp.InternalError("could not load the orbit dataset").WithError(err)
	}
	return criteria, nil, nil
}
