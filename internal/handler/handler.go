package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Oggm2/registroServicio/internal/errors"
)

// httpError translates a domain error into the echo error the global handler
// renders as {"error": ..., "code": ...}.
func httpError(err error) *echo.HTTPError {
	he := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
}

// pageParams reads ?page= and ?per_page= with sane defaults.
func pageParams(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.QueryParam("per_page"))
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return page, perPage
}

// idParam parses the :id path segment.
func idParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(400, errors.ErrorResponse{Error: "id inválido", Code: "INVALID_ID"})
	}
	return uint(id), nil
}
