package server

import (
	"errors"
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/rushteam/tripkit/core"
	"github.com/rushteam/tripkit/service"
)

// HealthResponse 是 GET /health 的响应。
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse 是错误响应。
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PresetsResponse 是 GET /api/v1/presets 的响应。
type PresetsResponse struct {
	Flights []string `json:"flights"`
	Hotels  []string `json:"hotels"`
}

// BlockedResponse 是屏蔽列表的响应。
type BlockedResponse struct {
	UserID string   `json:"userId"`
	Values []string `json:"values"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handlePresets(c echo.Context) error {
	book := s.svc.Presets()
	resp := PresetsResponse{Flights: make([]string, 0, len(book.Flights)), Hotels: make([]string, 0, len(book.Hotels))}
	for name := range book.Flights {
		resp.Flights = append(resp.Flights, name)
	}
	for name := range book.Hotels {
		resp.Hotels = append(resp.Hotels, name)
	}
	sort.Strings(resp.Flights)
	sort.Strings(resp.Hotels)
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleRankFlights(c echo.Context) error {
	var req service.FlightRequest
	if err := c.Bind(&req); err != nil {
		return s.badRequest(c, err)
	}
	res, err := s.svc.RankFlights(c.Request().Context(), &req)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) handleRankHotels(c echo.Context) error {
	var req service.HotelRequest
	if err := c.Bind(&req); err != nil {
		return s.badRequest(c, err)
	}
	res, err := s.svc.RankHotels(c.Request().Context(), &req)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) handleRankTrip(c echo.Context) error {
	var req service.TripRequest
	if err := c.Bind(&req); err != nil {
		return s.badRequest(c, err)
	}
	res, err := s.svc.RankTrip(c.Request().Context(), &req)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) handleGetPreferences(c echo.Context) error {
	prefs, err := s.svc.GetPreferences(c.Request().Context(), c.Param("user"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, prefs)
}

func (s *Server) handleSavePreferences(c echo.Context) error {
	var prefs service.Preferences
	if err := c.Bind(&prefs); err != nil {
		return s.badRequest(c, err)
	}
	if err := s.svc.SavePreferences(c.Request().Context(), c.Param("user"), prefs); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, prefs)
}

func (s *Server) handleBlocked(c echo.Context) error {
	return s.respondBlocked(c)
}

func (s *Server) handleBlock(c echo.Context) error {
	if err := s.svc.Block(c.Request().Context(), c.Param("user"), c.Param("value")); err != nil {
		return s.fail(c, err)
	}
	return s.respondBlocked(c)
}

func (s *Server) handleUnblock(c echo.Context) error {
	if err := s.svc.Unblock(c.Request().Context(), c.Param("user"), c.Param("value")); err != nil {
		return s.fail(c, err)
	}
	return s.respondBlocked(c)
}

func (s *Server) respondBlocked(c echo.Context) error {
	user := c.Param("user")
	values, err := s.svc.Blocked(c.Request().Context(), user)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, BlockedResponse{UserID: user, Values: values})
}

func (s *Server) badRequest(c echo.Context, err error) error {
	s.logger.Warn("invalid request body", zap.String("path", c.Path()), zap.Error(err))
	msg := "invalid request body"
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code == http.StatusRequestEntityTooLarge {
		return c.JSON(he.Code, ErrorResponse{Code: core.ErrorCodeInvalidInput, Message: "request body too large"})
	}
	return c.JSON(http.StatusBadRequest, ErrorResponse{Code: core.ErrorCodeInvalidInput, Message: msg})
}

// fail 把 DomainError 映射为 HTTP 状态码。
func (s *Server) fail(c echo.Context, err error) error {
	status, code := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.JSON(status, ErrorResponse{Code: code, Message: err.Error()})
}

func statusOf(err error) (int, string) {
	de := core.GetDomainError(err)
	if de == nil {
		return http.StatusInternalServerError, core.ErrorCodeInternalError
	}
	switch de.Code {
	case core.ErrorCodeInvalidInput:
		return http.StatusBadRequest, de.Code
	case core.ErrorCodeNotFound:
		return http.StatusNotFound, de.Code
	case core.ErrorCodeNotSupported:
		return http.StatusNotImplemented, de.Code
	case core.ErrorCodeUnavailable:
		return http.StatusServiceUnavailable, de.Code
	default:
		return http.StatusInternalServerError, de.Code
	}
}
