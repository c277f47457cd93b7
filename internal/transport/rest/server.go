package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"openslot/internal/domain"
	"openslot/internal/service/scheduling"
)

// SchedulingService is the slice of the scheduling core the transport needs.
type SchedulingService interface {
	SetAvailability(ctx context.Context, in scheduling.SetAvailabilityInput) (domain.CalendarOwner, error)
	AvailableSlots(ctx context.Context, ownerEmail string, date time.Time) ([]domain.Slot, error)
	Book(ctx context.Context, in scheduling.BookInput) (domain.Appointment, error)
	UpcomingAppointments(ctx context.Context, ownerEmail string) ([]domain.Appointment, error)
}

type Server struct {
	svc SchedulingService
	log *slog.Logger
}

func NewServer(svc SchedulingService, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		svc: svc,
		log: log.With(slog.String("component", "rest.scheduling")),
	}
}

func (s *Server) Register(e *echo.Echo) {
	api := e.Group("/api")
	api.POST("/availability/setup/", s.handleAvailabilitySetup)
	api.GET("/availability/search/", s.handleSearchAvailableSlots)
	api.POST("/appointment/book/", s.handleBookAppointment)
	api.GET("/appointments", s.handleListUpcomingAppointments)
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Server) writeServiceError(c echo.Context, log *slog.Logger, err error) error {
	switch {
	case errors.Is(err, scheduling.ErrOwnerNotFound):
		return c.JSON(http.StatusNotFound, messageResponse{Message: "Calendar owner not found"})
	case errors.Is(err, scheduling.ErrPastTime):
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Appointments cannot be scheduled in the past."})
	case errors.Is(err, scheduling.ErrSlotNotAligned):
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Slot must start at the top of the hour."})
	case errors.Is(err, scheduling.ErrSlotTaken):
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "This slot is already booked."})
	case errors.Is(err, scheduling.ErrSlotNotAvailable):
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "This slot is not available."})
	}

	var vErr *scheduling.ValidationError
	if errors.As(err, &vErr) {
		log.Warn("invalid request", slog.Any("err", err))
		return c.JSON(http.StatusBadRequest, messageResponse{Message: vErr.Error()})
	}

	log.Error("storage unavailable", slog.Any("err", err))
	return c.JSON(http.StatusServiceUnavailable, messageResponse{Message: "Service temporarily unavailable."})
}
