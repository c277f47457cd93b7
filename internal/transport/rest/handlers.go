package rest

import (
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"time"

	"github.com/labstack/echo/v4"

	"openslot/internal/domain"
	"openslot/internal/service/scheduling"
)

const (
	dateLayout    = "2006-01-02"
	instantLayout = "2006-01-02T15:04:05"
)

type timeSlotPayload struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type availabilitySetupRequest struct {
	OwnerName    string                       `json:"owner_name"`
	OwnerEmail   string                       `json:"owner_email"`
	Availability map[string][]timeSlotPayload `json:"availability"`
}

func (s *Server) handleAvailabilitySetup(c echo.Context) error {
	log := s.log.With(slog.String("handler", "AvailabilitySetup"))

	var req availabilitySetupRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("invalid request", slog.String("reason", "bad_body"))
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid request body."})
	}
	if !validEmail(req.OwnerEmail) {
		log.Warn("invalid request", slog.String("reason", "bad_owner_email"))
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "A valid owner_email is required."})
	}

	days := make(map[string][]scheduling.WindowInput, len(req.Availability))
	for day, slots := range req.Availability {
		wins := make([]scheduling.WindowInput, 0, len(slots))
		for _, slot := range slots {
			start, err := domain.ParseTimeOfDay(slot.StartTime)
			if err != nil {
				log.Warn("invalid request", slog.String("reason", "bad_start_time"), slog.String("day", day))
				return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid start_time for " + day + "."})
			}
			end, err := domain.ParseTimeOfDay(slot.EndTime)
			if err != nil {
				log.Warn("invalid request", slog.String("reason", "bad_end_time"), slog.String("day", day))
				return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid end_time for " + day + "."})
			}
			wins = append(wins, scheduling.WindowInput{Start: start, End: end})
		}
		days[day] = wins
	}

	owner, err := s.svc.SetAvailability(c.Request().Context(), scheduling.SetAvailabilityInput{
		OwnerName:  req.OwnerName,
		OwnerEmail: req.OwnerEmail,
		Days:       days,
	})
	if err != nil {
		return s.writeServiceError(c, log, err)
	}

	log.Info("availability set",
		slog.String("owner_id", owner.ID.String()),
		slog.String("owner_email", owner.Email),
		slog.Int("days", len(days)),
	)
	return c.JSON(http.StatusCreated, messageResponse{Message: "Availability set successfully!"})
}

func (s *Server) handleSearchAvailableSlots(c echo.Context) error {
	log := s.log.With(slog.String("handler", "SearchAvailableSlots"))

	ownerEmail := c.QueryParam("owner_email")
	if !validEmail(ownerEmail) {
		log.Warn("invalid request", slog.String("reason", "bad_owner_email"))
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "A valid owner_email is required."})
	}
	date, err := time.Parse(dateLayout, c.QueryParam("date"))
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "bad_date"))
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "A date in YYYY-MM-DD format is required."})
	}

	slots, err := s.svc.AvailableSlots(c.Request().Context(), ownerEmail, date)
	if err != nil {
		if errors.Is(err, scheduling.ErrPastTime) {
			log.Warn("invalid request", slog.String("reason", "past_date"))
			return c.JSON(http.StatusBadRequest, messageResponse{Message: "Cannot search availability for past dates."})
		}
		return s.writeServiceError(c, log, err)
	}

	out := make([]timeSlotPayload, 0, len(slots))
	for _, slot := range slots {
		out = append(out, timeSlotPayload{
			StartTime: slot.Start.Format(instantLayout),
			EndTime:   slot.End.Format(instantLayout),
		})
	}

	log.Info("slots resolved", slog.String("owner_email", ownerEmail), slog.Int("count", len(out)))
	return c.JSON(http.StatusOK, out)
}

type bookAppointmentRequest struct {
	OwnerEmail   string `json:"owner_email"`
	InviteeName  string `json:"invitee_name"`
	InviteeEmail string `json:"invitee_email"`
	StartTime    string `json:"start_time"`
	Agenda       string `json:"agenda"`
}

type appointmentPayload struct {
	InviteeName  string `json:"invitee_name"`
	InviteeEmail string `json:"invitee_email"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Agenda       string `json:"agenda,omitempty"`
}

func toAppointmentPayload(a domain.Appointment) appointmentPayload {
	return appointmentPayload{
		InviteeName:  a.InviteeName,
		InviteeEmail: a.InviteeEmail,
		StartTime:    a.StartTime.Format(instantLayout),
		EndTime:      a.EndTime.Format(instantLayout),
		Agenda:       a.Agenda,
	}
}

func (s *Server) handleBookAppointment(c echo.Context) error {
	log := s.log.With(slog.String("handler", "BookAppointment"))

	var req bookAppointmentRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("invalid request", slog.String("reason", "bad_body"))
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid request body."})
	}
	if !validEmail(req.OwnerEmail) {
		log.Warn("invalid request", slog.String("reason", "bad_owner_email"))
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "A valid owner_email is required."})
	}
	if !validEmail(req.InviteeEmail) {
		log.Warn("invalid request", slog.String("reason", "bad_invitee_email"))
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "A valid invitee_email is required."})
	}
	start, err := parseInstant(req.StartTime)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "bad_start_time"))
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "A start_time in YYYY-MM-DDTHH:MM:SS format is required."})
	}

	appt, err := s.svc.Book(c.Request().Context(), scheduling.BookInput{
		OwnerEmail:   req.OwnerEmail,
		InviteeName:  req.InviteeName,
		InviteeEmail: req.InviteeEmail,
		StartTime:    start,
		Agenda:       req.Agenda,
	})
	if err != nil {
		return s.writeServiceError(c, log, err)
	}

	log.Info("appointment booked",
		slog.String("appointment_id", appt.ID.String()),
		slog.String("owner_email", req.OwnerEmail),
		slog.Time("start_time", appt.StartTime),
	)
	return c.JSON(http.StatusCreated, map[string]any{
		"message":     "Appointment booked successfully!",
		"appointment": toAppointmentPayload(appt),
	})
}

func (s *Server) handleListUpcomingAppointments(c echo.Context) error {
	log := s.log.With(slog.String("handler", "ListUpcomingAppointments"))

	ownerEmail := c.QueryParam("owner_email")
	if !validEmail(ownerEmail) {
		log.Warn("invalid request", slog.String("reason", "bad_owner_email"))
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "A valid owner_email is required."})
	}

	appts, err := s.svc.UpcomingAppointments(c.Request().Context(), ownerEmail)
	if err != nil {
		return s.writeServiceError(c, log, err)
	}

	out := make([]appointmentPayload, 0, len(appts))
	for _, a := range appts {
		out = append(out, toAppointmentPayload(a))
	}

	log.Info("appointments listed", slog.String("owner_email", ownerEmail), slog.Int("count", len(out)))
	return c.JSON(http.StatusOK, out)
}

func parseInstant(s string) (time.Time, error) {
	t, err := time.Parse(instantLayout, s)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func validEmail(s string) bool {
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
