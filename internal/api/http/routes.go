package httpapi

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/i474232898/city-weather/internal/render"
	"github.com/i474232898/city-weather/internal/session"
	"github.com/i474232898/city-weather/internal/store"
)

// SessionCookie carries the browser session id.
const SessionCookie = "cw_session"

// InFlightMessage is shown when a search is triggered while one is loading.
const InFlightMessage = "A search is already in progress."

// SessionNotFoundMessage is returned when a state read names no live session.
const SessionNotFoundMessage = "session not found"

var validate = validator.New()

// Sessions resolves a session id to its controller.
type Sessions interface {
	GetOrCreate(id string) *session.Controller
	Get(id string) (*session.Controller, error)
}

// ErrorHandler renders errors returned by handlers as JSON. Only fiber.Error
// messages reach the client; anything else is logged and reported as a
// plain 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var e *fiber.Error
	if !errors.As(err, &e) {
		slog.Error("unhandled request error",
			"method", c.Method(),
			"path", c.Path(),
			"error", err)
		e = fiber.ErrInternalServerError
	}
	return c.Status(e.Code).JSON(fiber.Map{
		"error":   true,
		"message": e.Message,
	})
}

// RegisterRoutes wires the page, the JSON API and the health check into app.
func RegisterRoutes(app *fiber.App, sessions Sessions, mode string) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "city-weather",
			"mode":    mode,
		})
	})

	app.Get("/", func(c *fiber.Ctx) error {
		ctrl := controllerFor(c, sessions)
		return renderPage(c, fiber.StatusOK, ctrl, "")
	})

	app.Post("/", func(c *fiber.Ctx) error {
		ctrl := controllerFor(c, sessions)
		// fiber reuses request buffers; copy anything that outlives the handler.
		city := strings.Clone(c.FormValue("city"))
		ctrl.SetInput(city)

		switch err := ctrl.Start(city); {
		case errors.Is(err, session.ErrEmptyCity):
			return renderPage(c, fiber.StatusBadRequest, ctrl, session.ValidationMessage)
		case errors.Is(err, session.ErrFetchInFlight):
			return renderPage(c, fiber.StatusConflict, ctrl, InFlightMessage)
		case err != nil:
			return err
		}
		return c.Redirect("/", fiber.StatusSeeOther)
	})

	v1 := app.Group("/api/v1")

	// Reading state never mints a session.
	v1.Get("/weather", func(c *fiber.Ctx) error {
		ctrl, err := sessions.Get(c.Cookies(SessionCookie))
		if errors.Is(err, store.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, SessionNotFoundMessage)
		}
		if err != nil {
			return err
		}
		return c.JSON(newStateResponse(ctrl.Input(), ctrl.State()))
	})

	v1.Post("/weather", func(c *fiber.Ctx) error {
		var req weatherRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		req.City = strings.TrimSpace(req.City)
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, session.ValidationMessage)
		}

		ctrl := controllerFor(c, sessions)
		st, err := ctrl.Fetch(c.UserContext(), req.City)
		switch {
		case errors.Is(err, session.ErrEmptyCity):
			return fiber.NewError(fiber.StatusBadRequest, session.ValidationMessage)
		case errors.Is(err, session.ErrFetchInFlight):
			return fiber.NewError(fiber.StatusConflict, InFlightMessage)
		case err != nil:
			return err
		}
		return c.JSON(newStateResponse(ctrl.Input(), st))
	})
}

// weatherRequest is the JSON body of POST /api/v1/weather.
type weatherRequest struct {
	City string `json:"city" form:"city" validate:"required"`
}

// stateResponse is the JSON view of a session.
type stateResponse struct {
	Status session.Status `json:"status"`
	Input  string         `json:"input"`
	View   render.View    `json:"view"`
}

func newStateResponse(input string, st session.State) stateResponse {
	return stateResponse{
		Status: st.Status,
		Input:  input,
		View:   render.Project(st),
	}
}

func renderPage(c *fiber.Ctx, status int, ctrl *session.Controller, alert string) error {
	body, err := render.Page(render.PageData{
		Input: ctrl.Input(),
		Alert: alert,
		View:  render.Project(ctrl.State()),
	})
	if err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Status(status).Send(body)
}

// controllerFor returns the caller's session controller, issuing a new
// session cookie when the request carries none or an invalid one.
func controllerFor(c *fiber.Ctx, sessions Sessions) *session.Controller {
	id := strings.Clone(c.Cookies(SessionCookie))
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     SessionCookie,
			Value:    id,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
	return sessions.GetOrCreate(id)
}
