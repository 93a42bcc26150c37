package remote

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Poster accepts actions. *Inbox is the production implementation.
type Poster interface {
	Post(Action) error
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type acceptedResponse struct {
	Success bool   `json:"success"`
	Action  Action `json:"action"`
}

// Server exposes the action inbox on a loopback HTTP endpoint so scripts and
// notification helpers can complete or dismiss items.
type Server struct {
	app    *fiber.App
	inbox  Poster
	logger *slog.Logger
}

func NewServer(inbox Poster, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		app: fiber.New(fiber.Config{
			AppName:               "streakd",
			DisableStartupMessage: true,
		}),
		inbox:  inbox,
		logger: logger,
	}
	s.app.Use(requestLogger(logger))
	s.app.Get("/v1/health", s.health)
	s.app.Post("/v1/actions", s.postAction)
	return s
}

// App exposes the underlying fiber app for in-process testing.
func (s *Server) App() *fiber.App {
	return s.app
}

// ListenContext serves on addr until ctx is cancelled.
func (s *Server) ListenContext(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(addr)
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		if err := s.app.ShutdownWithTimeout(5 * time.Second); err != nil {
			return err
		}
		<-errCh
		return nil
	}
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true})
}

func (s *Server) postAction(c *fiber.Ctx) error {
	var a Action
	if err := c.BodyParser(&a); err != nil {
		return respondError(c, fiber.StatusBadRequest, err)
	}
	if a.Source == "" {
		a.Source = "http"
	}
	if err := s.inbox.Post(a); err != nil {
		switch {
		case errors.Is(err, ErrInvalidAction):
			return respondError(c, fiber.StatusUnprocessableEntity, err)
		case errors.Is(err, ErrInboxFull), errors.Is(err, ErrInboxClosed):
			s.logger.Warn("remote action rejected", "action", a.Action, "error", err)
			return respondError(c, fiber.StatusServiceUnavailable, err)
		default:
			return respondError(c, fiber.StatusInternalServerError, err)
		}
	}
	return c.Status(fiber.StatusAccepted).JSON(acceptedResponse{Success: true, Action: a})
}

func respondError(c *fiber.Ctx, status int, err error) error {
	return c.Status(status).JSON(errorResponse{
		Success: false,
		Error:   http.StatusText(status),
		Message: err.Error(),
	})
}

func requestLogger(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		logger.Debug("remote request",
			"ip", c.IP(),
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"latency", time.Since(start),
		)
		return err
	}
}
