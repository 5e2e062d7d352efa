package servers

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo"
	"github.com/reusee/steina/blocks"
	"github.com/reusee/steina/logs"
	"github.com/reusee/steina/steinavm"
	"github.com/reusee/steina/targets"
)

// Server is the HTTP control and editor surface. Handlers never mutate
// runtime state directly: mutations are posted to the runtime inbox and
// applied by the tick loop; reads are best-effort snapshots.
type Server struct {
	runtime    *steinavm.Runtime
	extensions []blocks.Extension
	logger     logs.Logger
}

func New(runtime *steinavm.Runtime, extensions []blocks.Extension, logger logs.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		runtime:    runtime,
		extensions: extensions,
		logger:     logger,
	}
}

func (s *Server) Router() *echo.Echo {
	r := echo.New()
	r.HideBanner = true

	api := r.Group("/api")
	api.GET("/extensions", s.handleExtensions)
	api.GET("/menus/:extension/:menu", s.handleMenu)
	api.GET("/state", s.handleState)
	api.GET("/targets/:id", s.handleTarget)
	api.POST("/motion", s.handleMotion)
	api.POST("/tap/:id", s.handleTap)
	api.POST("/stop", s.handleStop)

	return r
}

func (s *Server) handleExtensions(c echo.Context) error {
	infos := make([]blocks.ExtensionInfo, 0, len(s.extensions))
	for _, extension := range s.extensions {
		infos = append(infos, extension.Info())
	}
	return c.JSON(http.StatusOK, infos)
}

func (s *Server) handleMenu(c echo.Context) error {
	extensionID := c.Param("extension")
	menuName := c.Param("menu")
	for _, extension := range s.extensions {
		info := extension.Info()
		if info.ID != extensionID {
			continue
		}
		menu, ok := info.Menus[menuName]
		if !ok {
			break
		}
		if menu.Build != nil {
			return c.JSON(http.StatusOK, menu.Build(c.QueryParam("target")))
		}
		return c.JSON(http.StatusOK, menu.Items)
	}
	return echo.NewHTTPError(http.StatusNotFound, "no such menu")
}

func (s *Server) handleState(c echo.Context) error {
	return c.JSON(http.StatusOK, s.runtime.Snapshot())
}

func (s *Server) handleTarget(c echo.Context) error {
	switch target := s.runtime.TargetByID(c.Param("id")).(type) {
	case *targets.VideoTarget:
		return c.JSON(http.StatusOK, target.Save())
	case *targets.AudioTarget:
		return c.JSON(http.StatusOK, target.Save())
	}
	return echo.NewHTTPError(http.StatusNotFound, "no such target")
}

func (s *Server) handleMotion(c echo.Context) error {
	var motion steinavm.Motion
	if err := c.Bind(&motion); err != nil {
		return err
	}
	s.runtime.Post(func() {
		s.runtime.Motion = motion
	})
	return c.NoContent(http.StatusAccepted)
}

func (s *Server) handleTap(c echo.Context) error {
	id := c.Param("id")
	if _, ok := s.runtime.TargetByID(id).(*targets.VideoTarget); !ok {
		return echo.NewHTTPError(http.StatusNotFound, "no such target")
	}
	s.runtime.Post(func() {
		if target, ok := s.runtime.TargetByID(id).(*targets.VideoTarget); ok {
			target.Tap()
		}
	})
	return c.NoContent(http.StatusAccepted)
}

func (s *Server) handleStop(c echo.Context) error {
	s.logger.Info("stop all requested")
	s.runtime.Post(func() {
		s.runtime.Emit(steinavm.ProjectStopAll)
	})
	return c.NoContent(http.StatusAccepted)
}
