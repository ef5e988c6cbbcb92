// Package api exposes the arena over a JSON REST API and a websocket battle
// stream.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/game/character"
	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/gameserver"
	"github.com/cory-johannsen/duel/internal/observability"
)

// Arena is the service surface the API drives.
type Arena interface {
	CreateCharacter(ctx context.Context, name string, job character.Job) (*character.Character, error)
	ListCharacters(ctx context.Context) ([]*character.Character, error)
	Character(ctx context.Context, id string) (*character.Character, error)
	ChangeJob(ctx context.Context, id string, job character.Job) (*character.Character, error)
	LevelUp(ctx context.Context, id string) (*character.Character, error)
	DeleteCharacter(ctx context.Context, id string) error
	AvailableJobs() []character.Job
	JobDetails(job character.Job) []character.JobDetail
	StartBattle(ctx context.Context, id1, id2 string, observer func(string)) (*gameserver.Report, error)
	Simulate(ctx context.Context, p1, p2 any, observer func(string)) (combat.Result, error)
	Battles(ctx context.Context) ([]*combat.History, error)
	Battle(ctx context.Context, id int64) (*combat.History, error)
}

// Handler serves the REST API.
type Handler struct {
	arena    Arena
	logger   *zap.Logger
	upgrader websocket.Upgrader
	now      func() time.Time
}

// NewHandler creates a Handler.
//
// Precondition: arena and logger must be non-nil.
func NewHandler(arena Arena, logger *zap.Logger) *Handler {
	if arena == nil {
		panic("api.NewHandler: arena must not be nil")
	}
	if logger == nil {
		panic("api.NewHandler: logger must not be nil")
	}
	return &Handler{
		arena:  arena,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		now: time.Now,
	}
}

// NewRouter builds the gin engine with every route mounted under /api.
//
// Postcondition: Returns an engine with request logging and panic recovery.
func NewRouter(h *Handler, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(observability.RequestLogger(logger), observability.Recovery(logger))
	r.GET("/", h.root)

	api := r.Group("/api")
	{
		api.GET("/health", h.health)
		api.GET("/battle/health", h.battleHealth)

		chars := api.Group("/characters")
		chars.GET("/jobs", h.availableJobs)
		chars.GET("/job-details", h.jobDetails)
		chars.GET("/job-details/:job", h.jobDetails)
		chars.POST("", h.createCharacter)
		chars.GET("", h.listCharacters)
		chars.GET("/:id", h.getCharacter)
		chars.PUT("/:id", h.updateCharacter)
		chars.POST("/:id/level-up", h.levelUp)
		chars.DELETE("/:id", h.deleteCharacter)

		battles := api.Group("/battles")
		battles.POST("", h.startBattle)
		battles.POST("/simulate", h.simulate)
		battles.GET("", h.listBattles)
		battles.GET("/stream", h.stream)
		battles.GET("/:id", h.getBattle)
	}
	return r
}

func (h *Handler) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to the duel arena API",
		"health":  "/api/health",
	})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "API is running correctly",
		"timestamp": h.now(),
	})
}

func (h *Handler) battleHealth(c *gin.Context) {
	battles, err := h.arena.Battles(c.Request.Context())
	if err != nil {
		h.serverError(c, "Battle system unavailable", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "Battle system is ready",
		"battles":   len(battles),
		"timestamp": h.now(),
	})
}

func success(c *gin.Context, status int, data gin.H) {
	c.JSON(status, gin.H{"status": "success", "data": data})
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"status": "fail", "message": message})
}

func (h *Handler) serverError(c *gin.Context, message string, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"status":  "fail",
		"message": message,
		"details": err.Error(),
	})
}

// isClientError reports whether err was caused by the request rather than
// the server.
func isClientError(err error) bool {
	for _, target := range []error{
		character.ErrInvalidName,
		character.ErrInvalidJob,
		gameserver.ErrMissingCharacterID,
		gameserver.ErrSelfBattle,
		combat.ErrMissingParticipant,
		combat.ErrInvalidParticipant,
		combat.ErrMissingIdentity,
		combat.ErrInvalidName,
		combat.ErrInvalidJob,
		combat.ErrInvalidVitality,
		combat.ErrSameParticipant,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
