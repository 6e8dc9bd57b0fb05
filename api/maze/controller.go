package mazeapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/beka-birhanu/vinom-mazebuilder/api/identity"
	dmn "github.com/beka-birhanu/vinom-mazebuilder/domain"
	"github.com/beka-birhanu/vinom-mazebuilder/maze"
	"github.com/beka-birhanu/vinom-mazebuilder/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const defaultPlayInterval = 100 * time.Millisecond

// MazeController serves maze build sessions.
type MazeController struct {
	sessions     i.BuilderSessionManager
	playInterval time.Duration
}

// NewMazeController initializes a MazeController. playInterval is the delay
// between animated steps when a play request does not name one.
func NewMazeController(sm i.BuilderSessionManager, playInterval time.Duration) (*MazeController, error) {
	if sm == nil {
		return nil, errors.New("builder session manager is required")
	}
	if playInterval <= 0 {
		playInterval = defaultPlayInterval
	}
	return &MazeController{
		sessions:     sm,
		playInterval: playInterval,
	}, nil
}

// RegisterPublic registers public routes.
func (mc *MazeController) RegisterPublic(route *gin.RouterGroup) {}

// RegisterProtected registers protected routes.
func (mc *MazeController) RegisterProtected(route *gin.RouterGroup) {
	mazes := route.Group("/mazes")
	{
		mazes.POST("", mc.create)
		mazes.GET("/:ID", mc.get)
		mazes.DELETE("/:ID", mc.delete)
		mazes.GET("/:ID/ascii", mc.ascii)
		mazes.POST("/:ID/step", mc.step)
		mazes.POST("/:ID/build", mc.build)
		mazes.GET("/:ID/play", mc.play)
		mazes.GET("/:ID/live", mc.live)
	}
}

func (mc *MazeController) create(ctx *gin.Context) {
	var request CreateRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s, err := mc.sessions.NewSession(ctx.Request.Context(), ctx.GetString(identity.ContextUsername), request.Width, request.Height, request.Seed)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, newMazeResponse(s))
}

func (mc *MazeController) get(ctx *gin.Context) {
	s, ok := mc.ownedSession(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, newMazeResponse(s))
}

func (mc *MazeController) delete(ctx *gin.Context) {
	s, ok := mc.ownedSession(ctx)
	if !ok {
		return
	}
	if err := mc.sessions.Delete(ctx.Request.Context(), s.ID); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (mc *MazeController) ascii(ctx *gin.Context) {
	s, ok := mc.ownedSession(ctx)
	if !ok {
		return
	}
	b, _, err := s.Builder()
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.String(http.StatusOK, b.String())
}

func (mc *MazeController) step(ctx *gin.Context) {
	s, ok := mc.ownedSession(ctx)
	if !ok {
		return
	}

	next, m, merged, err := mc.sessions.Step(ctx.Request.Context(), s.ID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, newStepResponse(next, m, merged))
}

func (mc *MazeController) build(ctx *gin.Context) {
	s, ok := mc.ownedSession(ctx)
	if !ok {
		return
	}

	built, merges, err := mc.sessions.Build(ctx.Request.Context(), s.ID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, &BuildResponse{Merges: merges, Maze: newMazeResponse(built)})
}

// play streams one "merge" server-sent event per merge and a final
// "complete" event, stepping once per interval.
func (mc *MazeController) play(ctx *gin.Context) {
	interval := mc.playInterval
	if raw := ctx.Query("interval"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid interval %q", raw)})
			return
		}
		interval = d
	}

	s, ok := mc.ownedSession(ctx)
	if !ok {
		return
	}

	final, err := mc.sessions.Play(ctx.Request.Context(), s.ID, interval, func(next *dmn.Session, m maze.Merge) {
		ctx.SSEvent("merge", newStepResponse(next, m, true))
		ctx.Writer.Flush()
	})
	if errors.Is(err, context.Canceled) {
		return
	}
	if err != nil {
		_, body := errorResponse(err)
		ctx.SSEvent("error", body)
		return
	}

	ctx.SSEvent("complete", newMazeResponse(final))
	ctx.Writer.Flush()
}

// ownedSession loads the session named by the ID path parameter. Sessions of
// other users are reported as missing.
func (mc *MazeController) ownedSession(ctx *gin.Context) (*dmn.Session, bool) {
	id, err := uuid.Parse(ctx.Param("ID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid maze id"})
		return nil, false
	}

	s, err := mc.sessions.Session(ctx.Request.Context(), id)
	if err != nil {
		writeError(ctx, err)
		return nil, false
	}

	if s.Owner != ctx.GetString(identity.ContextUsername) {
		writeError(ctx, i.ErrSessionNotFound)
		return nil, false
	}
	return s, true
}

func writeError(ctx *gin.Context, err error) {
	status, body := errorResponse(err)
	ctx.JSON(status, body)
}

// errorResponse maps a service error to its HTTP status and client-facing
// body. Unexpected errors are not echoed to the client.
func errorResponse(err error) (int, gin.H) {
	switch {
	case errors.Is(err, maze.ErrInvalidDimensions), errors.Is(err, i.ErrDimensionTooLarge):
		return http.StatusBadRequest, gin.H{"error": err.Error()}
	case errors.Is(err, i.ErrSessionNotFound):
		return http.StatusNotFound, gin.H{"error": "maze not found"}
	case errors.Is(err, i.ErrSessionLocked):
		return http.StatusConflict, gin.H{"error": "maze is busy, retry later"}
	default:
		return http.StatusInternalServerError, gin.H{"error": "unexpected error"}
	}
}
