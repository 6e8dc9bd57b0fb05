package mazeapi

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Commands accepted on the live socket.
const (
	actionStep  = "step"
	actionBuild = "build"
	actionState = "state"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// liveCommand is one client message on the live socket.
type liveCommand struct {
	Action string `json:"action"`
}

// live upgrades to a websocket on which the client drives the build one
// command at a time. Each command gets exactly one JSON reply.
func (mc *MazeController) live(ctx *gin.Context) {
	s, ok := mc.ownedSession(ctx)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		// Upgrade has already answered the request.
		return
	}
	defer conn.Close()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var reply any
		var cmd liveCommand
		if err := json.Unmarshal(message, &cmd); err != nil {
			reply = gin.H{"error": "malformed command"}
		} else if reply, err = mc.runCommand(ctx.Request.Context(), s.ID, cmd); err != nil {
			_, reply = errorResponse(err)
		}

		if err := conn.WriteJSON(reply); err != nil {
			return
		}
	}
}

func (mc *MazeController) runCommand(ctx context.Context, id uuid.UUID, cmd liveCommand) (any, error) {
	switch cmd.Action {
	case actionStep:
		next, m, merged, err := mc.sessions.Step(ctx, id)
		if err != nil {
			return nil, err
		}
		return newStepResponse(next, m, merged), nil
	case actionBuild:
		built, merges, err := mc.sessions.Build(ctx, id)
		if err != nil {
			return nil, err
		}
		return &BuildResponse{Merges: merges, Maze: newMazeResponse(built)}, nil
	case actionState:
		s, err := mc.sessions.Session(ctx, id)
		if err != nil {
			return nil, err
		}
		return newMazeResponse(s), nil
	default:
		return gin.H{"error": fmt.Sprintf("unknown action %q", cmd.Action)}, nil
	}
}

