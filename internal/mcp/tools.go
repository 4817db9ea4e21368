package mcp

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tessera/internal/engine"
)

// activeSession is the singleton match (one per stdio process).
var activeSession *matchSession

// RegisterTools adds all match tools to the MCP server.
func RegisterTools(s *server.MCPServer) {
	s.AddTool(startMatchTool(), handleStartMatch)
	s.AddTool(getStateTool(), handleGetState)
	s.AddTool(listMovesTool(), handleListMoves)
	s.AddTool(playMoveTool(), handlePlayMove)
	s.AddTool(jokerStepTool(), handleJokerStep)
	s.AddTool(endJokerTurnTool(), handleEndJokerTurn)
}

// --- Tool definitions ---

func startMatchTool() mcp.Tool {
	return mcp.NewTool("start_match",
		mcp.WithDescription("Start a new hotseat tessera match on a fresh 4x4 board. Both seats (red goes first, then blue) "+
			"are played through these tools. Returns the initial state, with red's joker turn already open."),
		mcp.WithNumber("seed", mcp.Description("Optional deal seed for a reproducible board; omit or pass 0 for a random deal.")),
	)
}

func getStateTool() mcp.Tool {
	return mcp.NewTool("get_state",
		mcp.WithDescription("Get the current board, whose turn it is, and the legal options: either an open joker turn "+
			"with its next steps, or the legal destinations with one exemplar path each. Read-only."),
	)
}

func listMovesTool() mcp.Tool {
	return mcp.NewTool("list_moves",
		mcp.WithDescription("List every completed move of the match in order. Read-only."),
	)
}

func playMoveTool() mcp.Tool {
	return mcp.NewTool("play_move",
		mcp.WithDescription("Play a full move for the player whose turn it is. The path starts at the mover's cell and "+
			"names every cell walked, e.g. '1,1 1,2 2,2'. Not usable while a joker turn has steps taken; use joker_step instead."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Space-separated row,col pairs from the mover's cell to the destination (0-indexed).")),
	)
}

func jokerStepTool() mcp.Tool {
	return mcp.NewTool("joker_step",
		mcp.WithDescription("Take one step of the open joker turn. After the fourth step the turn completes on its own."),
		mcp.WithNumber("row", mcp.Required(), mcp.Description("Row of the adjacent cell to step to (0-3).")),
		mcp.WithNumber("col", mcp.Required(), mcp.Description("Column of the adjacent cell to step to (0-3).")),
	)
}

func endJokerTurnTool() mcp.Tool {
	return mcp.NewTool("end_joker_turn",
		mcp.WithDescription("End the open joker turn where it stands. Requires at least one step taken."),
	)
}

// --- Tool handlers ---

func handleStartMatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	seed := int64(request.GetInt("seed", 0))
	sess, err := newMatchSession(seed)
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start match: %v", err), nil
	}
	activeSession = sess

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return mcp.NewToolResultText(respondJSON(sess.buildState())), nil
}

func handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := activeSession
	if sess == nil {
		return mcp.NewToolResultError("No match is running. Use start_match first."), nil
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return mcp.NewToolResultText(respondJSON(sess.buildState())), nil
}

func handleListMoves(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := activeSession
	if sess == nil {
		return mcp.NewToolResultError("No match is running. Use start_match first."), nil
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return mcp.NewToolResultText(respondJSON(sess.history())), nil
}

func handlePlayMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := activeSession
	if sess == nil {
		return mcp.NewToolResultError("No match is running. Use start_match first."), nil
	}

	path, err := parsePath(request.GetString("path", ""))
	if err != nil {
		return mcp.NewToolResultErrorf("Invalid path: %v", err), nil
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := sess.game.ApplyMove(sess.game.Active, path); err != nil {
		return mcp.NewToolResultErrorf("Illegal move: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(sess.buildState())), nil
}

func handleJokerStep(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := activeSession
	if sess == nil {
		return mcp.NewToolResultError("No match is running. Use start_match first."), nil
	}

	row := request.GetInt("row", -1)
	col := request.GetInt("col", -1)
	if row < 0 || row >= engine.Size || col < 0 || col >= engine.Size {
		return mcp.NewToolResultErrorf("row and col must be 0-%d.", engine.Size-1), nil
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := sess.game.JokerStep(sess.game.Active, engine.Pos{Row: row, Col: col}); err != nil {
		return mcp.NewToolResultErrorf("Illegal step: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(sess.buildState())), nil
}

func handleEndJokerTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := activeSession
	if sess == nil {
		return mcp.NewToolResultError("No match is running. Use start_match first."), nil
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := sess.game.EndJokerTurn(sess.game.Active); err != nil {
		return mcp.NewToolResultErrorf("Cannot end joker turn: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(sess.buildState())), nil
}

// parsePath parses "r,c r,c ..." into board positions.
func parsePath(s string) ([]engine.Pos, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, fmt.Errorf("path is empty")
	}
	path := make([]engine.Pos, 0, len(fields))
	for _, f := range fields {
		rc := strings.SplitN(f, ",", 2)
		if len(rc) != 2 {
			return nil, fmt.Errorf("%q is not a row,col pair", f)
		}
		row, err := strconv.Atoi(rc[0])
		if err != nil {
			return nil, fmt.Errorf("%q is not a row,col pair", f)
		}
		col, err := strconv.Atoi(rc[1])
		if err != nil {
			return nil, fmt.Errorf("%q is not a row,col pair", f)
		}
		path = append(path, engine.Pos{Row: row, Col: col})
	}
	return path, nil
}
