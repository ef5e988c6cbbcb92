package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cory-johannsen/duel/internal/game/character"
	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/gameserver"
)

type startBattleRequest struct {
	Character1ID string `json:"character1Id" form:"character1Id"`
	Character2ID string `json:"character2Id" form:"character2Id"`
}

type simulateRequest struct {
	Character1 map[string]any `json:"character1"`
	Character2 map[string]any `json:"character2"`
}

type winnerSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Job         string `json:"job"`
	RemainingHP int    `json:"remainingHp"`
}

type loserSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Job  string `json:"job"`
}

// battleResponse is the summary returned for a finished battle.
type battleResponse struct {
	BattleID  int64          `json:"battleId,omitempty"`
	Winner    winnerSummary  `json:"winner"`
	Loser     loserSummary   `json:"loser"`
	Rounds    int            `json:"rounds"`
	Outcome   combat.Outcome `json:"outcome"`
	BattleLog []string       `json:"battleLog"`
}

func newBattleResponse(res combat.Result) battleResponse {
	return battleResponse{
		Winner: winnerSummary{
			ID:          res.Winner.ID,
			Name:        res.Winner.Name,
			Job:         res.Winner.Job,
			RemainingHP: res.Winner.CurrentVitality,
		},
		Loser: loserSummary{
			ID:   res.Loser.ID,
			Name: res.Loser.Name,
			Job:  res.Loser.Job,
		},
		Rounds:    res.Rounds,
		Outcome:   res.Outcome,
		BattleLog: res.Log,
	}
}

func reportResponse(r *gameserver.Report) battleResponse {
	resp := newBattleResponse(r.Result)
	if r.History != nil {
		resp.BattleID = r.History.ID
	}
	return resp
}

func (h *Handler) startBattle(c *gin.Context) {
	var req startBattleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Both character IDs are required")
		return
	}
	report, err := h.arena.StartBattle(c.Request.Context(), req.Character1ID, req.Character2ID, nil)
	if err != nil {
		status, message := battleErrorResponse(err)
		if status == http.StatusInternalServerError {
			h.serverError(c, message, err)
			return
		}
		fail(c, status, message)
		return
	}
	c.JSON(http.StatusOK, reportResponse(report))
}

func (h *Handler) simulate(c *gin.Context) {
	var req simulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Request body must be a JSON object")
		return
	}
	res, err := h.arena.Simulate(c.Request.Context(), participant(req.Character1), participant(req.Character2), nil)
	if err != nil {
		status, message := battleErrorResponse(err)
		if status == http.StatusInternalServerError {
			h.serverError(c, message, err)
			return
		}
		fail(c, status, message)
		return
	}
	success(c, http.StatusOK, gin.H{"battle": newBattleResponse(res)})
}

// participant converts an absent record into an untyped nil so that it is
// reported as missing rather than invalid.
func participant(m map[string]any) any {
	if m == nil {
		return nil
	}
	return m
}

func (h *Handler) listBattles(c *gin.Context) {
	battles, err := h.arena.Battles(c.Request.Context())
	if err != nil {
		h.serverError(c, "Failed to list battles", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"results": len(battles),
		"data":    gin.H{"battles": battles},
	})
}

func (h *Handler) getBattle(c *gin.Context) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fail(c, http.StatusNotFound, fmt.Sprintf("Battle with ID %s not found", raw))
		return
	}
	b, err := h.arena.Battle(c.Request.Context(), id)
	if errors.Is(err, combat.ErrBattleNotFound) {
		fail(c, http.StatusNotFound, fmt.Sprintf("Battle with ID %s not found", raw))
		return
	}
	if err != nil {
		h.serverError(c, "Failed to load battle", err)
		return
	}
	success(c, http.StatusOK, gin.H{"battle": b})
}

// battleErrorResponse maps a battle error to a status code and message.
func battleErrorResponse(err error) (int, string) {
	var missing *gameserver.MissingCharacterError
	switch {
	case errors.Is(err, gameserver.ErrMissingCharacterID):
		return http.StatusBadRequest, "Both character IDs are required"
	case errors.Is(err, gameserver.ErrSelfBattle):
		return http.StatusBadRequest, "A character cannot battle itself"
	case errors.As(err, &missing):
		return http.StatusNotFound, fmt.Sprintf("Character with ID %s not found", missing.ID)
	case errors.Is(err, character.ErrNotFound):
		return http.StatusNotFound, "Character not found"
	case isClientError(err):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "Server error during battle"
	}
}
