package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cory-johannsen/duel/internal/game/character"
)

type createCharacterRequest struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

type updateCharacterRequest struct {
	Job string `json:"job"`
}

func (h *Handler) availableJobs(c *gin.Context) {
	success(c, http.StatusOK, gin.H{"availableJobs": h.arena.AvailableJobs()})
}

func (h *Handler) jobDetails(c *gin.Context) {
	job := character.Job(c.Param("job"))
	details := h.arena.JobDetails(job)
	if job != "" && len(details) == 0 {
		fail(c, http.StatusNotFound, fmt.Sprintf("Job %s not found", job))
		return
	}
	success(c, http.StatusOK, gin.H{"jobDetails": details})
}

func (h *Handler) createCharacter(c *gin.Context) {
	var req createCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" || req.Job == "" {
		fail(c, http.StatusBadRequest, "Character name and job are required")
		return
	}
	created, err := h.arena.CreateCharacter(c.Request.Context(), req.Name, character.Job(req.Job))
	if err != nil {
		h.characterError(c, "", err)
		return
	}
	success(c, http.StatusCreated, gin.H{"character": created})
}

func (h *Handler) listCharacters(c *gin.Context) {
	chars, err := h.arena.ListCharacters(c.Request.Context())
	if err != nil {
		h.serverError(c, "Failed to list characters", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"results": len(chars),
		"data":    gin.H{"characters": chars},
	})
}

func (h *Handler) getCharacter(c *gin.Context) {
	id := c.Param("id")
	ch, err := h.arena.Character(c.Request.Context(), id)
	if err != nil {
		h.characterError(c, id, err)
		return
	}
	success(c, http.StatusOK, gin.H{"character": ch})
}

func (h *Handler) updateCharacter(c *gin.Context) {
	id := c.Param("id")
	var req updateCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Job == "" {
		fail(c, http.StatusBadRequest, character.ErrInvalidJob.Error())
		return
	}
	ch, err := h.arena.ChangeJob(c.Request.Context(), id, character.Job(req.Job))
	if err != nil {
		h.characterError(c, id, err)
		return
	}
	success(c, http.StatusOK, gin.H{"character": ch})
}

func (h *Handler) levelUp(c *gin.Context) {
	id := c.Param("id")
	ch, err := h.arena.LevelUp(c.Request.Context(), id)
	if err != nil {
		h.characterError(c, id, err)
		return
	}
	success(c, http.StatusOK, gin.H{"character": ch})
}

func (h *Handler) deleteCharacter(c *gin.Context) {
	id := c.Param("id")
	if err := h.arena.DeleteCharacter(c.Request.Context(), id); err != nil {
		h.characterError(c, id, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// characterError maps an arena error on a character route to a response.
func (h *Handler) characterError(c *gin.Context, id string, err error) {
	switch {
	case errors.Is(err, character.ErrNotFound):
		fail(c, http.StatusNotFound, fmt.Sprintf("Character with ID %s not found", id))
	case isClientError(err):
		fail(c, http.StatusBadRequest, err.Error())
	default:
		h.serverError(c, "Server error", err)
	}
}
