package handlers

import (
	"errors"
	"net/http"

	"notekit/internal/auth"
	dom "notekit/internal/domain"
	"notekit/internal/dto"
	"notekit/internal/repo"
	"notekit/internal/service"

	"github.com/gin-gonic/gin"
)

type NoteHandler struct {
	svc *service.NoteService
}

func NewNoteHandler(svc *service.NoteService) *NoteHandler {
	return &NoteHandler{svc: svc}
}

// Create godoc
// @Summary      Create a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.CreateNoteRequest  true  "Note body"
// @Success      201   {object}  dto.Response
// @Failure      400   {object}  dto.Response
// @Router       /notes [post]
func (h *NoteHandler) Create(c *gin.Context) {
	var req dto.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error(err.Error()))
		return
	}
	n, err := h.svc.Create(c.Request.Context(), auth.UserIDFromContext(c), req.Title, req.Body, req.Tags, req.Pinned)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.Error(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, dto.OK(noteToResponse(n)))
}

// List godoc
// @Summary      List notes
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        q         query  string  false  "Search in title/body"
// @Param        tag       query  string  false  "Filter by tag"
// @Param        pinned    query  bool    false  "Filter by pinned flag"
// @Param        archived  query  bool    false  "Filter by archived flag"
// @Success      200  {object}  dto.Response
// @Failure      400  {object}  dto.Response
// @Failure      500  {object}  dto.Response
// @Router       /notes [get]
func (h *NoteHandler) List(c *gin.Context) {
	pinned, ok := boolQuery(c, "pinned")
	if !ok {
		return
	}
	archived, ok := boolQuery(c, "archived")
	if !ok {
		return
	}
	f := repo.NoteFilter{
		Query:    c.Query("q"),
		Tag:      c.Query("tag"),
		Pinned:   pinned,
		Archived: archived,
	}
	list, err := h.svc.List(c.Request.Context(), auth.UserIDFromContext(c), f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.Error(err.Error()))
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ListNotesResponse{Items: notesToResponses(list)}))
}

// GetByID godoc
// @Summary      Get a note by ID
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Note ID"
// @Success      200  {object}  dto.Response
// @Failure      404  {object}  dto.Response
// @Router       /notes/{id} [get]
func (h *NoteHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	n, err := h.svc.GetByID(c.Request.Context(), auth.UserIDFromContext(c), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.Error("not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.Error(err.Error()))
		return
	}
	c.JSON(http.StatusOK, dto.OK(noteToResponse(n)))
}

// Update godoc
// @Summary      Update a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                    true  "Note ID"
// @Param        body  body      dto.UpdateNoteRequest  true  "Partial update"
// @Success      200   {object}  dto.Response
// @Failure      400   {object}  dto.Response
// @Failure      404   {object}  dto.Response
// @Router       /notes/{id} [put]
func (h *NoteHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error(err.Error()))
		return
	}
	n, err := h.svc.Update(c.Request.Context(), auth.UserIDFromContext(c), id,
		req.Title, req.Body, req.Tags, req.Pinned, req.Archived)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.Error("not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.Error(err.Error()))
		return
	}
	c.JSON(http.StatusOK, dto.OK(noteToResponse(n)))
}

// Delete godoc
// @Summary      Delete a note
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  int  true  "Note ID"
// @Success      200  {object}  dto.Response
// @Failure      400  {object}  dto.Response
// @Failure      404  {object}  dto.Response
// @Router       /notes/{id} [delete]
func (h *NoteHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), auth.UserIDFromContext(c), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.Error("not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.Error(err.Error()))
		return
	}
	c.JSON(http.StatusOK, dto.OKMessage("deleted", nil))
}

func noteToResponse(n dom.Note) dto.NoteResponse {
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	return dto.NoteResponse{
		ID:        n.ID,
		Title:     n.Title,
		Body:      n.Body,
		Tags:      tags,
		Pinned:    n.Pinned,
		Archived:  n.Archived,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func notesToResponses(list []dom.Note) []dto.NoteResponse {
	out := make([]dto.NoteResponse, len(list))
	for i := range list {
		out[i] = noteToResponse(list[i])
	}
	return out
}
