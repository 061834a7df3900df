package handlers

import (
	"errors"
	"net/http"
	"time"

	"notekit/internal/auth"
	dom "notekit/internal/domain"
	"notekit/internal/dto"
	"notekit/internal/repo"
	"notekit/internal/service"

	"github.com/gin-gonic/gin"
)

type TodoHandler struct {
	svc *service.TodoService
}

func NewTodoHandler(svc *service.TodoService) *TodoHandler {
	return &TodoHandler{svc: svc}
}

// Create godoc
// @Summary      Create a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.CreateTodoRequest  true  "Todo body"
// @Success      201   {object}  dto.Response
// @Failure      400   {object}  dto.Response
// @Router       /todos [post]
func (h *TodoHandler) Create(c *gin.Context) {
	var req dto.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error(err.Error()))
		return
	}
	t, err := h.svc.Create(c.Request.Context(), auth.UserIDFromContext(c),
		req.Text, dom.Priority(req.Priority), req.DueDate.Ptr(), req.Category)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDueDate) {
			c.JSON(http.StatusBadRequest, dto.Error(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.Error(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, dto.OK(todoToResponse(t)))
}

// List godoc
// @Summary      List todos
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        completed  query  bool    false  "Filter by completion"
// @Param        priority   query  string  false  "Filter by priority (low|medium|high)"
// @Param        category   query  string  false  "Filter by category"
// @Success      200  {object}  dto.Response
// @Failure      400  {object}  dto.Response
// @Failure      500  {object}  dto.Response
// @Router       /todos [get]
func (h *TodoHandler) List(c *gin.Context) {
	completed, ok := boolQuery(c, "completed")
	if !ok {
		return
	}
	f := repo.TodoFilter{
		Completed: completed,
		Priority:  c.Query("priority"),
		Category:  c.Query("category"),
	}
	list, err := h.svc.List(c.Request.Context(), auth.UserIDFromContext(c), f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.Error(err.Error()))
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ListTodosResponse{Items: todosToResponses(list)}))
}

// GetByID godoc
// @Summary      Get a todo by ID
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Todo ID"
// @Success      200  {object}  dto.Response
// @Failure      404  {object}  dto.Response
// @Router       /todos/{id} [get]
func (h *TodoHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.svc.GetByID(c.Request.Context(), auth.UserIDFromContext(c), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.Error("not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.Error(err.Error()))
		return
	}
	c.JSON(http.StatusOK, dto.OK(todoToResponse(t)))
}

// Update godoc
// @Summary      Update a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                    true  "Todo ID"
// @Param        body  body      dto.UpdateTodoRequest  true  "Partial update"
// @Success      200   {object}  dto.Response
// @Failure      400   {object}  dto.Response
// @Failure      404   {object}  dto.Response
// @Router       /todos/{id} [put]
func (h *TodoHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error(err.Error()))
		return
	}
	var due *time.Time
	if req.DueDate != nil {
		due = req.DueDate.Ptr()
	}
	t, err := h.svc.Update(c.Request.Context(), auth.UserIDFromContext(c), id,
		req.Text, req.Priority, due, req.DueDate != nil, req.Category, req.Completed)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, dto.Error("not found"))
		case errors.Is(err, service.ErrInvalidDueDate):
			c.JSON(http.StatusBadRequest, dto.Error(err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, dto.Error(err.Error()))
		}
		return
	}
	c.JSON(http.StatusOK, dto.OK(todoToResponse(t)))
}

// Complete godoc
// @Summary      Mark a todo as done
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Todo ID"
// @Success      200  {object}  dto.Response
// @Failure      404  {object}  dto.Response
// @Router       /todos/{id}/complete [post]
func (h *TodoHandler) Complete(c *gin.Context) {
	h.setCompletion(c, true)
}

// Reopen godoc
// @Summary      Mark a todo as not done
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Todo ID"
// @Success      200  {object}  dto.Response
// @Failure      404  {object}  dto.Response
// @Router       /todos/{id}/reopen [post]
func (h *TodoHandler) Reopen(c *gin.Context) {
	h.setCompletion(c, false)
}

func (h *TodoHandler) setCompletion(c *gin.Context, done bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var (
		t   dom.Todo
		err error
	)
	if done {
		t, err = h.svc.Complete(c.Request.Context(), auth.UserIDFromContext(c), id)
	} else {
		t, err = h.svc.Reopen(c.Request.Context(), auth.UserIDFromContext(c), id)
	}
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.Error("not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.Error(err.Error()))
		return
	}
	c.JSON(http.StatusOK, dto.OK(todoToResponse(t)))
}

// Delete godoc
// @Summary      Delete a todo
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  int  true  "Todo ID"
// @Success      200  {object}  dto.Response
// @Failure      400  {object}  dto.Response
// @Failure      404  {object}  dto.Response
// @Router       /todos/{id} [delete]
func (h *TodoHandler) Delete(c *gin.Context) {
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

func todoToResponse(t dom.Todo) dto.TodoResponse {
	return dto.TodoResponse{
		ID:          t.ID,
		Text:        t.Text,
		Completed:   t.Completed,
		CompletedAt: t.CompletedAt,
		Priority:    string(t.Priority),
		DueDate:     t.DueDate,
		Category:    t.Category,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func todosToResponses(list []dom.Todo) []dto.TodoResponse {
	out := make([]dto.TodoResponse, len(list))
	for i := range list {
		out[i] = todoToResponse(list[i])
	}
	return out
}
