package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/supply-chain-api/internal/application/procurement"
)

// TaskHandler disparo manual de tareas programadas.
type TaskHandler struct {
	replenish *procurement.ReplenishmentUseCase
}

// NewTaskHandler construye el handler.
func NewTaskHandler(replenish *procurement.ReplenishmentUseCase) *TaskHandler {
	return &TaskHandler{replenish: replenish}
}

// TriggerResponse resultado de una tarea disparada a mano.
type TriggerResponse struct {
	Task    string `json:"task"`
	Created int    `json:"created"`
	Results any    `json:"results"`
}

// TriggerAutoReplenish godoc
// @Summary      Ejecutar ahora la reposición automática diaria
// @Description  Recorre todas las tiendas con la misma lógica que la tarea programada.
// @Tags         tasks
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  http.TriggerResponse
// @Router       /api/tasks/auto-replenish/trigger [post]
func (h *TaskHandler) TriggerAutoReplenish(c *fiber.Ctx) error {
	out, err := h.replenish.AutoReplenish(c.Context(), GetUserID(c), "")
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(TriggerResponse{Task: "auto-replenish", Created: len(out), Results: out})
}
