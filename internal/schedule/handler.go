package schedule

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"shutterbook/internal/metrics"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// DefineSlots godoc
// @Summary      Define availability
// @Description  Adds time slots for a calendar date. Existing windows are skipped. Admin only.
// @Tags         schedule
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      DefineSlotsRequest  true  "Date and slot windows"
// @Success      201      {object}  DaySchedule
// @Failure      400      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /admin/schedule [post]
func (h *Handler) DefineSlots(c *gin.Context) {
	var req DefineSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := time.Parse(DateOnly, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, use YYYY-MM-DD"})
		return
	}

	day, inserted, err := h.repo.DefineSlots(c.Request.Context(), date, req.Slots)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to define slots"})
		return
	}

	metrics.RecordSlotsDefined(inserted)

	c.JSON(http.StatusCreated, day)
}

// ListSchedule godoc
// @Summary      List schedule
// @Description  Returns all dates with their time slots and reservation state.
// @Tags         schedule
// @Produce      json
// @Success      200  {array}   DaySchedule
// @Failure      500  {object}  gin.H
// @Router       /schedule [get]
func (h *Handler) ListSchedule(c *gin.Context) {
	days, err := h.repo.ListDays(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch schedule"})
		return
	}

	if days == nil {
		days = []DaySchedule{}
	}

	c.JSON(http.StatusOK, days)
}

// GetDay godoc
// @Summary      Get one day's schedule
// @Tags         schedule
// @Produce      json
// @Param        date  path      string  true  "Calendar date (YYYY-MM-DD)"
// @Success      200   {object}  DaySchedule
// @Failure      400   {object}  gin.H
// @Failure      500   {object}  gin.H
// @Router       /schedule/{date} [get]
func (h *Handler) GetDay(c *gin.Context) {
	date, err := time.Parse(DateOnly, c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, use YYYY-MM-DD"})
		return
	}

	day, err := h.repo.GetDay(c.Request.Context(), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch schedule"})
		return
	}

	c.JSON(http.StatusOK, day)
}

// DeleteSlot godoc
// @Summary      Remove a time slot
// @Description  Explicit admin removal of a slot. Admin only.
// @Tags         schedule
// @Security     BearerAuth
// @Produce      json
// @Param        slotID  path      int  true  "Slot ID"
// @Success      200     {object}  gin.H
// @Failure      400     {object}  gin.H
// @Failure      404     {object}  gin.H
// @Router       /admin/schedule/slots/{slotID} [delete]
func (h *Handler) DeleteSlot(c *gin.Context) {
	slotID, err := strconv.Atoi(c.Param("slotID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slot ID"})
		return
	}

	if err := h.repo.DeleteSlot(c.Request.Context(), slotID); err != nil {
		if errors.Is(err, ErrSlotNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Time slot not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete slot"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Time slot deleted"})
}
