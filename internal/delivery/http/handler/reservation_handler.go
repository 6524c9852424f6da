package handler

import (
	"net/http"

	"dine-reserve/internal/usecase/reservation"
	"dine-reserve/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReservationHandler struct {
	service *reservation.Service
}

func NewReservationHandler(service *reservation.Service) *ReservationHandler {
	return &ReservationHandler{service: service}
}

// RegisterRoutes mounts the reservation endpoints. The admin handlers guard
// everything except booking, per-guest listing and occupancy.
func (h *ReservationHandler) RegisterRoutes(router *gin.RouterGroup, admin ...gin.HandlerFunc) {
	reservations := router.Group("/reservation")
	{
		reservations.POST("/register", h.Create)
		reservations.GET("/user/:email", h.ListForUser)
		reservations.GET("/occupancy", h.Occupancy)
	}

	protected := reservations.Group("", admin...)
	{
		protected.GET("", h.List)
		protected.GET("/stats", h.Statistics)
		protected.GET("/:id", h.Get)
		protected.PUT("/:id", h.Edit)
		protected.POST("/:id/confirm", h.Confirm)
		protected.POST("/:id/cancel", h.Cancel)
		protected.DELETE("/:id", h.Delete)
	}
}

func (h *ReservationHandler) Create(c *gin.Context) {
	var req reservation.CreateReservationRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Reservation created successfully", result)
}

func (h *ReservationHandler) ListForUser(c *gin.Context) {
	result, err := h.service.ListForUser(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Reservations retrieved successfully", result)
}

func (h *ReservationHandler) Occupancy(c *gin.Context) {
	result, err := h.service.Occupancy(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Occupancy retrieved successfully", result)
}

func (h *ReservationHandler) List(c *gin.Context) {
	result, err := h.service.List(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Reservations retrieved successfully", result)
}

func (h *ReservationHandler) Statistics(c *gin.Context) {
	result, err := h.service.Statistics(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Statistics retrieved successfully", result)
}

func (h *ReservationHandler) Get(c *gin.Context) {
	id, ok := reservationID(c)
	if !ok {
		return
	}

	result, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Reservation retrieved successfully", result)
}

func (h *ReservationHandler) Edit(c *gin.Context) {
	id, ok := reservationID(c)
	if !ok {
		return
	}

	var req reservation.UpdateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Edit(c.Request.Context(), id, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Reservation updated successfully", result)
}

func (h *ReservationHandler) Confirm(c *gin.Context) {
	id, ok := reservationID(c)
	if !ok {
		return
	}

	result, err := h.service.Confirm(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Reservation confirmed", result)
}

func (h *ReservationHandler) Cancel(c *gin.Context) {
	id, ok := reservationID(c)
	if !ok {
		return
	}

	result, err := h.service.Cancel(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Reservation cancelled", result)
}

func (h *ReservationHandler) Delete(c *gin.Context) {
	id, ok := reservationID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Reservation deleted successfully", nil)
}

// reservationID parses the :id parameter. A malformed id cannot name a
// stored reservation, so it is reported as not found.
func reservationID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Reservation not found")
		return uuid.Nil, false
	}
	return id, true
}
