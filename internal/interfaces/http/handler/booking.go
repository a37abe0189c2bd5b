package handler

import (
	"time"

	bookingapp "github.com/freightops/backend/internal/application/booking"
	"github.com/freightops/backend/internal/domain/booking"
	"github.com/freightops/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BookingHandler handles booking-related API endpoints
type BookingHandler struct {
	BaseHandler
	service *bookingapp.Service
	drivers []booking.Driver
}

// NewBookingHandler creates a new BookingHandler. drivers is the roster
// offered for allocation.
func NewBookingHandler(service *bookingapp.Service, drivers []booking.Driver) *BookingHandler {
	return &BookingHandler{
		service: service,
		drivers: drivers,
	}
}

// RegisterRoutes registers booking routes
func (h *BookingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	bookings := rg.Group("/bookings")
	{
		bookings.GET("", h.List)
		bookings.POST("", h.Create)
		bookings.GET("/:id", h.Get)
		bookings.POST("/:id/transition", h.Transition)
		bookings.POST("/:id/review/resolve", h.ResolveReview)
	}
	rg.GET("/drivers", h.ListDrivers)
}

// CreateBookingRequest is the request body for creating a booking
type CreateBookingRequest struct {
	BookingCode   string    `json:"booking_code" binding:"required,min=1,max=50"`
	CustomerName  string    `json:"customer_name" binding:"required,min=1,max=200"`
	Pickup        string    `json:"pickup" binding:"required,min=1,max=200"`
	Dropoff       string    `json:"dropoff" binding:"required,min=1,max=200"`
	ScheduledDate time.Time `json:"scheduled_date" binding:"required"`
}

// TransitionBookingRequest is the request body for a lifecycle transition
type TransitionBookingRequest struct {
	Target   string  `json:"target" binding:"required"`
	DriverID *string `json:"driver_id" binding:"omitempty,uuid"`
	PodKey   *string `json:"pod_key"`
	Reason   string  `json:"reason"`

	// Pod match fields, echoed from the matcher result when delivering
	PodFileName      string `json:"pod_file_name"`
	PodExtractedCode string `json:"pod_extracted_code"`
	PodMatchPercent  int    `json:"pod_match_percent"`
	PodMatched       bool   `json:"pod_matched"`
}

// List returns all bookings, optionally filtered by status
func (h *BookingHandler) List(c *gin.Context) {
	var status *booking.Status
	if raw := c.Query("status"); raw != "" {
		s := booking.Status(raw)
		if !s.IsValid() {
			h.BadRequest(c, "Unknown booking status: "+raw)
			return
		}
		status = &s
	}

	bookings, err := h.service.List(c.Request.Context(), status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bookings)
}

// Get returns a single booking by ID
func (h *BookingHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid booking ID")
		return
	}

	resp, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Create creates a new booking in DRAFT status
func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), bookingapp.CreateBookingRequest{
		BookingCode:   req.BookingCode,
		CustomerName:  req.CustomerName,
		Pickup:        req.Pickup,
		Dropoff:       req.Dropoff,
		ScheduledDate: req.ScheduledDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Transition applies a lifecycle transition to a booking
func (h *BookingHandler) Transition(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid booking ID")
		return
	}

	var req TransitionBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	target := booking.Status(req.Target)
	if !target.IsValid() {
		h.BadRequest(c, "Unknown target status: "+req.Target)
		return
	}

	appReq := bookingapp.TransitionRequest{
		Target: target,
		Reason: req.Reason,
	}
	if req.DriverID != nil {
		driver, ok := h.driverByID(*req.DriverID)
		if !ok {
			h.BadRequest(c, "Unknown driver: "+*req.DriverID)
			return
		}
		appReq.Driver = &driver
	}
	if req.PodKey != nil {
		appReq.Pod = &booking.PodAttachment{
			Key:           *req.PodKey,
			FileName:      req.PodFileName,
			ExtractedCode: req.PodExtractedCode,
			MatchPercent:  req.PodMatchPercent,
			Matched:       req.PodMatched,
		}
	}

	resp, err := h.service.Transition(c.Request.Context(), id, appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ResolveReview returns a booking from review to its prior status
func (h *BookingHandler) ResolveReview(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid booking ID")
		return
	}

	resp, err := h.service.ResolveReview(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListDrivers returns the driver roster
func (h *BookingHandler) ListDrivers(c *gin.Context) {
	h.Success(c, h.drivers)
}

func (h *BookingHandler) driverByID(raw string) (booking.Driver, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return booking.Driver{}, false
	}
	for _, d := range h.drivers {
		if d.ID == id {
			return d, true
		}
	}
	return booking.Driver{}, false
}
