package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/simba-tools/simbadesk/models"
	"github.com/simba-tools/simbadesk/store"
)

// CreateTicket returns a handler for POST /api/tickets.
func CreateTicket(st store.TicketStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateTicketRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, models.NewScrapeError(models.ErrCodeInvalidInput, err.Error(), err))
			return
		}

		ticket := models.NewTicket("", req.Title, req.Description, req.RequesterName, req.RequesterEmail)
		if req.Priority != "" {
			ticket.Priority = req.Priority
		}
		if req.TicketCategory != "" {
			ticket.TicketCategory = req.TicketCategory
		}
		if req.RequestedResource != "" {
			ticket.RequestedResource = req.RequestedResource
		}
		if req.AccessLevel != "" {
			ticket.AccessLevel = req.AccessLevel
		}
		if req.CurrentStatus != "" {
			ticket.CurrentStatus = req.CurrentStatus
		}

		if err := st.Create(c.Request.Context(), ticket); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.OK(ticket))
	}
}

// GetTickets returns a handler for GET /api/tickets.
func GetTickets(st store.TicketStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		tickets, err := st.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.OKCount(len(tickets), tickets))
	}
}

// GetTicket returns a handler for GET /api/tickets/:id.
func GetTicket(st store.TicketStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ticket, err := st.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.OK(ticket))
	}
}

// UpdateTicket returns a handler for PUT /api/tickets/:id. Only fields
// present in the body change; the update timestamps always advance.
func UpdateTicket(st store.TicketStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.UpdateTicketRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, models.NewScrapeError(models.ErrCodeInvalidInput, err.Error(), err))
			return
		}

		ticket, err := st.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}

		if req.Title != nil {
			ticket.Title = *req.Title
		}
		if req.Description != nil {
			ticket.Description = *req.Description
		}
		if req.Priority != nil {
			ticket.Priority = *req.Priority
		}
		if req.TicketCategory != nil {
			ticket.TicketCategory = *req.TicketCategory
		}
		if req.RequestedResource != nil {
			ticket.RequestedResource = *req.RequestedResource
		}
		if req.AccessLevel != nil {
			ticket.AccessLevel = *req.AccessLevel
		}
		if req.Status != nil {
			ticket.Status = *req.Status
		}
		now := time.Now().UTC()
		ticket.UpdatedTimestamp = now
		ticket.UpdatedAt = now

		if err := st.Update(c.Request.Context(), ticket); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.OK(ticket))
	}
}

// DeleteTicket returns a handler for DELETE /api/tickets/:id.
func DeleteTicket(st store.TicketStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := st.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.OK(gin.H{}))
	}
}

// SubmitArtForm returns a handler for POST /api/tickets/:id/art. It
// allocates the next ART id and moves the ticket's ART pipeline to
// InProgress.
func SubmitArtForm(st store.TicketStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ticket, err := st.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}

		artID, err := st.NextArtID(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}

		artStatus := models.ProvStatusInProgress
		ticket.ArtID = &artID
		ticket.ArtStatus = &artStatus
		now := time.Now().UTC()
		ticket.UpdatedTimestamp = now
		ticket.UpdatedAt = now

		if err := st.Update(c.Request.Context(), ticket); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.OK(gin.H{
			"ticket": ticket,
			"art_id": artID,
		}))
	}
}
