package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/alimgiray/phonebook/internal/models"
	"github.com/alimgiray/phonebook/internal/services"
	"github.com/alimgiray/phonebook/pkg/logger"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ContactHandler struct {
	contactService *services.ContactService
	exportService  *services.ExportService
}

func NewContactHandler(contactService *services.ContactService, exportService *services.ExportService) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		exportService:  exportService,
	}
}

// ListContacts returns all contacts, filtered by the q query parameter when present
func (h *ContactHandler) ListContacts(c *gin.Context) {
	list, err := h.contactService.ListContacts(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// GetContact returns a single contact
func (h *ContactHandler) GetContact(c *gin.Context) {
	contact, err := h.contactService.GetContact(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contact)
}

// CreateContact handles contact creation
func (h *ContactHandler) CreateContact(c *gin.Context) {
	var input services.CreateContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	contact, err := h.contactService.CreateContact(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	logger.WithField("contact_id", contact.ID).Info("Contact created")
	c.JSON(http.StatusCreated, contact)
}

// UpdateContact applies the fields present in the request body
func (h *ContactHandler) UpdateContact(c *gin.Context) {
	var patch models.ContactPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	contact, err := h.contactService.UpdateContact(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contact)
}

// DeleteContact handles contact deletion
func (h *ContactHandler) DeleteContact(c *gin.Context) {
	id := c.Param("id")
	if err := h.contactService.DeleteContact(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	logger.WithField("contact_id", id).Info("Contact deleted")
	c.Status(http.StatusNoContent)
}

// ExportContacts streams the matching contacts as an XLSX download
func (h *ContactHandler) ExportContacts(c *gin.Context) {
	var buf bytes.Buffer
	count, err := h.exportService.ExportXLSX(c.Request.Context(), c.Query("q"), &buf)
	if err != nil {
		h.respondError(c, err)
		return
	}

	filename := "contacts-" + time.Now().UTC().Format("20060102-150405") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("X-Contact-Count", strconv.Itoa(count))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// respondError maps domain errors onto HTTP status codes
func (h *ContactHandler) respondError(c *gin.Context, err error) {
	var validationErr *models.ValidationError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error(), "field": validationErr.Field})
	case errors.Is(err, models.ErrContactNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrInvalidPhoneNumber),
		errors.Is(err, models.ErrDuplicatePhoneNumber),
		errors.Is(err, models.ErrUpdateFailed):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		logger.WithError(err).WithField("path", c.Request.URL.Path).Error("Contact request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
