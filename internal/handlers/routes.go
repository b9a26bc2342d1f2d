package handlers

import (
	"github.com/alimgiray/phonebook/internal/services"
	"github.com/gin-gonic/gin"
)

// SetupRoutes registers the contact API, the health check and the JSON 404 handler
func SetupRoutes(router *gin.Engine, contactService *services.ContactService, exportService *services.ExportService, provider RepositoryProvider) {
	// Initialize handlers
	contactHandler := NewContactHandler(contactService, exportService)
	healthHandler := NewHealthHandler(provider)
	notFoundHandler := NewNotFoundHandler()

	api := router.Group("/api")
	{
		contacts := api.Group("/contacts")
		contacts.GET("", contactHandler.ListContacts)
		contacts.GET("/export.xlsx", contactHandler.ExportContacts)
		contacts.GET("/:id", contactHandler.GetContact)
		contacts.POST("", contactHandler.CreateContact)
		contacts.PUT("/:id", contactHandler.UpdateContact)
		contacts.DELETE("/:id", contactHandler.DeleteContact)
	}

	// Health check endpoint
	router.GET("/health", healthHandler.HealthCheck)

	router.NoRoute(notFoundHandler.NotFound)
}
