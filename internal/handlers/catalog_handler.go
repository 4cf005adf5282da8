package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/tourplatform/tour-booking-backend/internal/middleware"
	"github.com/tourplatform/tour-booking-backend/internal/models"
	"github.com/tourplatform/tour-booking-backend/internal/services"
)

// CatalogHandler serves tour packages and itineraries
type CatalogHandler struct {
	catalogService *services.CatalogService
	logger         *logrus.Logger
	now            func() time.Time
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *services.CatalogService, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
		now:            time.Now,
	}
}

// ListAvailablePackages handles GET /api/packages and GET /api/user/packages
// @Summary List packages available to customers
// @Tags Catalog
// @Produce json
// @Success 200 {array} models.TourPackage
// @Router /packages [get]
// @Router /user/packages [get]
func (h *CatalogHandler) ListAvailablePackages(c *gin.Context) {
	packages, err := h.catalogService.ListAvailablePackages(c.Request.Context(), h.now())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, packages)
}

// ListAllPackages handles GET /api/admin/packages
// @Summary List every package
// @Tags Admin Catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.TourPackage
// @Router /admin/packages [get]
func (h *CatalogHandler) ListAllPackages(c *gin.Context) {
	packages, err := h.catalogService.ListAllPackages(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, packages)
}

// CreatePackage handles POST /api/admin/packages
// @Summary Create a tour package
// @Tags Admin Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.PackageRequest true "Package"
// @Success 201 {object} models.TourPackage
// @Failure 400 {object} ErrorResponse
// @Router /admin/packages [post]
func (h *CatalogHandler) CreatePackage(c *gin.Context) {
	var req models.PackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	admin := middleware.MustGetUserContext(c)
	pkg, err := h.catalogService.CreatePackage(c.Request.Context(), admin.UserID, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, pkg)
}

// UpdatePackage handles PUT /api/admin/packages/:packageId
// @Summary Update a tour package
// @Tags Admin Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param packageId path string true "Package ID"
// @Param request body models.PackageRequest true "Package"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/packages/{packageId} [put]
func (h *CatalogHandler) UpdatePackage(c *gin.Context) {
	id, ok := uuidParam(c, "packageId")
	if !ok {
		return
	}

	var req models.PackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.catalogService.UpdatePackage(c.Request.Context(), id, req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Package updated successfully!"})
}

// DeletePackage handles DELETE /api/admin/packages/:packageId
// @Summary Delete a tour package
// @Tags Admin Catalog
// @Produce json
// @Security BearerAuth
// @Param packageId path string true "Package ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /admin/packages/{packageId} [delete]
func (h *CatalogHandler) DeletePackage(c *gin.Context) {
	id, ok := uuidParam(c, "packageId")
	if !ok {
		return
	}

	if err := h.catalogService.DeletePackage(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Package deleted successfully!"})
}

// GetItinerary handles GET /api/itinerary/:packageId and its user and
// admin aliases
// @Summary Get a package itinerary
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param packageId path string true "Package ID"
// @Success 200 {array} models.ItineraryItem
// @Failure 400 {object} ErrorResponse
// @Router /itinerary/{packageId} [get]
// @Router /user/itinerary/{packageId} [get]
// @Router /admin/itinerary/{packageId} [get]
func (h *CatalogHandler) GetItinerary(c *gin.Context) {
	packageID, ok := uuidParam(c, "packageId")
	if !ok {
		return
	}

	items, err := h.catalogService.GetItinerary(c.Request.Context(), packageID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// AddItineraryItem handles POST /api/admin/itinerary/:packageId
// @Summary Add an itinerary day
// @Tags Admin Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param packageId path string true "Package ID"
// @Param request body models.ItineraryItemRequest true "Itinerary item"
// @Success 201 {object} models.ItineraryItem
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/itinerary/{packageId} [post]
func (h *CatalogHandler) AddItineraryItem(c *gin.Context) {
	packageID, ok := uuidParam(c, "packageId")
	if !ok {
		return
	}

	var req models.ItineraryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.catalogService.AddItineraryItem(c.Request.Context(), packageID, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// DeleteItineraryItem handles DELETE /api/admin/itinerary/:itemId
// @Summary Delete an itinerary item
// @Tags Admin Catalog
// @Produce json
// @Security BearerAuth
// @Param itemId path string true "Itinerary item ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/itinerary/{itemId} [delete]
func (h *CatalogHandler) DeleteItineraryItem(c *gin.Context) {
	itemID, ok := uuidParam(c, "itemId")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteItineraryItem(c.Request.Context(), itemID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Itinerary item deleted successfully!"})
}
