package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tourplatform/tour-booking-backend/internal/database"
	"github.com/tourplatform/tour-booking-backend/internal/models"
)

// CatalogService manages tour packages and their itineraries
type CatalogService struct {
	packageRepo   *database.PackageRepository
	itineraryRepo *database.ItineraryRepository
	upcomingOnly  bool
	logger        *logrus.Logger
}

// NewCatalogService creates a new catalog service. When upcomingOnly is
// false the public listing returns packages that have already started,
// which is the long-standing behaviour clients rely on.
func NewCatalogService(
	packageRepo *database.PackageRepository,
	itineraryRepo *database.ItineraryRepository,
	upcomingOnly bool,
	logger *logrus.Logger,
) *CatalogService {
	return &CatalogService{
		packageRepo:   packageRepo,
		itineraryRepo: itineraryRepo,
		upcomingOnly:  upcomingOnly,
		logger:        logger,
	}
}

// ListAllPackages returns every package for the admin listing
func (s *CatalogService) ListAllPackages(ctx context.Context) ([]models.TourPackage, error) {
	return s.packageRepo.ListAll(ctx)
}

// ListAvailablePackages returns the packages shown to customers as of asOf
func (s *CatalogService) ListAvailablePackages(ctx context.Context, asOf time.Time) ([]models.TourPackage, error) {
	if s.upcomingOnly {
		return s.packageRepo.ListStartingAfter(ctx, asOf)
	}
	return s.packageRepo.ListStartedBy(ctx, asOf)
}

// CreatePackage adds a package owned by the creating admin
func (s *CatalogService) CreatePackage(ctx context.Context, adminID uuid.UUID, req models.PackageRequest) (*models.TourPackage, error) {
	if err := validatePackage(req); err != nil {
		return nil, err
	}

	pkg := packageFromRequest(req)
	pkg.ID = uuid.New()
	pkg.CreatedBy = &adminID
	pkg.CreatedAt = time.Now()

	if err := s.packageRepo.Create(ctx, pkg); err != nil {
		return nil, rejectedValue(err, "Package details are out of range.")
	}

	s.logger.WithFields(logrus.Fields{
		"package_id": pkg.ID,
		"admin_id":   adminID,
	}).Info("Tour package created")

	return pkg, nil
}

// UpdatePackage overwrites the editable fields of an existing package
func (s *CatalogService) UpdatePackage(ctx context.Context, id uuid.UUID, req models.PackageRequest) error {
	if err := validatePackage(req); err != nil {
		return err
	}

	pkg := packageFromRequest(req)
	pkg.ID = id

	if err := s.packageRepo.Update(ctx, pkg); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return notFoundError("Package not found.")
		}
		return rejectedValue(err, "Package details are out of range.")
	}

	return nil
}

// DeletePackage removes a package. Packages that still have bookings are
// refused with a conflict.
func (s *CatalogService) DeletePackage(ctx context.Context, id uuid.UUID) error {
	err := s.packageRepo.Delete(ctx, id)
	switch {
	case errors.Is(err, database.ErrNotFound):
		return notFoundError("Package not found.")
	case errors.Is(err, database.ErrReferenced):
		return conflictError("Package has bookings and cannot be deleted.")
	}
	return err
}

// GetItinerary returns a package's itinerary ordered by day
func (s *CatalogService) GetItinerary(ctx context.Context, packageID uuid.UUID) ([]models.ItineraryItem, error) {
	return s.itineraryRepo.ListByPackage(ctx, packageID)
}

// AddItineraryItem appends a day entry to a package's itinerary
func (s *CatalogService) AddItineraryItem(ctx context.Context, packageID uuid.UUID, req models.ItineraryItemRequest) (*models.ItineraryItem, error) {
	activity := strings.TrimSpace(req.Activity)
	if req.Day < 1 || activity == "" {
		return nil, validationError("Day must be at least 1 and activity is required.")
	}
	if req.Day > math.MaxInt32 {
		return nil, validationError("Day is out of range.")
	}

	item := &models.ItineraryItem{
		ID:        uuid.New(),
		PackageID: packageID,
		Day:       req.Day,
		Activity:  activity,
	}

	if err := s.itineraryRepo.Create(ctx, item); err != nil {
		if errors.Is(err, database.ErrReferenced) {
			return nil, notFoundError("Package not found.")
		}
		return nil, rejectedValue(err, "Itinerary item is out of range.")
	}

	return item, nil
}

// DeleteItineraryItem removes a single itinerary entry
func (s *CatalogService) DeleteItineraryItem(ctx context.Context, itemID uuid.UUID) error {
	if err := s.itineraryRepo.Delete(ctx, itemID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return notFoundError("Itinerary item not found.")
		}
		return err
	}
	return nil
}

const maxTitleLength = 200

func validatePackage(req models.PackageRequest) error {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return validationError("Title is required.")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return validationError(fmt.Sprintf("Title must be at most %d characters.", maxTitleLength))
	}
	if math.IsNaN(req.Price) || req.Price < 0 {
		return validationError("Price cannot be negative.")
	}
	if req.Price > models.MaxMoney {
		return validationError(fmt.Sprintf("Price must be at most %.2f.", models.MaxMoney))
	}
	if req.NumberOfPeople < 0 {
		return validationError("Number of people cannot be negative.")
	}
	if req.NumberOfPeople > math.MaxInt32 {
		return validationError("Number of people is out of range.")
	}
	if req.StartTime.IsZero() {
		return validationError("Start time is required.")
	}
	return nil
}

func packageFromRequest(req models.PackageRequest) *models.TourPackage {
	return &models.TourPackage{
		Title:          strings.TrimSpace(req.Title),
		Description:    models.NewNullString(req.Description),
		Price:          req.Price,
		StartTime:      req.StartTime.Time,
		NumberOfPeople: req.NumberOfPeople,
		BusDetails:     models.NewNullString(req.BusDetails),
	}
}
