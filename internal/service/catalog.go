package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vietanh2810/campsite-api/internal/domain"
)

type CatalogRepository interface {
	TentLister
	CreateTent(ctx context.Context, tent domain.Tent) (domain.Tent, error)
	CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	CreateExperience(ctx context.Context, experience domain.Experience) (domain.Experience, error)
	ListProducts(ctx context.Context, status domain.Status) ([]domain.Product, error)
	ListExperiences(ctx context.Context, status domain.Status) ([]domain.Experience, error)
	FindTentByID(ctx context.Context, id uint) (domain.Tent, error)
	FindProductByID(ctx context.Context, id uint) (domain.Product, error)
	FindExperienceByID(ctx context.Context, id uint) (domain.Experience, error)
	SetStatus(ctx context.Context, kind domain.EntityType, id uint, status domain.Status) error
}

type CalendarFlusher interface {
	FlushCalendar(ctx context.Context)
}

// CatalogService manages the inventory. The booking flow never goes through
// it; it reads and locks catalog rows inside its own transaction.
type CatalogService struct {
	repo     CatalogRepository
	calendar CalendarFlusher
}

// NewCatalogService accepts a nil calendar when no calendar cache is in use.
func NewCatalogService(repo CatalogRepository, calendar CalendarFlusher) *CatalogService {
	return &CatalogService{
		repo:     repo,
		calendar: calendar,
	}
}

func (s *CatalogService) flushCalendar(ctx context.Context) {
	if s.calendar != nil {
		s.calendar.FlushCalendar(ctx)
	}
}

func (s *CatalogService) CreateTent(ctx context.Context, tent domain.Tent) (domain.Tent, error) {
	if err := validatePrices(domain.EntityTent, tent.Price, tent.AdditionalPeoplePrice, tent.KidsBundlePrice); err != nil {
		return domain.Tent{}, err
	}
	if tent.Status == "" {
		tent.Status = domain.StatusActive
	}

	created, err := s.repo.CreateTent(ctx, tent)
	if err != nil {
		return domain.Tent{}, fmt.Errorf("s.repo.CreateTent -> %w", err)
	}
	if created.Status == domain.StatusActive {
		s.flushCalendar(ctx)
	}

	return created, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	if err := validatePrices(domain.EntityProduct, product.Price); err != nil {
		return domain.Product{}, err
	}
	if product.Stock != nil && *product.Stock < 0 {
		return domain.Product{}, domain.BadRequest(domain.EntityProduct, "stock must not be negative", *product.Stock)
	}
	if product.Status == "" {
		product.Status = domain.StatusActive
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return domain.Product{}, fmt.Errorf("s.repo.CreateProduct -> %w", err)
	}

	return created, nil
}

func (s *CatalogService) CreateExperience(ctx context.Context, experience domain.Experience) (domain.Experience, error) {
	if err := validatePrices(domain.EntityExperience, experience.Price); err != nil {
		return domain.Experience{}, err
	}
	if experience.Status == "" {
		experience.Status = domain.StatusActive
	}

	created, err := s.repo.CreateExperience(ctx, experience)
	if err != nil {
		return domain.Experience{}, fmt.Errorf("s.repo.CreateExperience -> %w", err)
	}

	return created, nil
}

func (s *CatalogService) ListTents(ctx context.Context, status domain.Status) ([]domain.Tent, error) {
	tents, err := s.repo.ListTents(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListTents -> %w", err)
	}

	return tents, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, status domain.Status) ([]domain.Product, error) {
	products, err := s.repo.ListProducts(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListProducts -> %w", err)
	}

	return products, nil
}

func (s *CatalogService) ListExperiences(ctx context.Context, status domain.Status) ([]domain.Experience, error) {
	experiences, err := s.repo.ListExperiences(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListExperiences -> %w", err)
	}

	return experiences, nil
}

func (s *CatalogService) GetTent(ctx context.Context, id uint) (domain.Tent, error) {
	tent, err := s.repo.FindTentByID(ctx, id)
	if err != nil {
		return domain.Tent{}, fmt.Errorf("s.repo.FindTentByID -> %w", err)
	}

	return tent, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (domain.Product, error) {
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("s.repo.FindProductByID -> %w", err)
	}

	return product, nil
}

func (s *CatalogService) GetExperience(ctx context.Context, id uint) (domain.Experience, error) {
	experience, err := s.repo.FindExperienceByID(ctx, id)
	if err != nil {
		return domain.Experience{}, fmt.Errorf("s.repo.FindExperienceByID -> %w", err)
	}

	return experience, nil
}

func (s *CatalogService) SetStatus(ctx context.Context, kind domain.EntityType, id uint, status domain.Status) error {
	if !status.IsValid() {
		return domain.BadRequest("catalog", "invalid status", status)
	}
	if err := s.repo.SetStatus(ctx, kind, id, status); err != nil {
		return fmt.Errorf("s.repo.SetStatus -> %w", err)
	}
	if kind == domain.EntityTypeTent {
		s.flushCalendar(ctx)
	}

	return nil
}

func validatePrices(entity string, prices ...decimal.Decimal) error {
	for _, p := range prices {
		if p.IsNegative() {
			return domain.BadRequest(entity, "price must not be negative", p)
		}
	}

	return nil
}
