package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/campsite-api/internal/domain"
	"github.com/vietanh2810/campsite-api/internal/repository/dao"
)

type CatalogDAO interface {
	InsertTent(ctx context.Context, tent dao.Tent) (dao.Tent, error)
	InsertProduct(ctx context.Context, product dao.Product) (dao.Product, error)
	InsertExperience(ctx context.Context, experience dao.Experience) (dao.Experience, error)
	FindTents(ctx context.Context, status string) ([]dao.Tent, error)
	FindProducts(ctx context.Context, status string) ([]dao.Product, error)
	FindExperiences(ctx context.Context, status string) ([]dao.Experience, error)
	FindTentByID(ctx context.Context, id uint) (dao.Tent, error)
	FindProductByID(ctx context.Context, id uint) (dao.Product, error)
	FindExperienceByID(ctx context.Context, id uint) (dao.Experience, error)
	UpdateTentStatus(ctx context.Context, id uint, status string) error
	UpdateProductStatus(ctx context.Context, id uint, status string) error
	UpdateExperienceStatus(ctx context.Context, id uint, status string) error
}

type CatalogRepository struct {
	dao CatalogDAO
}

func NewCatalogRepository(dao CatalogDAO) *CatalogRepository {
	return &CatalogRepository{
		dao: dao,
	}
}

func (r *CatalogRepository) CreateTent(ctx context.Context, tent domain.Tent) (domain.Tent, error) {
	model, err := tentDomainToDao(tent)
	if err != nil {
		return domain.Tent{}, fmt.Errorf("tentDomainToDao -> %w", err)
	}
	created, err := r.dao.InsertTent(ctx, model)
	if err != nil {
		return domain.Tent{}, fmt.Errorf("r.dao.InsertTent -> %w", err)
	}

	return tentDaoToDomain(created), nil
}

func (r *CatalogRepository) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	model, err := productDomainToDao(product)
	if err != nil {
		return domain.Product{}, fmt.Errorf("productDomainToDao -> %w", err)
	}
	created, err := r.dao.InsertProduct(ctx, model)
	if err != nil {
		return domain.Product{}, fmt.Errorf("r.dao.InsertProduct -> %w", err)
	}

	return productDaoToDomain(created), nil
}

func (r *CatalogRepository) CreateExperience(ctx context.Context, experience domain.Experience) (domain.Experience, error) {
	model, err := experienceDomainToDao(experience)
	if err != nil {
		return domain.Experience{}, fmt.Errorf("experienceDomainToDao -> %w", err)
	}
	created, err := r.dao.InsertExperience(ctx, model)
	if err != nil {
		return domain.Experience{}, fmt.Errorf("r.dao.InsertExperience -> %w", err)
	}

	return experienceDaoToDomain(created), nil
}

func (r *CatalogRepository) ListTents(ctx context.Context, status domain.Status) ([]domain.Tent, error) {
	found, err := r.dao.FindTents(ctx, string(status))
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindTents -> %w", err)
	}

	tents := make([]domain.Tent, 0, len(found))
	for _, t := range found {
		tents = append(tents, tentDaoToDomain(t))
	}

	return tents, nil
}

func (r *CatalogRepository) ListProducts(ctx context.Context, status domain.Status) ([]domain.Product, error) {
	found, err := r.dao.FindProducts(ctx, string(status))
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindProducts -> %w", err)
	}

	products := make([]domain.Product, 0, len(found))
	for _, p := range found {
		products = append(products, productDaoToDomain(p))
	}

	return products, nil
}

func (r *CatalogRepository) ListExperiences(ctx context.Context, status domain.Status) ([]domain.Experience, error) {
	found, err := r.dao.FindExperiences(ctx, string(status))
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindExperiences -> %w", err)
	}

	experiences := make([]domain.Experience, 0, len(found))
	for _, e := range found {
		experiences = append(experiences, experienceDaoToDomain(e))
	}

	return experiences, nil
}

func (r *CatalogRepository) FindTentByID(ctx context.Context, id uint) (domain.Tent, error) {
	found, err := r.dao.FindTentByID(ctx, id)
	if err != nil {
		return domain.Tent{}, fmt.Errorf("r.dao.FindTentByID -> %w", notFound(err, domain.EntityTent, id))
	}

	return tentDaoToDomain(found), nil
}

func (r *CatalogRepository) FindProductByID(ctx context.Context, id uint) (domain.Product, error) {
	found, err := r.dao.FindProductByID(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("r.dao.FindProductByID -> %w", notFound(err, domain.EntityProduct, id))
	}

	return productDaoToDomain(found), nil
}

func (r *CatalogRepository) FindExperienceByID(ctx context.Context, id uint) (domain.Experience, error) {
	found, err := r.dao.FindExperienceByID(ctx, id)
	if err != nil {
		return domain.Experience{}, fmt.Errorf("r.dao.FindExperienceByID -> %w", notFound(err, domain.EntityExperience, id))
	}

	return experienceDaoToDomain(found), nil
}

func (r *CatalogRepository) SetStatus(ctx context.Context, kind domain.EntityType, id uint, status domain.Status) error {
	var err error
	switch kind {
	case domain.EntityTypeTent:
		err = notFound(r.dao.UpdateTentStatus(ctx, id, string(status)), domain.EntityTent, id)
	case domain.EntityTypeProduct:
		err = notFound(r.dao.UpdateProductStatus(ctx, id, string(status)), domain.EntityProduct, id)
	case domain.EntityTypeExperience:
		err = notFound(r.dao.UpdateExperienceStatus(ctx, id, string(status)), domain.EntityExperience, id)
	default:
		return domain.BadRequest("catalog", "unknown entity type", kind)
	}
	if err != nil {
		return fmt.Errorf("r.dao.UpdateStatus -> %w", err)
	}

	return nil
}
