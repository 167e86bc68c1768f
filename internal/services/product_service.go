package services

import (
	"dollmart/internal/models"
	"dollmart/internal/repositories"
)

// ProductService handles business logic related to the catalog.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// GetAllProducts retrieves the whole catalog.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetByCategory retrieves the products of one category.
func (s *ProductService) GetByCategory(category string) ([]models.Product, error) {
	return s.repo.GetByCategory(category)
}

// Search retrieves products whose name contains the search term.
func (s *ProductService) Search(term string) ([]models.Product, error) {
	return s.repo.SearchByName(term)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(product *models.Product) error {
	return s.repo.Create(product)
}

// UpdateProduct updates an existing product.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	return s.repo.Update(product)
}

// DeleteProduct deletes a product by its ID. Products referenced by any
// order line cannot be deleted.
func (s *ProductService) DeleteProduct(id string) error {
	return s.repo.Delete(id)
}
