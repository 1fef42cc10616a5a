package services_test

import (
	"fmt"
	"testing"

	"permata/internal/models"
	"permata/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll() ([]models.Product, error) {
	args := m.Called()
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(id string) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByCategory(categoryID string) ([]models.Product, error) {
	args := m.Called(categoryID)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetFeatured() ([]models.Product, error) {
	args := m.Called()
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockCategoryRepository is a mock implementation of repositories.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) GetAll() ([]models.Category, error) {
	args := m.Called()
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetByID(id string) (*models.Category, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) Create(category *models.Category) error {
	args := m.Called(category)
	return args.Error(0)
}

func TestProductService_GetAllProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, new(MockCategoryRepository))

	expectedProducts := []models.Product{
		{ID: "1", Name: "Gold Ring", Price: 1200000, Stock: 10},
		{ID: "2", Name: "Silver Chain", Price: 350000, Stock: 25},
	}

	mockRepo.On("GetAll").Return(expectedProducts, nil).Once()

	products, err := service.GetAllProducts()

	assert.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, expectedProducts, products)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductByID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, new(MockCategoryRepository))

	expectedProduct := &models.Product{ID: "1", Name: "Gold Ring", Price: 1200000, Stock: 10}

	// Test successful retrieval
	mockRepo.On("GetByID", "1").Return(expectedProduct, nil).Once()
	product, err := service.GetProductByID("1")
	assert.NoError(t, err)
	assert.Equal(t, expectedProduct, product)
	mockRepo.AssertExpectations(t)

	// Test product not found
	mockRepo.On("GetByID", "99").Return(nil, fmt.Errorf("product with ID 99 not found")).Once()
	product, err = service.GetProductByID("99")
	assert.Error(t, err)
	assert.Nil(t, product)
	assert.Contains(t, err.Error(), "not found")
	mockRepo.AssertExpectations(t)
}

func TestProductService_SearchProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, new(MockCategoryRepository))

	catalog := []models.Product{
		{ID: "1", Name: "Gold Ring"},
		{ID: "2", Name: "Rose Gold Necklace"},
		{ID: "3", Name: "Silver Chain"},
	}

	// Case-insensitive substring match
	mockRepo.On("GetAll").Return(catalog, nil).Once()
	products, err := service.SearchProducts("gold")
	assert.NoError(t, err)
	assert.Len(t, products, 2)
	mockRepo.AssertExpectations(t)

	// No match yields an empty, non-nil slice
	mockRepo.On("GetAll").Return(catalog, nil).Once()
	products, err = service.SearchProducts("platinum")
	assert.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
	mockRepo.AssertExpectations(t)

	// Blank query returns the full catalog
	mockRepo.On("GetAll").Return(catalog, nil).Once()
	products, err = service.SearchProducts("   ")
	assert.NoError(t, err)
	assert.Len(t, products, 3)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductsByCategory(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, new(MockCategoryRepository))

	expected := []models.Product{{ID: "1", Name: "Gold Ring", CategoryID: "rings"}}
	mockRepo.On("GetByCategory", "rings").Return(expected, nil).Once()

	products, err := service.GetProductsByCategory("rings")
	assert.NoError(t, err)
	assert.Equal(t, expected, products)
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, new(MockCategoryRepository))

	newProduct := &models.Product{Name: "New Bracelet", Price: 500000, Stock: 20}

	// Test successful creation
	mockRepo.On("Create", newProduct).Return(nil).Once()
	err := service.CreateProduct(newProduct)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// Test creation failure (e.g., database error)
	mockRepo.On("Create", newProduct).Return(fmt.Errorf("database error")).Once()
	err = service.CreateProduct(newProduct)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database error")
	mockRepo.AssertExpectations(t)
}

func TestProductService_Categories(t *testing.T) {
	mockCategories := new(MockCategoryRepository)
	service := services.NewProductService(new(MockProductRepository), mockCategories)

	expected := []models.Category{{ID: "rings", Name: "Rings"}}
	mockCategories.On("GetAll").Return(expected, nil).Once()

	categories, err := service.GetAllCategories()
	assert.NoError(t, err)
	assert.Equal(t, expected, categories)

	newCategory := &models.Category{Name: "Bracelets"}
	mockCategories.On("Create", newCategory).Return(nil).Once()
	assert.NoError(t, service.CreateCategory(newCategory))
	mockCategories.AssertExpectations(t)
}
