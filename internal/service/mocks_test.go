package service_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/AnkitDhruva08/bookrent/internal/domain"
	"github.com/AnkitDhruva08/bookrent/internal/service"
)

// MockRentalRepo
type MockRentalRepo struct {
	mock.Mock
}

func (m *MockRentalRepo) Create(ctx context.Context, rental *domain.Rental) error {
	args := m.Called(ctx, rental)
	return args.Error(0)
}

func (m *MockRentalRepo) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}

func (m *MockRentalRepo) Update(ctx context.Context, rental *domain.Rental) error {
	args := m.Called(ctx, rental)
	return args.Error(0)
}

func (m *MockRentalRepo) ListByStudent(ctx context.Context, studentID int32) ([]domain.RentalWithBook, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RentalWithBook), args.Error(1)
}

func (m *MockRentalRepo) ListAll(ctx context.Context) ([]domain.RentalWithBook, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RentalWithBook), args.Error(1)
}

func (m *MockRentalRepo) ListOpenIDs(ctx context.Context) ([]int32, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int32), args.Error(1)
}

// MockBookRepo
type MockBookRepo struct {
	mock.Mock
}

func (m *MockBookRepo) Create(ctx context.Context, book *domain.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *MockBookRepo) GetByID(ctx context.Context, id int32) (*domain.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}

func (m *MockBookRepo) GetByTitle(ctx context.Context, title string) (*domain.Book, error) {
	args := m.Called(ctx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}

func (m *MockBookRepo) SearchByTitle(ctx context.Context, title string) ([]domain.Book, error) {
	args := m.Called(ctx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Book), args.Error(1)
}

// MockStudentRepo
type MockStudentRepo struct {
	mock.Mock
}

func (m *MockStudentRepo) GetByID(ctx context.Context, id int32) (*domain.Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Student), args.Error(1)
}

func (m *MockStudentRepo) First(ctx context.Context) (*domain.Student, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Student), args.Error(1)
}

// MockCatalog
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) Search(ctx context.Context, title string) ([]service.BookResult, error) {
	args := m.Called(ctx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.BookResult), args.Error(1)
}

func (m *MockCatalog) FindOrFetch(ctx context.Context, title string) (*domain.Book, error) {
	args := m.Called(ctx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}

// MockRemoteCatalog
type MockRemoteCatalog struct {
	mock.Mock
}

func (m *MockRemoteCatalog) FetchByTitle(ctx context.Context, title string) (*domain.BookInfo, error) {
	args := m.Called(ctx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookInfo), args.Error(1)
}

// fakeBookCache is a plain in-memory BookLookupCache.
type fakeBookCache struct {
	mu      sync.Mutex
	entries map[string]*domain.BookInfo
}

func newFakeBookCache() *fakeBookCache {
	return &fakeBookCache{entries: make(map[string]*domain.BookInfo)}
}

func (c *fakeBookCache) Get(_ context.Context, title string) (*domain.BookInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	info, ok := c.entries[title]
	return info, ok
}

func (c *fakeBookCache) Set(_ context.Context, title string, info *domain.BookInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[title] = info
}

// memRentalRepo simulates row-level storage for concurrency tests: reads
// hand out copies, writes replace the stored row atomically.
type memRentalRepo struct {
	mu      sync.Mutex
	nextID  int32
	rentals map[int32]domain.Rental
}

func newMemRentalRepo() *memRentalRepo {
	return &memRentalRepo{nextID: 1, rentals: make(map[int32]domain.Rental)}
}

func (r *memRentalRepo) Create(_ context.Context, rental *domain.Rental) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rental.ID = r.nextID
	r.nextID++
	r.rentals[rental.ID] = *rental
	return nil
}

func (r *memRentalRepo) GetByID(_ context.Context, id int32) (*domain.Rental, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rental, ok := r.rentals[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rental, nil
}

func (r *memRentalRepo) Update(_ context.Context, rental *domain.Rental) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rentals[rental.ID]; !ok {
		return domain.ErrNotFound
	}
	r.rentals[rental.ID] = *rental
	return nil
}

func (r *memRentalRepo) ListByStudent(_ context.Context, studentID int32) ([]domain.RentalWithBook, error) {
	return nil, nil
}

func (r *memRentalRepo) ListAll(_ context.Context) ([]domain.RentalWithBook, error) {
	return nil, nil
}

func (r *memRentalRepo) ListOpenIDs(_ context.Context) ([]int32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []int32
	for id, rental := range r.rentals {
		if rental.Status != domain.RentalStatusReturned {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
