//go:build unit

package service

import (
	"context"

	"go-blog-app/internal/data"
)

// mockArticleRepository is a canned-answer implementation of ArticleRepository.
type mockArticleRepository struct {
	errToReturn      error
	articleToReturn  *data.Article
	articlesToReturn []*data.Article
	countToReturn    int

	savedArticle   *data.Article
	savedFlush     bool
	removedArticle *data.Article

	listPublishedCalled bool
	searchCalled        bool
	lastSearchQuery     string
	lastSearchLocale    string
	lastLimit           int
	lastOffset          int
}

var _ ArticleRepository = (*mockArticleRepository)(nil)

func (m *mockArticleRepository) ListPublished(ctx context.Context, locale string, limit, offset int) ([]*data.Article, error) {
	m.listPublishedCalled = true
	m.lastLimit = limit
	m.lastOffset = offset
	return m.articlesToReturn, m.errToReturn
}

func (m *mockArticleRepository) ListPublishedByCategory(ctx context.Context, categoryID int64, locale string, limit, offset int) ([]*data.Article, error) {
	m.lastLimit = limit
	m.lastOffset = offset
	return m.articlesToReturn, m.errToReturn
}

func (m *mockArticleRepository) FindPublishedBySlug(ctx context.Context, slug, locale string) (*data.Article, error) {
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	return m.articleToReturn, nil
}

func (m *mockArticleRepository) Search(ctx context.Context, query, locale string, limit int) ([]*data.Article, error) {
	m.searchCalled = true
	m.lastSearchQuery = query
	m.lastSearchLocale = locale
	return m.articlesToReturn, m.errToReturn
}

func (m *mockArticleRepository) CountPublished(ctx context.Context) (int, error) {
	return m.countToReturn, m.errToReturn
}

func (m *mockArticleRepository) Get(ctx context.Context, id int64) (*data.Article, error) {
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	if m.articleToReturn == nil {
		return nil, data.ErrNotFound
	}
	return m.articleToReturn, nil
}

func (m *mockArticleRepository) List(ctx context.Context) ([]*data.Article, error) {
	return m.articlesToReturn, m.errToReturn
}

func (m *mockArticleRepository) Save(ctx context.Context, a *data.Article, flush bool) error {
	m.savedArticle = a
	m.savedFlush = flush
	if m.errToReturn != nil {
		return m.errToReturn
	}
	if a.ID == 0 {
		a.ID = 1
	}
	return nil
}

func (m *mockArticleRepository) Remove(ctx context.Context, a *data.Article, flush bool) error {
	m.removedArticle = a
	return m.errToReturn
}

// mockCategoryRepository is a canned-answer implementation of CategoryRepository.
type mockCategoryRepository struct {
	errToReturn        error
	categoryToReturn   *data.Category
	categoriesToReturn []*data.Category

	savedCategory   *data.Category
	removedCategory *data.Category
}

var _ CategoryRepository = (*mockCategoryRepository)(nil)

func (m *mockCategoryRepository) ListActive(ctx context.Context) ([]*data.Category, error) {
	return m.categoriesToReturn, m.errToReturn
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*data.Category, error) {
	return m.categoriesToReturn, m.errToReturn
}

func (m *mockCategoryRepository) FindBySlug(ctx context.Context, slug string) (*data.Category, error) {
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	if m.categoryToReturn == nil {
		return nil, data.ErrNotFound
	}
	return m.categoryToReturn, nil
}

func (m *mockCategoryRepository) Get(ctx context.Context, id int64) (*data.Category, error) {
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	if m.categoryToReturn == nil {
		return nil, data.ErrNotFound
	}
	return m.categoryToReturn, nil
}

func (m *mockCategoryRepository) Save(ctx context.Context, c *data.Category, flush bool) error {
	m.savedCategory = c
	if m.errToReturn != nil {
		return m.errToReturn
	}
	if c.ID == 0 {
		c.ID = 1
	}
	return nil
}

func (m *mockCategoryRepository) Remove(ctx context.Context, c *data.Category, flush bool) error {
	m.removedCategory = c
	return m.errToReturn
}

// mockUserRepository is a canned-answer implementation of UserRepository.
type mockUserRepository struct {
	errToReturn   error
	userToReturn  *data.User
	usersToReturn []*data.User

	savedUser   *data.User
	removedUser *data.User
}

var _ UserRepository = (*mockUserRepository)(nil)

func (m *mockUserRepository) List(ctx context.Context) ([]*data.User, error) {
	return m.usersToReturn, m.errToReturn
}

func (m *mockUserRepository) Get(ctx context.Context, id int64) (*data.User, error) {
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	if m.userToReturn == nil {
		return nil, data.ErrNotFound
	}
	return m.userToReturn, nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*data.User, error) {
	if m.errToReturn != nil {
		return nil, m.errToReturn
	}
	if m.userToReturn == nil || m.userToReturn.Email != email {
		return nil, data.ErrNotFound
	}
	return m.userToReturn, nil
}

func (m *mockUserRepository) Save(ctx context.Context, u *data.User, flush bool) error {
	m.savedUser = u
	if m.errToReturn != nil {
		return m.errToReturn
	}
	if u.ID == 0 {
		u.ID = 1
	}
	return nil
}

func (m *mockUserRepository) Remove(ctx context.Context, u *data.User, flush bool) error {
	m.removedUser = u
	return m.errToReturn
}
