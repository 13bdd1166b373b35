package view

import (
	"github.com/Skotchmaster/shop_backoffice/internal/models"
	"github.com/Skotchmaster/shop_backoffice/internal/query"
	"github.com/Skotchmaster/shop_backoffice/internal/session"
	"github.com/Skotchmaster/shop_backoffice/internal/transport"
)

const (
	PageError          = "error"
	PageIndex          = "index"
	PageLogin          = "auth/login"
	PageRegister       = "auth/register"
	PageProducts       = "products/index"
	PageProductForm    = "products/form"
	PageCategories     = "categories/index"
	PageCategoryForm   = "categories/form"
	PageCategoryDetail = "categories/detail"
)

// Page carries what the layout needs on every screen.
type Page struct {
	Title     string
	Username  string
	Role      string
	CSRFToken string
}

func NewPage(title string, s *session.Session, csrfToken string) Page {
	p := Page{Title: title, CSRFToken: csrfToken}
	if s != nil {
		p.Username = s.Username
		p.Role = s.Role
	}
	return p
}

func (p Page) IsAdmin() bool { return p.Role == models.RoleAdmin }

type ErrorPage struct {
	Page
	Status  int
	Message string
	Detail  string
}

type AuthPage struct {
	Page
	Error string
	Form  transport.CredentialsForm
}

type ProductListPage struct {
	Page
	Products []transport.ProductRow
	Query    query.Query
}

type ProductFormPage struct {
	Page
	Action     string
	Editing    bool
	Form       transport.ProductForm
	Image      string
	Categories []models.Category
	Errors     map[string]string
}

type CategoryListPage struct {
	Page
	Categories []models.Category
}

type CategoryFormPage struct {
	Page
	Action  string
	Editing bool
	Form    transport.CategoryForm
	Errors  map[string]string
}

type CategoryDetailPage struct {
	Page
	Category models.Category
	Products []transport.ProductRow
}
