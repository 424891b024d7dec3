package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"go-blog-app/internal/middleware"
	"go-blog-app/web"
)

// NewRouter creates and configures a new chi router.
func NewRouter(
	blogHandler *BlogHandler,
	adminHandler *AdminHandler,
	authHandler *AuthHandler,
	seoHandler *SeoHandler,
	errMw func(middleware.AppHandler) http.Handler,
	sessionMw func(http.Handler) http.Handler,
	authzMw func(http.Handler) http.Handler,
) *chi.Mux {
	r := chi.NewRouter()

	// A good base middleware stack
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	// Embedded asset paths already carry the static/ prefix.
	r.Handle("/static/*", http.FileServer(http.FS(web.StaticFS)))

	r.Get("/robots.txt", seoHandler.robotsHandler)
	r.Get("/sitemap.xml", seoHandler.sitemapHandler)

	// The bare root picks the best locale from the Accept-Language header.
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/"+middleware.NegotiateLocale(r)+"/", http.StatusFound)
	})

	// Back-office routes, session-backed and policy-checked.
	r.Route("/admin", func(r chi.Router) {
		r.Use(sessionMw)
		r.Use(authzMw)

		r.Method(http.MethodGet, "/login", errMw(authHandler.loginFormHandler))
		r.Method(http.MethodPost, "/login", errMw(authHandler.loginHandler))
		r.Method(http.MethodPost, "/logout", errMw(authHandler.logoutHandler))

		r.Method(http.MethodGet, "/", errMw(adminHandler.dashboardHandler))

		r.Method(http.MethodGet, "/articles", errMw(adminHandler.articleListHandler))
		r.Method(http.MethodGet, "/articles/new", errMw(adminHandler.articleNewHandler))
		r.Method(http.MethodPost, "/articles", errMw(adminHandler.articleCreateHandler))
		r.Method(http.MethodGet, "/articles/{id}/edit", errMw(adminHandler.articleEditHandler))
		r.Method(http.MethodPost, "/articles/{id}", errMw(adminHandler.articleUpdateHandler))
		r.Method(http.MethodPost, "/articles/{id}/delete", errMw(adminHandler.articleDeleteHandler))

		r.Method(http.MethodGet, "/categories", errMw(adminHandler.categoryListHandler))
		r.Method(http.MethodGet, "/categories/new", errMw(adminHandler.categoryNewHandler))
		r.Method(http.MethodPost, "/categories", errMw(adminHandler.categoryCreateHandler))
		r.Method(http.MethodGet, "/categories/{id}/edit", errMw(adminHandler.categoryEditHandler))
		r.Method(http.MethodPost, "/categories/{id}", errMw(adminHandler.categoryUpdateHandler))
		r.Method(http.MethodPost, "/categories/{id}/delete", errMw(adminHandler.categoryDeleteHandler))

		r.Method(http.MethodGet, "/users", errMw(adminHandler.userListHandler))
		r.Method(http.MethodGet, "/users/new", errMw(adminHandler.userNewHandler))
		r.Method(http.MethodPost, "/users", errMw(adminHandler.userCreateHandler))
		r.Method(http.MethodGet, "/users/{id}/edit", errMw(adminHandler.userEditHandler))
		r.Method(http.MethodPost, "/users/{id}", errMw(adminHandler.userUpdateHandler))
		r.Method(http.MethodPost, "/users/{id}/delete", errMw(adminHandler.userDeleteHandler))
	})

	// Locale-prefixed public site.
	r.Route("/{locale}", func(r chi.Router) {
		r.Use(middleware.Locale)

		r.Method(http.MethodGet, "/", errMw(blogHandler.indexHandler))
		r.Method(http.MethodGet, "/article/{slug}", errMw(blogHandler.articleHandler))
		r.Method(http.MethodGet, "/category/{slug}", errMw(blogHandler.categoryHandler))
		r.Method(http.MethodGet, "/search", errMw(blogHandler.searchHandler))
	})

	return r
}
