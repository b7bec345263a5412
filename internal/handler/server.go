// Package handler implements the HTTP handlers for the MealMate API.
// All handlers are methods on Server. Methods are split into resource files
// (health.go, recipe.go, edit.go, share.go, export.go) but share the same
// Server struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/mealmate/api"
	"github.com/pkordes/mealmate/internal/domain"
	"github.com/pkordes/mealmate/internal/permission"
	"github.com/pkordes/mealmate/internal/service"
	"github.com/pkordes/mealmate/internal/session"
)

// RecipeServicer defines the recipe operations the handlers depend on.
// Defined here, in the consumer package, so tests can inject a mock.
type RecipeServicer interface {
	Create(ctx context.Context, r domain.Recipe) (domain.Recipe, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Recipe, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Recipe, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	LocationText(ctx context.Context, id uuid.UUID, name string) (string, error)
}

// EditServicer defines the edit-session operations the handlers depend on.
type EditServicer interface {
	Open(ctx context.Context, recipeID uuid.UUID, granted []domain.Capability) (session.View, error)
	View(id uuid.UUID) (session.View, error)
	SetPurchased(id uuid.UUID, name string, purchased bool, at *domain.LatLng) (session.View, error)
	SetLocation(id uuid.UUID, name string, at domain.LatLng) (session.View, error)
	ImportLocations(id uuid.UUID, fields map[string]string) (session.View, []string, error)
	Grant(id uuid.UUID, c domain.Capability, granted bool) (session.View, permission.State, error)
	ReportDeviceLocation(id uuid.UUID, at domain.LatLng) error
	Save(ctx context.Context, id uuid.UUID) (domain.Recipe, error)
	Cancel(id uuid.UUID) error
}

// ShareServicer defines the share operations the handlers depend on.
type ShareServicer interface {
	Start(ctx context.Context, ids []uuid.UUID, destination string, granted []domain.Capability) (service.ShareResult, error)
	Grant(ctx context.Context, id uuid.UUID, granted bool) (service.ShareResult, error)
}

// ExportServicer defines the export operation the handlers depend on.
type ExportServicer interface {
	Export(ctx context.Context) ([]domain.ExportRow, error)
}

// Server holds the services behind every endpoint.
type Server struct {
	recipes RecipeServicer
	edits   EditServicer
	shares  ShareServicer
	export  ExportServicer
	log     *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(recipes RecipeServicer, edits EditServicer, shares ShareServicer, export ExportServicer, log *slog.Logger) *Server {
	return &Server{recipes: recipes, edits: edits, shares: shares, export: export, log: log}
}

// Routes returns a router with every endpoint registered.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", serveOpenAPI)

	r.Route("/recipes", func(r chi.Router) {
		r.Post("/", s.CreateRecipe)
		r.Get("/", s.ListRecipes)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetRecipe)
			r.Delete("/", s.DeleteRecipe)
			r.Get("/locations/{ingredient}", s.GetLocationText)
			r.Post("/edits", s.OpenEdit)
		})
	})

	r.Route("/edits/{eid}", func(r chi.Router) {
		r.Get("/", s.GetEdit)
		r.Delete("/", s.CancelEdit)
		r.Put("/ingredients/{name}", s.SetPurchased)
		r.Put("/ingredients/{name}/location", s.SetLocation)
		r.Put("/locations", s.ImportLocations)
		r.Post("/grants/{capability}", s.GrantEdit)
		r.Post("/device-location", s.ReportDeviceLocation)
		r.Post("/save", s.SaveEdit)
	})

	r.Post("/shares", s.StartShare)
	r.Post("/shares/{sid}/grants", s.GrantShare)

	r.Get("/export", s.GetExport)
	return r
}

func serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(api.OpenAPI)
}
