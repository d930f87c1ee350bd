package api

import (
	"net/http"

	"github.com/j2kenton/jobsift/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain) {
	routes.Register(
		mux,
		domain.Applications.Handler(domain.Runner).Routes(),
		domain.Review.Handler(domain.Runner, domain.Runner).Routes(),
		domain.Runner.Handler().Routes(),
	)
}
