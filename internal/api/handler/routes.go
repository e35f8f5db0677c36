package handler

import (
	"net/http"

	"github.com/Veraticus/mission-control/internal/api/router"
)

// Healthcheck returns the liveness route.
func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

// Dashboard returns the page, JSON and chart routes.
func Dashboard(services Services) []router.Route {
	return []router.Route{
		{
			Path:    "/",
			Method:  http.MethodGet,
			Handler: DashboardPage(services),
		},
		{
			Path:    "/api/dashboard",
			Method:  http.MethodGet,
			Handler: DashboardJSON(services),
		},
		{
			Path:    "/charts/:name",
			Method:  http.MethodGet,
			Handler: ChartSVG(services),
		},
	}
}

// Cache returns the cache routes.
func Cache(services Services) []router.Route {
	return []router.Route{
		{
			Path:    "/api/cache/refresh",
			Method:  http.MethodPost,
			Handler: RefreshCache(services),
		},
		{
			Path:    "/api/cache/stats",
			Method:  http.MethodGet,
			Handler: CacheStats(services),
		},
	}
}

// History returns the snapshot history route.
func History(services Services) []router.Route {
	return []router.Route{
		{
			Path:    "/api/history",
			Method:  http.MethodGet,
			Handler: ListHistory(services),
		},
	}
}

// Sync returns the scheduler routes.
func Sync(services Services) []router.Route {
	return []router.Route{
		{
			Path:    "/api/sync/run",
			Method:  http.MethodPost,
			Handler: RunSync(services),
		},
		{
			Path:    "/api/sync/status",
			Method:  http.MethodGet,
			Handler: SyncStatus(services),
		},
	}
}
