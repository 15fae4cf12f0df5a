package handler

import (
	"net/http"

	"github.com/vfg2006/inventory-sync-api/internal/api/handler/router"
	"github.com/vfg2006/inventory-sync-api/internal/scheduler"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Sync(controller scheduler.SyncController) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/sync/:entity/run",
			Method:  http.MethodPost,
			Handler: RunSync(controller),
		},
		{
			Path:    "/v1/sync/jobs",
			Method:  http.MethodGet,
			Handler: ListSyncJobs(controller),
		},
		{
			Path:    "/v1/sync/jobs/:id",
			Method:  http.MethodGet,
			Handler: GetSyncJob(controller),
		},
		{
			Path:    "/v1/sync/state",
			Method:  http.MethodGet,
			Handler: GetSyncState(controller),
		},
		{
			Path:    "/v1/sync/status",
			Method:  http.MethodGet,
			Handler: GetSyncStatus(controller),
		},
	}
}

func Metrics(handler http.Handler) []router.Route {
	return []router.Route{
		{
			Path:    "/metrics",
			Method:  http.MethodGet,
			Handler: handler,
		},
	}
}
