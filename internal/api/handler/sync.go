package handler

import (
	"errors"
	"net/http"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/inventory-sync-api/internal/domain"
	"github.com/vfg2006/inventory-sync-api/internal/scheduler"
	"github.com/vfg2006/inventory-sync-api/pkg/apiErrors"
	"github.com/vfg2006/inventory-sync-api/pkg/log"
	"github.com/vfg2006/inventory-sync-api/pkg/middleware"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type runSyncResponse struct {
	JobID    string           `json:"job_id"`
	Selector string           `json:"selector"`
	Full     bool             `json:"full"`
	Status   domain.JobStatus `json:"status"`
}

// RunSync dispara um job manual para uma entidade ou para "all"
func RunSync(controller scheduler.SyncController) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		selector := httprouter.ParamsFromContext(r.Context()).ByName("entity")
		if selector == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Entidade não especificada", nil)
			return
		}

		full := false
		if value := r.URL.Query().Get("full"); value != "" {
			parsed, err := strconv.ParseBool(value)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Parâmetro full deve ser booleano", nil)
				return
			}
			full = parsed
		}

		job, err := controller.TriggerSync(r.Context(), selector, full, domain.JobTriggerManual)
		if err != nil {
			middleware.AddRequestFields(r.Context(), log.Fields{"selector": selector, "error": err.Error()})
			switch {
			case errors.Is(err, scheduler.ErrUnknownEntityType):
				apiErrors.WriteError(w, apiErrors.ErrUnknownEntityType, "Entidade desconhecida", map[string]any{
					"accepted": append([]string{domain.SelectorAll}, domain.KnownEntityTypes()...),
				})
			case errors.Is(err, scheduler.ErrSyncAlreadyRunning):
				apiErrors.WriteError(w, apiErrors.ErrSyncAlreadyRunning, "Já existe uma sincronização em andamento", nil)
			default:
				log.ForContext(r.Context()).WithError(err).Error("Erro ao iniciar sincronização")
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao iniciar sincronização", nil)
			}
			return
		}

		middleware.AddRequestFields(r.Context(), log.Fields{
			"job_id":    job.ID,
			"selector":  job.Selector,
			"sync_full": job.Full,
		})

		writeJSON(w, http.StatusAccepted, runSyncResponse{
			JobID:    job.ID,
			Selector: job.Selector,
			Full:     job.Full,
			Status:   job.Status,
		})
	})
}

func GetSyncJob(controller scheduler.SyncController) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		job, err := controller.GetJob(r.Context(), id)
		if errors.Is(err, scheduler.ErrJobNotFound) {
			apiErrors.WriteError(w, apiErrors.ErrSyncJobNotFound, "Job de sincronização não encontrado", nil)
			return
		}
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Error("Erro ao buscar job de sincronização")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar job de sincronização", nil)
			return
		}

		writeJSON(w, http.StatusOK, job)
	})
}

func ListSyncJobs(controller scheduler.SyncController) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jobs, err := controller.ListJobs(r.Context())
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Error("Erro ao listar jobs de sincronização")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar jobs de sincronização", nil)
			return
		}

		if jobs == nil {
			jobs = []*domain.SyncJob{}
		}
		writeJSON(w, http.StatusOK, jobs)
	})
}

func GetSyncState(controller scheduler.SyncController) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		states, err := controller.SyncStates(r.Context())
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Error("Erro ao listar marcas d'água")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar estado da sincronização", nil)
			return
		}

		if states == nil {
			states = []*domain.SyncState{}
		}
		writeJSON(w, http.StatusOK, states)
	})
}

func GetSyncStatus(controller scheduler.SyncController) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, controller.GetStatus())
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logrus.WithError(err).Error("Erro ao codificar resposta")
	}
}
