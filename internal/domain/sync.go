package domain

import "time"

// SyncState é a marca d'água de um tipo de entidade
type SyncState struct {
	EntityType    EntityType `json:"entity_type" db:"entity_type"`
	LastSyncStart time.Time  `json:"last_sync_start" db:"last_sync_start"`
	LastSyncEnd   *time.Time `json:"last_sync_end" db:"last_sync_end"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

type SyncMode string

const (
	SyncModeFull        SyncMode = "full"
	SyncModeIncremental SyncMode = "incremental"
)

// EntitySyncResult resume a execução de um tipo de entidade.
// Errors inclui as linhas puladas por falta de mapeamento.
type EntitySyncResult struct {
	EntityType EntityType `json:"entity_type"`
	Success    bool       `json:"success"`
	Mode       SyncMode   `json:"mode,omitempty"`
	Fetched    int        `json:"fetched"`
	Upserted   int        `json:"upserted"`
	Skipped    int        `json:"skipped"`
	Errors     int        `json:"errors"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at"`
}

// ErrorRate é a fração de linhas recebidas que não foram gravadas
func (r *EntitySyncResult) ErrorRate() float64 {
	if r.Fetched == 0 {
		return 0
	}
	return float64(r.Errors) / float64(r.Fetched)
}

type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

type JobTrigger string

const (
	JobTriggerManual   JobTrigger = "manual"
	JobTriggerSchedule JobTrigger = "schedule"
)

// SyncJob é o registro consultado pela interface enquanto o pipeline roda
type SyncJob struct {
	ID          string              `json:"id"`
	Selector    string              `json:"selector"`
	Full        bool                `json:"full"`
	Trigger     JobTrigger          `json:"trigger"`
	Status      JobStatus           `json:"status"`
	Progress    float64             `json:"progress"`
	CurrentStep string              `json:"current_step"`
	Results     []*EntitySyncResult `json:"results"`
	Error       string              `json:"error,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	StartedAt   *time.Time          `json:"started_at,omitempty"`
	FinishedAt  *time.Time          `json:"finished_at,omitempty"`
}

func (j *SyncJob) Start(now time.Time) {
	j.Status = JobStatusRunning
	j.StartedAt = &now
}

func (j *SyncJob) Complete(now time.Time) {
	j.Status = JobStatusCompleted
	j.Progress = 100
	j.CurrentStep = ""
	j.FinishedAt = &now
}

func (j *SyncJob) Fail(now time.Time, err error) {
	j.Status = JobStatusFailed
	j.CurrentStep = ""
	j.FinishedAt = &now
	if err != nil {
		j.Error = err.Error()
	}
}
