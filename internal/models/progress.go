package models

// SyncStatus состояние прохода синхронизации
type SyncStatus string

const (
	SyncIdle      SyncStatus = "idle"
	SyncSyncing   SyncStatus = "syncing"
	SyncCompleted SyncStatus = "completed"
)

// SyncProgress snapshot of the current (or last) sync pass.
type SyncProgress struct {
	Status    SyncStatus `json:"status"`
	Total     int        `json:"total"`
	Processed int        `json:"processed"`
	Succeeded int        `json:"succeeded"`
	Failed    int        `json:"failed"`
}

// Remaining returns how many items of the pass are not processed yet.
func (p SyncProgress) Remaining() int {
	if p.Processed >= p.Total {
		return 0
	}
	return p.Total - p.Processed
}
