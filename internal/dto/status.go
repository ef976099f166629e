package dto

type StatusDTO struct {
	OK      bool             `json:"ok"`
	App     AppStatusDTO     `json:"app"`
	Storage StorageStatusDTO `json:"storage"`
	Ledger  LedgerStatusDTO  `json:"ledger"`
}

type AppStatusDTO struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Build     string `json:"build"`
	Commit    string `json:"commit"`
	StartedAt string `json:"started_at"`
	UptimeSec int64  `json:"uptime_sec"`
	SafeMode  bool   `json:"safe_mode"`
}

type StorageStatusDTO struct {
	SchemaVersion  int    `json:"schema_version"`
	SafeModeReason string `json:"safe_mode_reason,omitempty"`
}

type LedgerStatusDTO struct {
	Backend string `json:"backend"`
}
