package probe

// StaticInfo describes hardware and OS facts that rarely change.
// Unknown values stay nil so the frontend can render placeholders.
type StaticInfo struct {
	SystemName *string `json:"systemName"`
	Kernel     *string `json:"kernel"`
	Arch       *string `json:"arch"`
	CPUModel   *string `json:"cpuModel"`
	CPUCores   *uint32 `json:"cpuCores"`
	MemTotalKB *uint64 `json:"memTotalKb"`
}

// LiveProcess is one row of the remote top-processes snapshot.
type LiveProcess struct {
	Command    string  `json:"command"`
	CPUPercent float64 `json:"cpuPercent"`
	MemPercent float64 `json:"memPercent"`
}

// LiveInfo is a point-in-time utilization snapshot of a remote host.
type LiveInfo struct {
	CPUPercent       *float64      `json:"cpuPercent"`
	CPUUserPercent   *float64      `json:"cpuUserPercent"`
	CPUSystemPercent *float64      `json:"cpuSystemPercent"`
	CPUIowaitPercent *float64      `json:"cpuIowaitPercent"`
	CPUIdlePercent   *float64      `json:"cpuIdlePercent"`
	CPUCores         *uint32       `json:"cpuCores"`
	UptimeSeconds    *uint64       `json:"uptimeSeconds"`
	MemTotalKB       *uint64       `json:"memTotalKb"`
	MemUsedKB        *uint64       `json:"memUsedKb"`
	MemFreeKB        *uint64       `json:"memFreeKb"`
	MemPageCacheKB   *uint64       `json:"memPageCacheKb"`
	Load1            *float64      `json:"load1"`
	Load5            *float64      `json:"load5"`
	Load15           *float64      `json:"load15"`
	DiskRootTotalKB  *uint64       `json:"diskRootTotalKb"`
	DiskRootUsedKB   *uint64       `json:"diskRootUsedKb"`
	Processes        []LiveProcess `json:"processes"`
}
