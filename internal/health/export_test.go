package health

var (
	CPUPercent      = cpuPercent
	MemoryPercent   = memoryPercent
	DiskPercent     = diskPercent
	ProcessPercents = processPercents
)

type ProcTime = procTime

func NewProcTime(name string, cpu float64) ProcTime {
	return procTime{name: name, cpu: cpu}
}
