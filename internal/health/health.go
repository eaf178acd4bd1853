// Package health samples host utilization and reports values above fixed
// thresholds.
package health

import (
	"context"
	"fmt"
	"sort"
)

// Thresholds, in percent. A value strictly above its threshold is a breach.
const (
	CPUThreshold        = 80.0
	MemoryThreshold     = 80.0
	DiskThreshold       = 80.0
	ProcessCPUThreshold = 80.0
)

// Kind names the resource a breach was detected on.
type Kind string

const (
	KindCPU     Kind = "cpu"
	KindMemory  Kind = "memory"
	KindDisk    Kind = "disk"
	KindProcess Kind = "process"
)

// Sample is one reading of host utilization, all values in percent.
type Sample struct {
	CPU       float64
	Memory    float64
	Disk      float64
	Processes []ProcessSample
}

// ProcessSample is the CPU usage of one process over the sample window.
// 100 means one full core, so multi-threaded processes can exceed it.
type ProcessSample struct {
	PID  int
	Name string
	CPU  float64
}

// Sampler takes a Sample of the host.
type Sampler interface {
	Sample(ctx context.Context) (Sample, error)
}

// Breach is one value found above its threshold.
type Breach struct {
	Kind      Kind
	Value     float64
	Threshold float64
	// Set for KindProcess only.
	PID  int
	Name string
}

// Message renders the breach as a one-line warning.
func (b Breach) Message() string {
	switch b.Kind {
	case KindCPU:
		return fmt.Sprintf("High CPU usage detected: %.1f%%", b.Value)
	case KindMemory:
		return fmt.Sprintf("High Memory usage detected: %.1f%%", b.Value)
	case KindDisk:
		return fmt.Sprintf("High Disk usage detected: %.1f%%", b.Value)
	default:
		return fmt.Sprintf("High CPU process detected: pid=%d name=%s cpu=%.1f%%", b.PID, b.Name, b.Value)
	}
}

// Evaluate compares s against the thresholds. Host breaches come first in
// cpu, memory, disk order, then processes ordered by PID.
func Evaluate(s Sample) []Breach {
	var breaches []Breach

	if s.CPU > CPUThreshold {
		breaches = append(breaches, Breach{Kind: KindCPU, Value: s.CPU, Threshold: CPUThreshold})
	}
	if s.Memory > MemoryThreshold {
		breaches = append(breaches, Breach{Kind: KindMemory, Value: s.Memory, Threshold: MemoryThreshold})
	}
	if s.Disk > DiskThreshold {
		breaches = append(breaches, Breach{Kind: KindDisk, Value: s.Disk, Threshold: DiskThreshold})
	}

	procs := make([]ProcessSample, len(s.Processes))
	copy(procs, s.Processes)
	sort.Slice(procs, func(i, j int) bool { return procs[i].PID < procs[j].PID })

	for _, p := range procs {
		if p.CPU > ProcessCPUThreshold {
			breaches = append(breaches, Breach{
				Kind:      KindProcess,
				Value:     p.CPU,
				Threshold: ProcessCPUThreshold,
				PID:       p.PID,
				Name:      p.Name,
			})
		}
	}

	return breaches
}
