package health

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/procfs"
	"golang.org/x/sys/unix"
)

// ProcSampler samples a Linux host through /proc and statfs(2).
type ProcSampler struct {
	fs       procfs.FS
	diskPath string
	window   time.Duration
}

// NewProcSampler reads proc from procRoot ("" for /proc), measures disk usage
// of the filesystem holding diskPath, and measures CPU over window.
func NewProcSampler(procRoot, diskPath string, window time.Duration) (*ProcSampler, error) {
	if procRoot == "" {
		procRoot = procfs.DefaultMountPoint
	}
	fs, err := procfs.NewFS(procRoot)
	if err != nil {
		return nil, errors.Wrapf(err, "open procfs at %s", procRoot)
	}
	return &ProcSampler{fs: fs, diskPath: diskPath, window: window}, nil
}

type procTime struct {
	name string
	cpu  float64
}

// Sample blocks for the sample window, or until ctx is done.
func (s *ProcSampler) Sample(ctx context.Context) (Sample, error) {
	before, err := s.fs.Stat()
	if err != nil {
		return Sample{}, errors.Wrap(err, "read cpu stat")
	}
	procsBefore := s.procTimes()
	start := time.Now()

	timer := time.NewTimer(s.window)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return Sample{}, ctx.Err()
	case <-timer.C:
	}

	after, err := s.fs.Stat()
	if err != nil {
		return Sample{}, errors.Wrap(err, "read cpu stat")
	}
	procsAfter := s.procTimes()
	elapsed := time.Since(start).Seconds()

	mi, err := s.fs.Meminfo()
	if err != nil {
		return Sample{}, errors.Wrap(err, "read meminfo")
	}

	var st unix.Statfs_t
	if err := unix.Statfs(s.diskPath, &st); err != nil {
		return Sample{}, errors.Wrapf(err, "statfs %s", s.diskPath)
	}
	bsize := uint64(st.Bsize)

	return Sample{
		CPU:       cpuPercent(before.CPUTotal, after.CPUTotal),
		Memory:    memoryPercent(mi),
		Disk:      diskPercent(st.Blocks*bsize, st.Bfree*bsize, st.Bavail*bsize),
		Processes: processPercents(procsBefore, procsAfter, elapsed),
	}, nil
}

// procTimes skips processes that vanish or cannot be read.
func (s *ProcSampler) procTimes() map[int]procTime {
	times := make(map[int]procTime)
	procs, err := s.fs.AllProcs()
	if err != nil {
		return times
	}
	for _, p := range procs {
		stat, err := p.Stat()
		if err != nil {
			continue
		}
		times[stat.PID] = procTime{name: stat.Comm, cpu: stat.CPUTime()}
	}
	return times
}

// cpuPercent is the share of non-idle time between two readings. Guest time is
// already counted in user and nice.
func cpuPercent(before, after procfs.CPUStat) float64 {
	idle := (after.Idle + after.Iowait) - (before.Idle + before.Iowait)
	total := cpuTotal(after) - cpuTotal(before)
	if total <= 0 {
		return 0
	}
	busy := total - idle
	if busy < 0 {
		busy = 0
	}
	return busy / total * 100
}

func cpuTotal(c procfs.CPUStat) float64 {
	return c.User + c.Nice + c.System + c.Idle + c.Iowait + c.IRQ + c.SoftIRQ + c.Steal
}

// memoryPercent follows the kernel's MemAvailable estimate, falling back to
// free+buffers+cached on kernels that do not report it.
func memoryPercent(mi procfs.Meminfo) float64 {
	if mi.MemTotal == nil || *mi.MemTotal == 0 {
		return 0
	}
	total := float64(*mi.MemTotal)

	var avail float64
	if mi.MemAvailable != nil {
		avail = float64(*mi.MemAvailable)
	} else {
		avail = float64(deref(mi.MemFree) + deref(mi.Buffers) + deref(mi.Cached))
	}

	used := total - avail
	if used < 0 {
		used = 0
	}
	return used / total * 100
}

func deref(v *uint64) uint64 {
	if v == nil {
		return 0
	}
	return *v
}

// diskPercent is used space over space available to unprivileged users, so
// blocks reserved for root do not count as free.
func diskPercent(total, free, avail uint64) float64 {
	if total < free {
		return 0
	}
	used := total - free
	if used+avail == 0 {
		return 0
	}
	return float64(used) / float64(used+avail) * 100
}

func processPercents(before, after map[int]procTime, elapsed float64) []ProcessSample {
	if elapsed <= 0 {
		return nil
	}
	samples := make([]ProcessSample, 0, len(after))
	for pid, a := range after {
		b, ok := before[pid]
		if !ok {
			continue
		}
		delta := a.cpu - b.cpu
		if delta < 0 {
			delta = 0
		}
		samples = append(samples, ProcessSample{
			PID:  pid,
			Name: a.name,
			CPU:  delta / elapsed * 100,
		})
	}
	return samples
}
