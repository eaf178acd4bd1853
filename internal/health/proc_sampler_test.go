package health_test

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/prometheus/procfs"

	"github.com/logtally/internal/health"
)

const fixtureStat = `cpu  100 0 100 800 0 0 0 0 0 0
cpu0 100 0 100 800 0 0 0 0 0 0
btime 1700000000
`

const fixtureMeminfo = `MemTotal:        1000 kB
MemFree:          100 kB
MemAvailable:     250 kB
Buffers:           50 kB
Cached:           100 kB
`

const fixturePidStat = `1 (init) S 0 1 1 0 -1 4194560 12345 678 90 12 150 250 30 40 20 0 1 0 5 171188224 3000 18446744073709551615 1 1 0 0 0 0 671173123 4096 1260 0 0 0 0 17 0 0 0 0 0 0 0 0 0 0 0 0 0 0
`

func writeFixture(root, name, content string) {
	path := filepath.Join(root, name)
	Expect(os.MkdirAll(filepath.Dir(path), 0755)).To(Succeed())
	Expect(os.WriteFile(path, []byte(content), 0644)).To(Succeed())
}

var _ = Describe("ProcSampler", func() {
	var root string

	BeforeEach(func() {
		var err error
		root, err = os.MkdirTemp("", "procfs")
		Expect(err).ToNot(HaveOccurred())

		writeFixture(root, "stat", fixtureStat)
		writeFixture(root, "meminfo", fixtureMeminfo)
		writeFixture(root, "1/stat", fixturePidStat)
	})

	AfterEach(func() {
		Expect(os.RemoveAll(root)).To(Succeed())
	})

	It("samples a proc tree", func() {
		sampler, err := health.NewProcSampler(root, root, 10*time.Millisecond)
		Expect(err).ToNot(HaveOccurred())

		s, err := sampler.Sample(context.Background())
		Expect(err).ToNot(HaveOccurred())

		Expect(s.CPU).To(BeZero())
		Expect(s.Memory).To(BeNumerically("~", 75, 0.001))
		Expect(s.Disk).To(And(BeNumerically(">=", 0), BeNumerically("<=", 100)))
		Expect(s.Processes).To(ConsistOf(health.ProcessSample{PID: 1, Name: "init", CPU: 0}))
	})

	It("stops waiting when the context is cancelled", func() {
		sampler, err := health.NewProcSampler(root, root, time.Hour)
		Expect(err).ToNot(HaveOccurred())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = sampler.Sample(ctx)
		Expect(err).To(Equal(context.Canceled))
	})

	It("fails on a missing disk path", func() {
		sampler, err := health.NewProcSampler(root, filepath.Join(root, "nope"), time.Millisecond)
		Expect(err).ToNot(HaveOccurred())

		_, err = sampler.Sample(context.Background())
		Expect(err).To(MatchError(ContainSubstring("statfs")))
	})

	It("fails without a proc root", func() {
		_, err := health.NewProcSampler(filepath.Join(root, "missing"), "/", time.Millisecond)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("utilization math", func() {
	It("computes busy share between cpu readings", func() {
		before := procfs.CPUStat{User: 10, System: 10, Idle: 80}
		after := procfs.CPUStat{User: 40, System: 20, Idle: 100, Iowait: 20}
		// total delta 80 (30+10+20+20), idle delta 40.
		Expect(health.CPUPercent(before, after)).To(BeNumerically("~", 50, 0.001))
	})

	It("returns zero cpu when no time passed", func() {
		c := procfs.CPUStat{User: 1, Idle: 1}
		Expect(health.CPUPercent(c, c)).To(BeZero())
	})

	It("uses MemAvailable when present", func() {
		total, avail := uint64(2000), uint64(500)
		Expect(health.MemoryPercent(procfs.Meminfo{MemTotal: &total, MemAvailable: &avail})).
			To(BeNumerically("~", 75, 0.001))
	})

	It("falls back to free, buffers and cached", func() {
		total, free, buffers, cached := uint64(1000), uint64(100), uint64(100), uint64(300)
		mi := procfs.Meminfo{MemTotal: &total, MemFree: &free, Buffers: &buffers, Cached: &cached}
		Expect(health.MemoryPercent(mi)).To(BeNumerically("~", 50, 0.001))
	})

	It("reports zero memory without a total", func() {
		Expect(health.MemoryPercent(procfs.Meminfo{})).To(BeZero())
	})

	It("excludes reserved blocks from free disk space", func() {
		// 100 total, 30 free, 20 available to users: 70 used of 90 usable.
		Expect(health.DiskPercent(100, 30, 20)).To(BeNumerically("~", 77.777, 0.001))
		Expect(health.DiskPercent(0, 0, 0)).To(BeZero())
	})

	It("measures per-process cpu against wall time", func() {
		before := map[int]health.ProcTime{
			1: health.NewProcTime("init", 5),
			2: health.NewProcTime("gone", 1),
		}
		after := map[int]health.ProcTime{
			1: health.NewProcTime("init", 6.5),
			3: health.NewProcTime("new", 9),
		}

		Expect(health.ProcessPercents(before, after, 1)).To(ConsistOf(
			health.ProcessSample{PID: 1, Name: "init", CPU: 150},
		))
		Expect(health.ProcessPercents(before, after, 0)).To(BeEmpty())
	})
})
