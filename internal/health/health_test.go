package health_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"

	"github.com/logtally/internal/health"
)

var _ = Describe("Evaluate", func() {
	It("returns nothing for a quiet host", func() {
		s := health.Sample{
			CPU:       12,
			Memory:    40,
			Disk:      55,
			Processes: []health.ProcessSample{{PID: 1, Name: "init", CPU: 0.1}},
		}
		Expect(health.Evaluate(s)).To(BeEmpty())
	})

	It("does not flag values equal to the threshold", func() {
		s := health.Sample{
			CPU:       health.CPUThreshold,
			Memory:    health.MemoryThreshold,
			Disk:      health.DiskThreshold,
			Processes: []health.ProcessSample{{PID: 7, Name: "edge", CPU: health.ProcessCPUThreshold}},
		}
		Expect(health.Evaluate(s)).To(BeEmpty())
	})

	It("reports host breaches in cpu, memory, disk order", func() {
		breaches := health.Evaluate(health.Sample{CPU: 95, Memory: 81, Disk: 99.5})

		Expect(breaches).To(HaveLen(3))
		Expect(breaches[0]).To(Equal(health.Breach{Kind: health.KindCPU, Value: 95, Threshold: 80}))
		Expect(breaches[1].Kind).To(Equal(health.KindMemory))
		Expect(breaches[2].Kind).To(Equal(health.KindDisk))
		Expect(breaches[2].Value).To(Equal(99.5))
	})

	It("reports busy processes ordered by pid after host breaches", func() {
		s := health.Sample{
			Disk: 90,
			Processes: []health.ProcessSample{
				{PID: 300, Name: "ffmpeg", CPU: 180},
				{PID: 12, Name: "idle", CPU: 1},
				{PID: 42, Name: "java", CPU: 85},
			},
		}

		breaches := health.Evaluate(s)
		Expect(breaches).To(HaveLen(3))
		Expect(breaches[0].Kind).To(Equal(health.KindDisk))
		Expect(breaches[1]).To(Equal(health.Breach{
			Kind: health.KindProcess, Value: 85, Threshold: 80, PID: 42, Name: "java",
		}))
		Expect(breaches[2].PID).To(Equal(300))
	})

	It("does not reorder the caller's processes", func() {
		procs := []health.ProcessSample{{PID: 9, CPU: 90}, {PID: 3, CPU: 90}}
		health.Evaluate(health.Sample{Processes: procs})
		Expect(procs[0].PID).To(Equal(9))
	})
})

var _ = Describe("Breach", func() {
	DescribeTable("Message",
		func(b health.Breach, want string) {
			Expect(b.Message()).To(Equal(want))
		},
		Entry("cpu", health.Breach{Kind: health.KindCPU, Value: 91.24}, "High CPU usage detected: 91.2%"),
		Entry("memory", health.Breach{Kind: health.KindMemory, Value: 88}, "High Memory usage detected: 88.0%"),
		Entry("disk", health.Breach{Kind: health.KindDisk, Value: 97.5}, "High Disk usage detected: 97.5%"),
		Entry("process", health.Breach{Kind: health.KindProcess, Value: 150, PID: 42, Name: "java"},
			"High CPU process detected: pid=42 name=java cpu=150.0%"),
	)
})
