// Package hostinfo reads host capacity so that recorded limits can be
// compared against the machine the persona is configured on.
package hostinfo

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Capacity is what the host offers.
type Capacity struct {
	MemoryMB    int64
	LogicalCPUs int
}

// Detect reads host memory and CPU count.
func Detect(ctx context.Context) (Capacity, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Capacity{}, fmt.Errorf("read host memory: %w", err)
	}
	cpus, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		return Capacity{}, fmt.Errorf("read host cpu count: %w", err)
	}
	return Capacity{
		MemoryMB:    int64(vm.Total / (1024 * 1024)),
		LogicalCPUs: cpus,
	}, nil
}

// MemoryWarning returns a message when memoryMB is larger than the host
// memory, or "" when it fits.
func (c Capacity) MemoryWarning(memoryMB int64) string {
	if c.MemoryMB <= 0 || memoryMB <= c.MemoryMB {
		return ""
	}
	return fmt.Sprintf("memory limit %d MB exceeds host memory %d MB", memoryMB, c.MemoryMB)
}
