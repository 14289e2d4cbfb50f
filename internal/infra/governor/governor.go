// Package governor derives a render worker budget from observed host
// resources. The budget is re-read at batch boundaries; it never changes
// mid-batch.
package governor

import (
	"log/slog"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"

	"newsreel/internal/observability/metrics"
)

const (
	// lowMemoryBytes forces the floor budget.
	lowMemoryBytes = 4 << 30
	// midMemoryBytes halves the CPU-derived budget.
	midMemoryBytes = 8 << 30

	// DefaultDiskSafetyMargin is the free-disk threshold below which the
	// budget is forced to the floor.
	DefaultDiskSafetyMargin = 5 << 30
)

// Config bounds the worker budget.
type Config struct {
	// Floor is the minimum budget, clamped to at least 1.
	Floor int
	// Ceiling is the maximum budget; non-positive means no ceiling.
	Ceiling int
	// OutputPath is the filesystem checked for free space.
	OutputPath string
	// DiskSafetyMargin is the minimum free disk required for a full
	// budget. Zero uses DefaultDiskSafetyMargin.
	DiskSafetyMargin uint64
}

// DefaultConfig returns the production governor configuration.
func DefaultConfig() Config {
	return Config{
		Floor:            1,
		Ceiling:          8,
		OutputPath:       ".",
		DiskSafetyMargin: DefaultDiskSafetyMargin,
	}
}

// Governor computes worker budgets from host memory, CPU count, and free
// disk. Probe failures fall back to the floor rather than aborting.
type Governor struct {
	cfg    Config
	logger *slog.Logger

	// WarnSink receives non-fatal resource warnings, typically wired to the
	// job ledger's error log.
	WarnSink func(message string)

	availableMem func() (uint64, error)
	cpuCount     func() (int, error)
	freeDisk     func(path string) (uint64, error)
}

// New creates a governor observing the live host.
func New(cfg Config, logger *slog.Logger) *Governor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Floor < 1 {
		cfg.Floor = 1
	}
	if cfg.DiskSafetyMargin == 0 {
		cfg.DiskSafetyMargin = DefaultDiskSafetyMargin
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = "."
	}
	return &Governor{
		cfg:    cfg,
		logger: logger,
		availableMem: func() (uint64, error) {
			vm, err := mem.VirtualMemory()
			if err != nil {
				return 0, err
			}
			return vm.Available, nil
		},
		cpuCount: func() (int, error) {
			return cpu.Counts(true)
		},
		freeDisk: func(path string) (uint64, error) {
			usage, err := disk.Usage(path)
			if err != nil {
				return 0, err
			}
			return usage.Free, nil
		},
	}
}

// MaxConcurrency returns the current worker budget, clamped to
// [Floor, Ceiling]. Low memory reduces the budget; free disk below the
// safety margin forces the floor and emits a warning.
func (g *Governor) MaxConcurrency() int {
	budget := g.memoryBudget()

	if free, err := g.freeDisk(g.cfg.OutputPath); err != nil {
		g.logger.Warn("disk probe failed, forcing floor budget",
			slog.String("error", err.Error()))
		budget = g.cfg.Floor
	} else if free < g.cfg.DiskSafetyMargin {
		g.warn("low disk space, rendering at minimum concurrency")
		g.logger.Warn("free disk below safety margin",
			slog.Uint64("free_bytes", free),
			slog.Uint64("margin_bytes", g.cfg.DiskSafetyMargin))
		budget = g.cfg.Floor
	}

	if budget < g.cfg.Floor {
		budget = g.cfg.Floor
	}
	if g.cfg.Ceiling > 0 && budget > g.cfg.Ceiling {
		budget = g.cfg.Ceiling
	}
	metrics.SetGovernorBudget(budget)
	return budget
}

func (g *Governor) memoryBudget() int {
	avail, err := g.availableMem()
	if err != nil {
		g.logger.Warn("memory probe failed, forcing floor budget",
			slog.String("error", err.Error()))
		return g.cfg.Floor
	}

	cpus, err := g.cpuCount()
	if err != nil || cpus < 1 {
		cpus = 1
	}

	switch {
	case avail < lowMemoryBytes:
		return g.cfg.Floor
	case avail < midMemoryBytes:
		half := cpus / 2
		if half < 1 {
			half = 1
		}
		return half
	default:
		return cpus
	}
}

func (g *Governor) warn(message string) {
	if g.WarnSink != nil {
		g.WarnSink(message)
	}
}
