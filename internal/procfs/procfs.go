// Package procfs reads raw host resource counters from a /proc-like
// filesystem. Each read is a single stateless pass over the source files;
// rate computation from successive samples lives in the stats package.
package procfs

import (
	"bufio"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/agbru/hostmon/internal/errors"
)

// DefaultRoot is the mount point of the proc filesystem on Linux hosts.
const DefaultRoot = "/proc"

// CPUSample holds the monotonically non-decreasing CPU time counters for one
// CPU (or the aggregate of all CPUs), in kernel clock ticks. Total is the sum
// of all buckets and is maintained by the parser.
type CPUSample struct {
	User    uint64
	Nice    uint64
	System  uint64
	Idle    uint64
	IOWait  uint64
	IRQ     uint64
	SoftIRQ uint64
	Total   uint64
}

// Memory holds the raw memory counters from /proc/meminfo, in bytes.
type Memory struct {
	Total     uint64
	Available uint64
	Cached    uint64
	Free      uint64
}

// Sampler reads counters from a proc filesystem rooted at a fixed path.
// It is stateless and safe for concurrent use.
type Sampler struct {
	root string
}

// New creates a Sampler reading from the host's /proc. On platforms without
// a proc filesystem it returns an UnsupportedPlatformError.
func New() (*Sampler, error) {
	if runtime.GOOS != "linux" {
		return nil, apperrors.UnsupportedPlatformError{GOOS: runtime.GOOS}
	}
	return &Sampler{root: DefaultRoot}, nil
}

// NewWithRoot creates a Sampler reading from an arbitrary directory laid out
// like /proc. Intended for tests and containerized environments where the
// host proc is mounted elsewhere.
func NewWithRoot(root string) *Sampler {
	return &Sampler{root: root}
}

// parseField parses a single whitespace-delimited counter field. Malformed
// fields read as 0 rather than failing the whole sample.
func parseField(s string) uint64 {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseCPULine parses the numeric fields of one /proc/stat cpu record,
// excluding the leading "cpu"/"cpuN" label. Missing trailing fields read as 0.
func parseCPULine(fields []string) CPUSample {
	var s CPUSample
	get := func(i int) uint64 {
		if i < len(fields) {
			return parseField(fields[i])
		}
		return 0
	}
	s.User = get(0)
	s.Nice = get(1)
	s.System = get(2)
	s.Idle = get(3)
	s.IOWait = get(4)
	s.IRQ = get(5)
	s.SoftIRQ = get(6)
	s.Total = s.User + s.Nice + s.System + s.Idle + s.IOWait + s.IRQ + s.SoftIRQ
	return s
}

// SampleAggregate reads the aggregate CPU counters (the leading "cpu" record
// of /proc/stat).
func (s *Sampler) SampleAggregate() (CPUSample, error) {
	overall, _, err := s.sampleCPU(false)
	return overall, err
}

// SampleAllCores reads the aggregate CPU counters and the per-core counters,
// ordered by core index as listed by the kernel.
func (s *Sampler) SampleAllCores() (CPUSample, []CPUSample, error) {
	return s.sampleCPU(true)
}

func (s *Sampler) sampleCPU(perCore bool) (CPUSample, []CPUSample, error) {
	path := filepath.Join(s.root, "stat")
	f, err := os.Open(path)
	if err != nil {
		return CPUSample{}, nil, apperrors.WrapError(err, "opening cpu counter source")
	}
	defer f.Close()

	var overall CPUSample
	var cores []CPUSample
	seenAggregate := false

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		label := fields[0]
		switch {
		case label == "cpu":
			overall = parseCPULine(fields[1:])
			seenAggregate = true
		case strings.HasPrefix(label, "cpu"):
			if perCore {
				cores = append(cores, parseCPULine(fields[1:]))
			}
		default:
			// Remaining records (intr, ctxt, btime, ...) are not CPU counters.
		}
	}
	if err := scanner.Err(); err != nil {
		return CPUSample{}, nil, apperrors.WrapError(err, "reading %s", path)
	}
	if !seenAggregate {
		return CPUSample{}, nil, apperrors.NewParseError(path, "aggregate cpu record missing")
	}
	return overall, cores, nil
}

// ReadMemory reads the memory counters from /proc/meminfo. Values are
// reported by the kernel in kB and converted to bytes. Unknown keys are
// ignored; malformed values read as 0.
func (s *Sampler) ReadMemory() (Memory, error) {
	path := filepath.Join(s.root, "meminfo")
	f, err := os.Open(path)
	if err != nil {
		return Memory{}, apperrors.WrapError(err, "opening memory counter source")
	}
	defer f.Close()

	var mem Memory
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		value := parseField(fields[1]) * 1024
		switch fields[0] {
		case "MemTotal:":
			mem.Total = value
		case "MemAvailable:":
			mem.Available = value
		case "Cached:":
			mem.Cached = value
		case "MemFree:":
			mem.Free = value
		}
	}
	if err := scanner.Err(); err != nil {
		return Memory{}, apperrors.WrapError(err, "reading %s", path)
	}
	return mem, nil
}

// Hostname reads the host name from /proc/sys/kernel/hostname.
func (s *Sampler) Hostname() (string, error) {
	path := filepath.Join(s.root, "sys", "kernel", "hostname")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", apperrors.WrapError(err, "reading hostname")
	}
	return strings.TrimSpace(string(data)), nil
}

// Uptime reads the host uptime from /proc/uptime, falling back to the
// sysinfo syscall when the file is unreadable. Returns 0 when neither
// source is available; uptime is decorative and never fails a collection.
func (s *Sampler) Uptime() time.Duration {
	path := filepath.Join(s.root, "uptime")
	if data, err := os.ReadFile(path); err == nil {
		fields := strings.Fields(string(data))
		if len(fields) > 0 {
			if secs, err := strconv.ParseFloat(fields[0], 64); err == nil {
				return time.Duration(secs * float64(time.Second))
			}
		}
	}
	if d, ok := sysinfoUptime(); ok {
		return d
	}
	return 0
}

// LoadAvg reads the one-minute load average from /proc/loadavg. Returns 0
// when the file is missing or malformed.
func (s *Sampler) LoadAvg() float64 {
	path := filepath.Join(s.root, "loadavg")
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return 0
	}
	load, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0
	}
	return load
}
