package persona

import (
	"fmt"
	"strings"

	"github.com/kayz/personas/internal/logger"
	"github.com/kayz/personas/internal/prompt"
)

// Options tunes the collection flow.
type Options struct {
	// IOBlankUnlimited accepts a blank I/O answer as "no limit" (null).
	// When false a blank answer is not an integer and is asked again.
	IOBlankUnlimited bool
}

// Collect asks for every section in order and returns the assembled record.
func Collect(p *prompt.Prompter, opts Options) (*Config, error) {
	p.Println("Configuring Personas...")

	id, err := prompt.Ask(p, prompt.Question{Key: "personas_id", Prompt: "Enter persona ID: "},
		prompt.Int, prompt.AtLeast(0))
	if err != nil {
		return nil, err
	}

	cpu, err := ConfigureCPU(p)
	if err != nil {
		return nil, err
	}
	memory, err := ConfigureMemory(p)
	if err != nil {
		return nil, err
	}
	ioLimits, err := ConfigureIO(p, opts)
	if err != nil {
		return nil, err
	}
	isolated, err := prompt.YesNo(p, prompt.Question{Key: "isolated_fs", Prompt: "Isolate filesystem? (yes/no): "})
	if err != nil {
		return nil, err
	}
	devices, err := prompt.YesNo(p, prompt.Question{Key: "device_access", Prompt: "Allow device access? (yes/no): "})
	if err != nil {
		return nil, err
	}
	paths, err := ConfigurePathRestriction(p)
	if err != nil {
		return nil, err
	}

	return &Config{
		PersonasID:      id,
		CPU:             cpu,
		Memory:          memory,
		IO:              ioLimits,
		IsolatedFS:      isolated,
		DeviceAccess:    devices,
		PathRestriction: paths,
	}, nil
}

func section(p *prompt.Prompter, name string) {
	p.Printf("\n--- %s Configuration ---\n", name)
}

// ConfigureCPU asks for the CPU limit as a percentage in [1, 100].
func ConfigureCPU(p *prompt.Prompter) (CPU, error) {
	section(p, "CPU")
	percent, err := prompt.Ask(p, prompt.Question{
		Key:    "cpu.percent",
		Prompt: "Enter CPU limit as a percentage (1-100): ",
	}, prompt.Int, prompt.Between(1, 100))
	if err != nil {
		return CPU{}, err
	}
	return CPU{Percent: percent}, nil
}

// ConfigureMemory asks for the memory limit in MB.
func ConfigureMemory(p *prompt.Prompter) (int64, error) {
	section(p, "Memory")
	return prompt.Ask(p, prompt.Question{
		Key:    "memory",
		Prompt: "Enter max memory in MB: ",
	}, prompt.Int, prompt.AtLeast(1))
}

var ioQuestions = []prompt.Question{
	{Key: "io.read_speed_max", Prompt: "Enter max I/O read speed in MB/s (leave blank for no limit): "},
	{Key: "io.write_speed_max", Prompt: "Enter max I/O write speed in MB/s (leave blank for no limit): "},
	{Key: "io.riops", Prompt: "Enter max read IOPS (leave blank for no limit): "},
	{Key: "io.wiops", Prompt: "Enter max write IOPS (leave blank for no limit): "},
}

// ConfigureIO asks for the four I/O limits.
func ConfigureIO(p *prompt.Prompter, opts Options) (IO, error) {
	section(p, "I/O")

	parse := ioLimitParser(opts.IOBlankUnlimited)
	limits := make([]*int64, len(ioQuestions))
	for i, q := range ioQuestions {
		v, err := prompt.Ask(p, q, parse, validateIOLimit)
		if err != nil {
			return IO{}, err
		}
		limits[i] = v
	}

	return IO{
		ReadSpeedMax:  limits[0],
		WriteSpeedMax: limits[1],
		RIOPS:         limits[2],
		WIOPS:         limits[3],
	}, nil
}

func ioLimitParser(blankUnlimited bool) prompt.Parser[*int64] {
	return func(raw string) (*int64, error) {
		if blankUnlimited && strings.TrimSpace(raw) == "" {
			return nil, nil
		}
		n, err := prompt.Int(raw)
		if err != nil {
			return nil, err
		}
		return &n, nil
	}
}

func validateIOLimit(v *int64) error {
	if v == nil || *v >= 0 {
		return nil
	}
	return fmt.Errorf("must be at least 0")
}

// ConfigurePathRestriction asks for the restriction mode and then for paths
// until a blank line. Entries keep their order; duplicates are kept.
func ConfigurePathRestriction(p *prompt.Prompter) (PathRestriction, error) {
	section(p, "Path Restrictions")

	mode, err := prompt.Ask(p, prompt.Question{
		Key:    "path_restriction.mode",
		Prompt: "Choose path restriction mode (1 for Whitelist, 2 for Blacklist): ",
	}, prompt.Int, prompt.OneOf(int64(WhiteList), int64(BlackList)))
	if err != nil {
		return PathRestriction{}, err
	}

	list, err := readPaths(p)
	if err != nil {
		return PathRestriction{}, err
	}
	return PathRestriction{Mode: PathMode(mode), List: list}, nil
}

func readPaths(p *prompt.Prompter) ([]string, error) {
	paths := []string{}

	if raw, ok := p.Prefilled("path_restriction.list"); ok {
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				paths = append(paths, item)
			}
		}
		logger.Debug("using prefilled answer for path_restriction.list (%d paths)", len(paths))
		return paths, nil
	}
	if !p.Interactive() {
		logger.Debug("no paths provided for path_restriction.list")
		return paths, nil
	}

	for {
		line, err := p.Line("Enter a path (leave blank to finish): ")
		if err != nil {
			return nil, fmt.Errorf("read path_restriction.list: %w", err)
		}
		path := strings.TrimSpace(line)
		if path == "" {
			return paths, nil
		}
		paths = append(paths, path)
	}
}

// Keys lists every question key accepted as a prefilled answer.
func Keys() []string {
	keys := []string{"personas_id", "cpu.percent", "memory"}
	for _, q := range ioQuestions {
		keys = append(keys, q.Key)
	}
	return append(keys, "isolated_fs", "device_access", "path_restriction.mode", "path_restriction.list")
}
