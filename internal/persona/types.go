// Package persona holds the persona resource-restriction record and the
// console flow that collects it.
package persona

import (
	"encoding/json"
	"errors"
	"fmt"
)

// PathMode selects how PathRestriction.List is interpreted.
type PathMode int

const (
	WhiteList PathMode = 1
	BlackList PathMode = 2
)

func (m PathMode) String() string {
	switch m {
	case WhiteList:
		return "WhiteList"
	case BlackList:
		return "BlackList"
	default:
		return fmt.Sprintf("PathMode(%d)", int(m))
	}
}

func (m PathMode) MarshalJSON() ([]byte, error) {
	switch m {
	case WhiteList, BlackList:
		return json.Marshal(m.String())
	default:
		return nil, fmt.Errorf("unknown path mode %d", int(m))
	}
}

func (m *PathMode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "WhiteList":
		*m = WhiteList
	case "BlackList":
		*m = BlackList
	default:
		return fmt.Errorf("unknown path mode %q", s)
	}
	return nil
}

// Config is the persona record written to the output file. Field order
// is the order of the JSON document.
type Config struct {
	PersonasID      int64           `json:"personas_id"`
	CPU             CPU             `json:"cpu"`
	Memory          int64           `json:"memory"` // MB
	IO              IO              `json:"io"`
	IsolatedFS      bool            `json:"isolated_fs"`
	DeviceAccess    bool            `json:"device_access"`
	PathRestriction PathRestriction `json:"path_restriction"`
}

// CPU holds the CPU share as a percentage in [1,100].
type CPU struct {
	Percent int64 `json:"Percent"`
}

// IO limits. A nil field means no limit and is written as null.
type IO struct {
	ReadSpeedMax  *int64 `json:"read_speed_max"`  // MB/s
	WriteSpeedMax *int64 `json:"write_speed_max"` // MB/s
	RIOPS         *int64 `json:"riops"`
	WIOPS         *int64 `json:"wiops"`
}

// PathRestriction lists the paths a persona is limited to or kept from,
// depending on Mode.
type PathRestriction struct {
	Mode PathMode `json:"mode"`
	List []string `json:"list"`
}

// Validate checks the record invariants.
func (c *Config) Validate() error {
	var errs []error
	if c.PersonasID < 0 {
		errs = append(errs, fmt.Errorf("personas_id: must not be negative, got %d", c.PersonasID))
	}
	if c.CPU.Percent < 1 || c.CPU.Percent > 100 {
		errs = append(errs, fmt.Errorf("cpu.Percent: must be between 1 and 100, got %d", c.CPU.Percent))
	}
	if c.Memory <= 0 {
		errs = append(errs, fmt.Errorf("memory: must be positive, got %d", c.Memory))
	}
	for _, f := range []struct {
		name string
		v    *int64
	}{
		{"io.read_speed_max", c.IO.ReadSpeedMax},
		{"io.write_speed_max", c.IO.WriteSpeedMax},
		{"io.riops", c.IO.RIOPS},
		{"io.wiops", c.IO.WIOPS},
	} {
		if f.v != nil && *f.v < 0 {
			errs = append(errs, fmt.Errorf("%s: must not be negative, got %d", f.name, *f.v))
		}
	}
	if c.PathRestriction.Mode != WhiteList && c.PathRestriction.Mode != BlackList {
		errs = append(errs, fmt.Errorf("path_restriction.mode: unknown mode %d", int(c.PathRestriction.Mode)))
	}
	return errors.Join(errs...)
}
