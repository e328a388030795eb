package configuration

import (
	"fmt"
	"os"
	"time"
)

const (
	// KeyTempBase is the directory below which the probe creates its
	// scratch directory.
	KeyTempBase = "OSPROBE_TEMP_BASE"

	// KeyCreateMode is the octal permission used for files the probe
	// creates without an explicit mode.
	KeyCreateMode = "OSPROBE_CREATE_MODE"

	// KeySettleMs is the pause in milliseconds between steps that compare
	// timestamps.
	KeySettleMs = "OSPROBE_SETTLE_MS"

	// KeyKeepTemp keeps the scratch directory after the probe finished.
	KeyKeepTemp = "OSPROBE_KEEP_TEMP"

	// KeyPayloadSize is the number of bytes written and read back by the
	// data round trip checks.
	KeyPayloadSize = "OSPROBE_PAYLOAD_SIZE"

	// KeyScanEntries is the number of plain files added to the directory
	// scan check on top of its fixed entries.
	KeyScanEntries = "OSPROBE_SCAN_ENTRIES"

	DefaultCreateMode  uint32 = 0o777
	DefaultSettle             = 100 * time.Millisecond
	DefaultPayloadSize uint64 = 64 * 1024
	DefaultScanEntries        = 16

	maxPayloadSize = 1 << 30
)

type envLookupProvider interface {
	Lookup(name string) (string, bool)
}

// ProbeConfig holds the settings of the conformance probe.
type ProbeConfig struct {
	TempBase    string
	CreateMode  uint32
	Settle      time.Duration
	KeepTemp    bool
	PayloadSize uint64
	ScanEntries int
}

// LoadProbeConfig reads the probe settings from the given dotenv files.
// Variables set in the process environment take precedence over the files.
// Without files, only the environment and the defaults apply.
func (c *Handler) LoadProbeConfig(env envLookupProvider, filenames ...string) (*ProbeConfig, error) {
	envMap := make(map[string]string)

	if len(filenames) > 0 {
		fileMap, err := c.ReadGeneric(filenames...)
		if err != nil {
			return nil, fmt.Errorf("(config-probe) failed to read configuration: %w", err)
		}
		for k, v := range fileMap {
			envMap[k] = v
		}
	}

	for _, key := range []string{KeyTempBase, KeyCreateMode, KeySettleMs, KeyKeepTemp, KeyPayloadSize, KeyScanEntries} {
		if value, ok := env.Lookup(key); ok {
			envMap[key] = value
		}
	}

	config := &ProbeConfig{
		TempBase:   c.MapKeyToString(envMap, KeyTempBase),
		CreateMode: DefaultCreateMode,
		Settle:     DefaultSettle,
		KeepTemp:   c.MapKeyToBool(envMap, KeyKeepTemp),

		PayloadSize: DefaultPayloadSize,
		ScanEntries: DefaultScanEntries,
	}

	if config.TempBase == "" {
		config.TempBase = os.TempDir()
	}

	if _, exists := envMap[KeyCreateMode]; exists {
		mode, ok := c.MapKeyToFileMode(envMap, KeyCreateMode)
		if !ok {
			return nil, fmt.Errorf("(config-probe) %w: %s=%q", ErrInvalidValue, KeyCreateMode, envMap[KeyCreateMode])
		}
		config.CreateMode = mode
	}

	if _, exists := envMap[KeySettleMs]; exists {
		ms := c.MapKeyToInt64(envMap, KeySettleMs)
		if ms < 0 {
			return nil, fmt.Errorf("(config-probe) %w: %s=%q", ErrInvalidValue, KeySettleMs, envMap[KeySettleMs])
		}
		config.Settle = time.Duration(ms) * time.Millisecond
	}

	if _, exists := envMap[KeyPayloadSize]; exists {
		size := c.MapKeyToUInt64(envMap, KeyPayloadSize)
		if size == 0 || size > maxPayloadSize {
			return nil, fmt.Errorf("(config-probe) %w: %s=%q", ErrInvalidValue, KeyPayloadSize, envMap[KeyPayloadSize])
		}
		config.PayloadSize = size
	}

	if _, exists := envMap[KeyScanEntries]; exists {
		n := c.MapKeyToInt(envMap, KeyScanEntries)
		if n < 0 {
			return nil, fmt.Errorf("(config-probe) %w: %s=%q", ErrInvalidValue, KeyScanEntries, envMap[KeyScanEntries])
		}
		config.ScanEntries = n
	}

	return config, nil
}
