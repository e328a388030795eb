// Package configuration reads dotenv-style configuration files into maps and
// converts their values into typed settings.
package configuration

import (
	"strconv"
	"strings"
)

type genericConfigProvider interface {
	Read(filenames ...string) (envMap map[string]string, err error)
}

// Handler reads configuration through a generic provider and offers typed
// accessors for the resulting maps.
type Handler struct {
	GenericHandler genericConfigProvider
}

// NewHandler returns a pointer to a new [Handler].
func NewHandler(genericHandler genericConfigProvider) *Handler {
	return &Handler{
		GenericHandler: genericHandler,
	}
}

// ReadGeneric reads the given files into one map. Keys in later files
// replace those of earlier ones.
func (c *Handler) ReadGeneric(filenames ...string) (map[string]string, error) {
	return c.GenericHandler.Read(filenames...)
}

// MapKeyToString returns the value of key, or an empty string.
func (c *Handler) MapKeyToString(envMap map[string]string, key string) string {
	if value, exists := envMap[key]; exists {
		return value
	}

	return ""
}

// MapKeyToInt returns the value of key as an int, or -1.
func (c *Handler) MapKeyToInt(envMap map[string]string, key string) int {
	value := c.MapKeyToString(envMap, key)
	if value == "" {
		return -1
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return -1
	}

	return intValue
}

// MapKeyToInt64 returns the value of key as an int64, or -1.
func (c *Handler) MapKeyToInt64(envMap map[string]string, key string) int64 {
	value := c.MapKeyToString(envMap, key)
	if value == "" {
		return -1
	}
	intValue, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return -1
	}

	return intValue
}

// MapKeyToUInt64 returns the value of key as a uint64, or 0.
func (c *Handler) MapKeyToUInt64(envMap map[string]string, key string) uint64 {
	value := c.MapKeyToString(envMap, key)
	if value == "" {
		return 0
	}
	intValue, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0
	}

	return intValue
}

// MapKeyToBool returns the value of key as a bool. Besides the forms
// [strconv.ParseBool] accepts, "yes" and "no" are understood. Anything else
// is false.
func (c *Handler) MapKeyToBool(envMap map[string]string, key string) bool {
	value := strings.ToLower(strings.TrimSpace(c.MapKeyToString(envMap, key)))

	switch value {
	case "yes", "y", "on":
		return true
	case "no", "n", "off", "":
		return false
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return false
	}

	return b
}

// MapKeyToFileMode returns the value of key parsed as an octal permission,
// such as "0644" or "0o755". The second return is false when the key is
// missing or malformed.
func (c *Handler) MapKeyToFileMode(envMap map[string]string, key string) (uint32, bool) {
	value := strings.TrimSpace(c.MapKeyToString(envMap, key))
	value = strings.TrimPrefix(strings.TrimPrefix(value, "0o"), "0O")
	if value == "" {
		return 0, false
	}

	mode, err := strconv.ParseUint(value, 8, 32)
	if err != nil || mode > 0o7777 {
		return 0, false
	}

	return uint32(mode), true
}
