// Package raw reads environment variables without logging; the logger
// bootstraps from it, so it must not import the logger
package raw

import (
	"os"
	"strconv"
	"strings"
)

// Conf is a prefixed view over the environment
type Conf struct{ prefix string }

// New returns the unprefixed view
func New() Conf { return Conf{} }

// Prefix returns a child view; prefixes concatenate
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) value(key string) (string, bool) {
	v, ok := os.LookupEnv(c.prefix + key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// Get returns the trimmed value or def when unset or blank
func (c Conf) Get(key, def string) string {
	if v, ok := c.value(key); ok {
		return v
	}
	return def
}

// GetBool accepts 1/0, true/false, yes/no and on/off; anything else is def
func (c Conf) GetBool(key string, def bool) bool {
	v, ok := c.value(key)
	if !ok {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}

// GetInt returns a non-negative integer or def
func (c Conf) GetInt(key string, def int) int {
	v, ok := c.value(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
