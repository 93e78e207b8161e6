// SPDX-License-Identifier: MIT

package route6

import (
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultRecycleTime is the dustbin tick period used when
	// recycle_time is absent or out of range.
	DefaultRecycleTime = 10 * time.Second

	// RecycleTimeMin and RecycleTimeMax bound the configurable
	// recycle_time, in seconds.
	RecycleTimeMin = 1
	RecycleTimeMax = 36000
)

// Config holds the route6 section of the load balancer's
// configuration file.
type Config struct {
	Method      Method
	RecycleTime time.Duration
}

// DefaultConfig returns the configuration used when the route6 section
// is absent entirely.
func DefaultConfig() Config {
	return Config{Method: DefaultMethod, RecycleTime: DefaultRecycleTime}
}

type fileConfig struct {
	Route6 struct {
		Method      string `yaml:"method"`
		RecycleTime int    `yaml:"recycle_time"`
	} `yaml:"route6"`
}

// LoadConfig parses the route6 section out of a YAML configuration
// file. An unrecognised method or an out-of-range recycle_time is
// warned about via logger and replaced with its default, rather than
// rejected -- method is an init-time-only keyword, so there is no
// running state to preserve on a bad value, and recycle_time simply
// keeps its prior/default value.
func LoadConfig(data []byte, logger *logrus.Logger) (Config, error) {
	var raw fileConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, newErr(KindInvalid, "config", err)
	}

	cfg := DefaultConfig()

	switch Method(raw.Route6.Method) {
	case "":
		// route6.method omitted: keep default silently.
	case MethodLPM, MethodHlist:
		cfg.Method = Method(raw.Route6.Method)
		logger.WithField("method", cfg.Method).Info("route6: method configured")
	default:
		logger.WithFields(logrus.Fields{
			"method":  raw.Route6.Method,
			"default": DefaultMethod,
		}).Warn("route6: invalid method, using default")
	}

	switch {
	case raw.Route6.RecycleTime == 0:
		// route6.recycle_time omitted: keep default silently.
	case raw.Route6.RecycleTime < RecycleTimeMin || raw.Route6.RecycleTime > RecycleTimeMax:
		logger.WithFields(logrus.Fields{
			"recycle_time": raw.Route6.RecycleTime,
			"default":      DefaultRecycleTime,
		}).Warn("route6: invalid recycle_time, using default")
	default:
		cfg.RecycleTime = time.Duration(raw.Route6.RecycleTime) * time.Second
		logger.WithField("recycle_time", cfg.RecycleTime).Info("route6: recycle_time configured")
	}

	return cfg, nil
}
