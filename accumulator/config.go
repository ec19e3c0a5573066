package accumulator

import (
	"github.com/kbukum/transcriptkit/errors"
	"github.com/kbukum/transcriptkit/util"
	"github.com/kbukum/transcriptkit/validation"
)

// Config contains construction-time accumulator configuration.
// All fields are defaulted; zero values mean "use the default".
type Config struct {
	// LockWindowSeconds is how far behind the live edge a segment must
	// fall before it is locked.
	LockWindowSeconds float64 `yaml:"lock_window_seconds" mapstructure:"lock_window_seconds" validate:"gt=0"`
	// TimestampToleranceSeconds absorbs upstream timestamp jitter when
	// matching an incoming event against existing segments.
	TimestampToleranceSeconds float64 `yaml:"timestamp_tolerance_seconds" mapstructure:"timestamp_tolerance_seconds" validate:"gte=0"`
	// SnapshotTTLSeconds bounds how long a boundary snapshot waits for a
	// confirming final before its content is committed verbatim. Tune to
	// observed confirmation latency; 3-6 s in practice.
	SnapshotTTLSeconds float64 `yaml:"snapshot_ttl_seconds" mapstructure:"snapshot_ttl_seconds" validate:"gt=0,lte=60"`
	// Debug enables per-event debug logging.
	Debug bool `yaml:"debug" mapstructure:"debug"`
}

// Default configuration values.
const (
	DefaultLockWindowSeconds         = 2.0
	DefaultTimestampToleranceSeconds = 0.1
	DefaultSnapshotTTLSeconds        = 5.0
)

// ApplyDefaults applies default values to unset fields.
func (c *Config) ApplyDefaults() {
	c.LockWindowSeconds = util.Coalesce(c.LockWindowSeconds, DefaultLockWindowSeconds)
	c.TimestampToleranceSeconds = util.Coalesce(c.TimestampToleranceSeconds, DefaultTimestampToleranceSeconds)
	c.SnapshotTTLSeconds = util.Coalesce(c.SnapshotTTLSeconds, DefaultSnapshotTTLSeconds)
}

// Validate validates the configuration. Failures are fatal at
// construction; a running accumulator never re-validates.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return errors.InvalidConfig("accumulator", "invalid tunables").WithCause(err)
	}
	if c.TimestampToleranceSeconds >= c.LockWindowSeconds {
		return errors.InvalidConfig("timestamp_tolerance_seconds",
			"tolerance must be smaller than the lock window")
	}
	return nil
}
