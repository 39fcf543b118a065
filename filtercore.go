package aegis

import "go.uber.org/zap/zapcore"

// SentinelKey is the field key used to smuggle a context.Context to the OTEL
// bridge via zap.Reflect. The filtering core hides it from console and file
// output while the bridge extracts LogRecord trace IDs from it.
const SentinelKey = "__aegis_ctx__"

// SystemFieldPrefix is the reserved prefix for internal system fields.
// Users should avoid keys starting with this prefix.
const SystemFieldPrefix = "__aegis_"

// filteringCore wraps a zapcore.Core to filter out specific field keys.
type filteringCore struct {
	zapcore.Core
	filterKeys []string
}

// newFilteringCore creates a core that filters out specific keys.
func newFilteringCore(core zapcore.Core, keys ...string) zapcore.Core {
	return &filteringCore{Core: core, filterKeys: keys}
}

func (c *filteringCore) With(fields []zapcore.Field) zapcore.Core {
	filtered := make([]zapcore.Field, 0, len(fields))
	for _, f := range fields {
		if !c.shouldFilter(f.Key) {
			filtered = append(filtered, f)
		}
	}
	return &filteringCore{Core: c.Core.With(filtered), filterKeys: c.filterKeys}
}

func (c *filteringCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *filteringCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	filtered := make([]zapcore.Field, 0, len(fields))
	for _, f := range fields {
		if !c.shouldFilter(f.Key) {
			filtered = append(filtered, f)
		}
	}
	return c.Core.Write(entry, filtered)
}

func (c *filteringCore) shouldFilter(key string) bool {
	for _, k := range c.filterKeys {
		if k == key {
			return true
		}
	}
	return false
}

// levelEnforcer wraps a Core and overrides its Enabled check
// to respect the provided LevelEnabler (e.g. AtomicLevel).
// Needed because some wrapped cores (like otelzap) default to Info
// while the configured sink level may be more verbose.
type levelEnforcer struct {
	zapcore.Core
	level zapcore.LevelEnabler
}

func (l *levelEnforcer) Enabled(lvl zapcore.Level) bool {
	return l.level.Enabled(lvl)
}

func (l *levelEnforcer) With(fields []zapcore.Field) zapcore.Core {
	return &levelEnforcer{
		Core:  l.Core.With(fields),
		level: l.level,
	}
}

func (l *levelEnforcer) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if l.Enabled(ent.Level) {
		return ce.AddCore(ent, l)
	}
	return ce
}
