// Package logging provides structured logging for writeburst runs.
//
// It wraps Go's log/slog to produce JSON-formatted logs with persistent
// context attributes (run ID, strategy, role), so the interleaved output of
// many concurrent worker roles can be filtered after the fact. Because a
// successful run ends with the host crashing, every record is written to the
// destination as it is produced rather than buffered.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger("", "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	racerLog := logger.WithStrategy("barrier").WithRole("racer").With("racer_id", 3)
//	racerLog.Warn("artifact mutation failed", "path", p, "error", err)
//
// All types are safe for concurrent use. Child loggers created via the
// With* methods share the underlying writer.
//
// For tests, [NopLogger] discards all output.
package logging
