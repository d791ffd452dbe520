// Package logger provides the structured logging interface used across vkbackup.
//
// It wraps zerolog and supports:
// - Leveled logging (Debug, Info, Warn, Error)
// - Child loggers carrying fields (WithField, WithFields, WithError)
// - Colored console output, or JSON with logging.format set to json
// - Appending JSON lines to a file when logging.file is set
// - A global logger for the CLI, and TestLogger for assertions in tests
//
// Basic Usage:
//
//	cfg := &config.LoggingConfig{Level: "debug", File: "vkbackup.log"}
//	if err := logger.Initialize(cfg); err != nil {
//	    return err
//	}
//
//	log := logger.GetLogger().WithField("run_id", runID)
//	log.InfoWithFields("Photo uploaded", map[string]interface{}{
//	    "file_name": "12.jpg",
//	})
//
// HTTP clients call LogRequest after every round trip. It logs at debug
// level and masks access tokens in the URL via RedactURL.
package logger
