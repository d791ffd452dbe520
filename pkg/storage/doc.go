// Package storage holds the places a backup writes to.
//
// Provider is the cloud side: a capability interface selected by the
// disk.type configuration value, so the backup code never names a concrete
// service. Only "yd" (Yandex.Disk) exists today:
//
//	provider, err := storage.New(cfg.Disk, storage.Options{
//	    Timeout: cfg.HTTP.Timeout,
//	    Logger:  log,
//	})
//
// LocalDir is the local side, used for the JSON reports. Writes are atomic
// (temporary file plus rename).
package storage
