// Package database opens the optional SQL connection used to persist
// workflow execution history.
//
// Two drivers are supported: mysql for shared deployments and sqlite for
// local runs (the default, writing to chainflow.db). An empty driver
// disables persistence and Connect returns ErrDisabled.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("Optional database connection failed", zap.Error(err))
//	}
package database
