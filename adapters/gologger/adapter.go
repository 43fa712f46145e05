// Package gologger maps glog loggers onto go-job's logger contracts so the
// queue-backed health monitor logs through the client's logging stack.
package gologger

import (
	job "github.com/goliatone/go-job"
	glog "github.com/goliatone/go-logger/glog"
)

// MonitorLoggerName is the component name the health monitor logs under.
const MonitorLoggerName = "marinesafe.monitor"

// Resolve uses deterministic precedence provider > logger > nop.
func Resolve(provider glog.LoggerProvider, logger glog.Logger) (glog.LoggerProvider, glog.Logger) {
	return glog.Resolve(MonitorLoggerName, provider, logger)
}

// ToJobProvider maps a glog provider to the go-job logger provider contract.
func ToJobProvider(provider glog.LoggerProvider) job.LoggerProvider {
	if provider == nil {
		return nil
	}
	return job.GoLoggerProvider(provider)
}

// ToJobLogger maps a glog logger to the go-job logger contract.
func ToJobLogger(logger glog.Logger) job.Logger {
	if logger == nil {
		return nil
	}
	return job.GoLogger(logger)
}

// MonitorJobLoggers resolves the monitor's logging pair and returns the
// go-job bridges the queue worker expects.
func MonitorJobLoggers(
	provider glog.LoggerProvider,
	logger glog.Logger,
) (job.LoggerProvider, job.Logger) {
	resolvedProvider, resolvedLogger := Resolve(provider, logger)
	return ToJobProvider(resolvedProvider), ToJobLogger(resolvedLogger)
}
