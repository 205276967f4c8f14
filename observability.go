package redsync

// logDebug, logInfo, and logWarn forward to the Manager's configured
// Logger. Builder defaults logger to &NoOpLogger{}, so these never need a
// nil check.
func (m *Manager) logDebug(msg string, fields ...interface{}) { m.logger.Debug(msg, fields...) }
func (m *Manager) logInfo(msg string, fields ...interface{})  { m.logger.Info(msg, fields...) }
func (m *Manager) logWarn(msg string, fields ...interface{})  { m.logger.Warn(msg, fields...) }

func (m *Manager) recordSuccess(kind callKind) {
	if kind == callExtend {
		m.metrics.Increment(MetricExtendSuccess)
		return
	}
	m.metrics.Increment(MetricAcquireSuccess)
}

func (m *Manager) recordFailedAttempt(kind callKind) {
	if kind == callExtend {
		m.metrics.Increment(MetricExtendAttemptFail)
		return
	}
	m.metrics.Increment(MetricAcquireAttemptFail)
}

func (m *Manager) recordFailure(op string) {
	m.metrics.Increment(MetricUnlockFailed, "op", op)
}

func (m *Manager) recordSuccessCount(op string) {
	m.metrics.Increment(MetricUnlockSuccess, "op", op)
}
