package ulogger

// TestLogger is a no-op Logger for unit tests.
type TestLogger struct{}

func (TestLogger) Debugf(string, ...interface{}) {}
func (TestLogger) Infof(string, ...interface{})  {}
func (TestLogger) Warnf(string, ...interface{})  {}
func (TestLogger) Errorf(string, ...interface{}) {}
func (TestLogger) Fatalf(string, ...interface{}) {}
