package logging

// MockLogger records log calls for assertions in tests. It implements the
// Logger interface without writing anywhere.
type MockLogger struct {
	DebugMessages []string
	InfoMessages  []string
	WarnMessages  []string
	ErrorMessages []string
}

// NewMockLogger creates an empty MockLogger.
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

func (m *MockLogger) Debug(msg string, fields ...Field) {
	m.DebugMessages = append(m.DebugMessages, msg)
}

func (m *MockLogger) Info(msg string, fields ...Field) {
	m.InfoMessages = append(m.InfoMessages, msg)
}

func (m *MockLogger) Warn(msg string, fields ...Field) {
	m.WarnMessages = append(m.WarnMessages, msg)
}

func (m *MockLogger) Error(msg string, fields ...Field) {
	m.ErrorMessages = append(m.ErrorMessages, msg)
}

func (m *MockLogger) WithError(err error) Logger {
	return m
}

func (m *MockLogger) WithField(key string, value interface{}) Logger {
	return m
}
