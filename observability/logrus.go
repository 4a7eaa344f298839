package observability

import "github.com/sirupsen/logrus"

// logrusLogger adapts a logrus entry to the Logger interface.
type logrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger wraps a logrus logger so it can back library logging.
func NewLogrusLogger(l *logrus.Logger) Logger {
	return logrusLogger{entry: logrus.NewEntry(l)}
}

func (l logrusLogger) Debug(msg string, fields ...Field) {
	l.entry.WithFields(logrusFields(fields)).Debug(msg)
}

func (l logrusLogger) Info(msg string, fields ...Field) {
	l.entry.WithFields(logrusFields(fields)).Info(msg)
}

func (l logrusLogger) Warn(msg string, fields ...Field) {
	l.entry.WithFields(logrusFields(fields)).Warn(msg)
}

func (l logrusLogger) Error(msg string, fields ...Field) {
	l.entry.WithFields(logrusFields(fields)).Error(msg)
}

func (l logrusLogger) With(fields ...Field) Logger {
	return logrusLogger{entry: l.entry.WithFields(logrusFields(fields))}
}

func logrusFields(fields []Field) logrus.Fields {
	out := make(logrus.Fields, len(fields))
	for _, f := range fields {
		out[f.Key()] = f.Value()
	}
	return out
}
