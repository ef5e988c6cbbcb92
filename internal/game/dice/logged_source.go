package dice

import "go.uber.org/zap"

// LoggedSource wraps a Source and logs every draw at debug level.
type LoggedSource struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedSource creates a LoggedSource that draws from src and logs to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedSource(src Source, logger *zap.Logger) *LoggedSource {
	if src == nil || logger == nil {
		panic("dice: NewLoggedSource precondition violated: src and logger must be non-nil")
	}
	return &LoggedSource{src: src, logger: logger}
}

// Float64 draws from the wrapped source and logs the value.
//
// Postcondition: Returns exactly the value produced by the wrapped source.
func (l *LoggedSource) Float64() float64 {
	v := l.src.Float64()
	l.logger.Debug("random draw", zap.Float64("value", v))
	return v
}
