package core

// Logger interface for raytracer logging. It is satisfied by the loggers
// returned from pkg/log.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Noticef(format string, args ...interface{})
	Warningf(format string, args ...interface{})
}
