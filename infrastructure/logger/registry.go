package logger

import (
	"sync"
)

// backendLog is the shared logging backend used by all subsystems in this
// module. Callers that want log output must call InitLog (or add writers to
// BackendLog directly) and then Run it.
var backendLog = NewBackend()

var (
	registryMutex     sync.Mutex
	subsystemLoggers  = make(map[string]*Logger)
	defaultLevelValue = LevelOff
)

// BackendLog returns the shared logging backend.
func BackendLog() *Backend {
	return backendLog
}

// RegisterSubSystem returns the logger for the given four-letter subsystem
// tag, creating it on first use. Every package in this module holds its
// logger in a package-level `log` variable acquired through this function.
func RegisterSubSystem(subsystem string) *Logger {
	registryMutex.Lock()
	defer registryMutex.Unlock()

	logger, ok := subsystemLoggers[subsystem]
	if !ok {
		logger = backendLog.Logger(subsystem)
		logger.SetLevel(defaultLevelValue)
		subsystemLoggers[subsystem] = logger
	}
	return logger
}

// SetLogLevels sets the logging level for all registered subsystems, and for
// any subsystem registered afterwards.
func SetLogLevels(level Level) {
	registryMutex.Lock()
	defer registryMutex.Unlock()

	defaultLevelValue = level
	for _, logger := range subsystemLoggers {
		logger.SetLevel(level)
	}
}

// InitLog attaches log file and error log file to the backend log and
// starts it.
func InitLog(logFile, errLogFile string) error {
	err := backendLog.AddLogFile(logFile, LevelTrace)
	if err != nil {
		return err
	}
	err = backendLog.AddLogFile(errLogFile, LevelWarn)
	if err != nil {
		return err
	}
	return backendLog.Run()
}
