package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/sirupsen/logrus"
)

const logsDir = "logs"

var componentPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// NewLogger builds the JSON logger for one process role ("api", "consumer", ...).
// Entries go to logs/<component>.log and to stdout, both asynchronously.
func NewLogger(component string) (*logrus.Logger, func(), error) {
	logger := logrus.New()

	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "time",
			logrus.FieldKeyMsg:  "msg",
		},
	})
	logger.SetLevel(levelFromEnv())

	if !componentPattern.MatchString(component) {
		return nil, nil, fmt.Errorf("invalid log component %q", component)
	}
	if err := os.MkdirAll(logsDir, 0750); err != nil {
		return nil, nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	logFile := filepath.Join(logsDir, component+".log")
	fileWriter, err := NewAsyncFileWriter(logFile, 32*1024)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize async log writer: %w", err)
	}
	logger.SetOutput(fileWriter)

	consoleHook := NewAsyncConsoleHook(os.Stdout, 1000)
	logger.AddHook(consoleHook)

	closer := func() {
		consoleHook.Close()
		fileWriter.Close()
	}
	return logger, closer, nil
}

func levelFromEnv() logrus.Level {
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		return logrus.DebugLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
