package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/2beens/gympro/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LoggerSetupParams struct {
	LogFileName      string
	LogToStdout      bool
	LogLevel         string
	LogFormatJSON    bool
	Environment      string
	SentryEnabled    bool
	SentryDSN        string
	SentryServerName string
}

// Setup configures the global logrus logger. The returned func flushes sentry
// and closes the log file, call it on shutdown.
func Setup(params LoggerSetupParams) func() {
	if params.LogFormatJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	sentryOn := false
	if params.SentryEnabled {
		err := sentry.Init(sentry.ClientOptions{
			Environment:      params.Environment,
			Dsn:              params.SentryDSN,
			TracesSampleRate: 1.0,
			ServerName:       params.SentryServerName,
		})
		if err != nil {
			logrus.Errorf("sentry.Init: %s", err)
		} else {
			logrus.AddHook(NewSentryHook([]logrus.Level{
				logrus.PanicLevel,
				logrus.FatalLevel,
				logrus.ErrorLevel,
			}))
			sentryOn = true
			logrus.Infoln("Sentry set up successfully")
		}
	}

	logrus.SetLevel(GetLevel(params.LogLevel))

	var closer io.Closer
	switch {
	case params.LogFileName == "":
		logrus.SetOutput(os.Stdout)
		logrus.Println("writing logs only to STDOUT")
	default:
		if !strings.HasSuffix(params.LogFileName, ".log") {
			params.LogFileName += ".log"
		}
		lumberJackLogger := &lumberjack.Logger{
			Filename:  params.LogFileName,
			MaxSize:   50, // megabytes
			LocalTime: false,
			Compress:  true,
		}
		closer = lumberJackLogger

		if params.LogToStdout {
			logrus.SetOutput(pkg.NewCombinedWriter(os.Stdout, lumberJackLogger))
			logrus.Println("writing logs to file and STDOUT")
		} else {
			logrus.SetOutput(lumberJackLogger)
		}
	}

	return func() {
		if sentryOn {
			sentry.Flush(2 * time.Second)
		}
		if closer != nil {
			logrus.SetOutput(os.Stdout)
			if err := closer.Close(); err != nil {
				logrus.Errorf("close log file: %s", err)
			}
		}
	}
}

func GetLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "info":
		return logrus.InfoLevel
	case "trace":
		return logrus.TraceLevel
	case "warn":
		return logrus.WarnLevel
	default:
		return logrus.TraceLevel
	}
}
