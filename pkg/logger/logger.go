package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log является глобальным экземпляром логгера для всего сервера.
// До вызова Init пишет в stdout с уровнем info, чтобы пакеты можно было
// использовать из тестов и утилит без явной инициализации.
var Log = logrus.New()

// Init инициализирует глобальный логгер.
// Вызывается один раз при старте процесса в main.go.
func Init() {
	InitWithOutput(os.Stdout)
}

// InitWithOutput настраивает логгер на произвольный writer (нужно тестам и утилите реплеев).
func InitWithOutput(w io.Writer) {
	Log = logrus.New()

	// 1. Уровень из LOG_LEVEL, по умолчанию "info".
	logLevel, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		logLevel = "info"
	}
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	// 2. Форматтер: "json" для сбора логов, иначе текст.
	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	Log.SetOutput(w)
}

// For возвращает запись с полем component.
func For(component string) *logrus.Entry {
	return Log.WithField("component", component)
}
