package utilities

import (
	"log"
	"os"
	"time"
)

const logFlags = log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile

var (
	InfoLogger  = log.New(os.Stdout, "\033[32m[INFO]\033[0m ", logFlags)
	ErrorLogger = log.New(os.Stderr, "\033[31m[ERROR]\033[0m ", logFlags)
	DebugLogger = log.New(os.Stdout, "\033[36m[DEBUG]\033[0m ", logFlags)
)

// InitLogger configures the default logger to match the leveled ones.
func InitLogger() {
	log.SetFlags(logFlags)
}

// LogRequest records one HTTP request.
func LogRequest(method, path, remoteAddr string, status int, duration time.Duration) {
	InfoLogger.Printf("%s %s %s %d %v", method, path, remoteAddr, status, duration)
}

// LogError records an error with its surrounding context.
func LogError(err error, context string) {
	ErrorLogger.Printf("%s: %v", context, err)
}

func LogDebug(format string, v ...interface{}) {
	DebugLogger.Printf(format, v...)
}

func LogInfo(format string, v ...interface{}) {
	InfoLogger.Printf(format, v...)
}
