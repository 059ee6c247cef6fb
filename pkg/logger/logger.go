package logger

import (
	"io"
	"log"
	"os"
	"sync"
)

var (
	InfoLog  *log.Logger
	ErrorLog *log.Logger
	WarnLog  *log.Logger
	DebugLog *log.Logger
	logFile  *os.File
	level    = INFO
	mu       sync.Mutex
)

const (
	INFO = iota
	DEBUG
)

const flags = log.Ldate | log.Ltime | log.Lmsgprefix

// InitLogger initializes the logger with a file output and console output.
// An empty filename logs to the console only.
func InitLogger(filename string, lvl int) error {
	mu.Lock()
	defer mu.Unlock()

	level = lvl
	if filename == "" {
		initConsole()
		return nil
	}

	f, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		return err
	}
	logFile = f

	out := io.MultiWriter(os.Stdout, logFile)
	errOut := io.MultiWriter(os.Stderr, logFile)
	InfoLog = log.New(out, "INFO: ", flags)
	WarnLog = log.New(out, "WARN: ", flags)
	DebugLog = log.New(out, "DEBUG: ", flags)
	ErrorLog = log.New(errOut, "ERROR: ", flags)
	return nil
}

// SetOutput sends every level to w. Used by tests to capture output.
func SetOutput(w io.Writer, lvl int) {
	mu.Lock()
	defer mu.Unlock()

	level = lvl
	InfoLog = log.New(w, "INFO: ", flags)
	WarnLog = log.New(w, "WARN: ", flags)
	DebugLog = log.New(w, "DEBUG: ", flags)
	ErrorLog = log.New(w, "ERROR: ", flags)
}

// SetRunID prefixes every subsequent line with the run identifier.
func SetRunID(id string) {
	ensure()
	mu.Lock()
	defer mu.Unlock()

	prefix := "[" + id + "] "
	InfoLog.SetPrefix(prefix + "INFO: ")
	WarnLog.SetPrefix(prefix + "WARN: ")
	DebugLog.SetPrefix(prefix + "DEBUG: ")
	ErrorLog.SetPrefix(prefix + "ERROR: ")
}

func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

func initConsole() {
	InfoLog = log.New(os.Stdout, "INFO: ", flags)
	WarnLog = log.New(os.Stdout, "WARN: ", flags)
	DebugLog = log.New(os.Stdout, "DEBUG: ", flags)
	ErrorLog = log.New(os.Stderr, "ERROR: ", flags)
}

func ensure() {
	mu.Lock()
	defer mu.Unlock()
	if InfoLog == nil {
		initConsole()
	}
}

func Info(format string, v ...interface{}) {
	ensure()
	InfoLog.Printf(format, v...)
}

func Infof(format string, v ...interface{}) {
	Info(format, v...)
}

func Warn(format string, v ...interface{}) {
	ensure()
	WarnLog.Printf(format, v...)
}

func Warnf(format string, v ...interface{}) {
	Warn(format, v...)
}

func Error(format string, v ...interface{}) {
	ensure()
	ErrorLog.Printf(format, v...)
}

func Errorf(format string, v ...interface{}) {
	Error(format, v...)
}

// Debugf only logs when the logger was initialized at DEBUG level.
func Debugf(format string, v ...interface{}) {
	ensure()
	if level < DEBUG {
		return
	}
	DebugLog.Printf(format, v...)
}
