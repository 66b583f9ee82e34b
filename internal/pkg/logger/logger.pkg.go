// Package logger holds the process-wide leveled loggers. Setup must run
// before anything logs, cmd mains call it first.
package logger

import (
	"log"
	"os"
)

var (
	Debug   *log.Logger
	Info    *log.Logger
	Warning *log.Logger
	Error   *log.Logger
)

func Setup() {
	Info = log.New(os.Stdout, "[INFO]\t", log.Ldate|log.Ltime)
	Debug = log.New(os.Stdout, "[DEBUG]\t", log.Ldate|log.Ltime|log.Lshortfile)
	Warning = log.New(os.Stderr, "[WARNING]\t", log.Ldate|log.Ltime|log.Lshortfile)
	Error = log.New(os.Stderr, "[ERROR]\t", log.Ldate|log.Ltime|log.Lshortfile)
}
