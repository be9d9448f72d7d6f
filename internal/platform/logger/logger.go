package logger

import (
	"fmt"
	"log"
	"os"
	"sort"
)

var (
	InfoLogger  *log.Logger
	WarnLogger  *log.Logger
	ErrorLogger *log.Logger
)

func init() {
	InfoLogger = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	WarnLogger = log.New(os.Stdout, "WARN: ", log.Ldate|log.Ltime|log.Lshortfile)
	ErrorLogger = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
}

func Info(msg string) {
	InfoLogger.Output(2, msg)
}

func Warn(msg string) {
	WarnLogger.Output(2, msg)
}

// Error menulis pesan + error + fields opsional. fields boleh nil.
func Error(msg string, err error, fields map[string]interface{}) {
	out := msg
	if err != nil {
		out += ": " + err.Error()
	}
	if len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			out += fmt.Sprintf(" %s=%v", k, fields[k])
		}
	}
	ErrorLogger.Output(2, out)
}
