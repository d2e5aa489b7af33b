package mealinfo

import (
	"fmt"
	"io"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/kataras/golog"
)

const logNewline = "\n"
const logFormatterName = "meal"

var logFormatter = &MealFormatter{location: time.Local}

var Log = newLogger()

// MealFormatter writes "<time> <level> <caller>: <message>", timestamps in the
// school's zone so they line up with the dates being looked up.
type MealFormatter struct {
	mutex    sync.Mutex
	location *time.Location
}

func (f *MealFormatter) String() string {
	return logFormatterName
}

// no options, returns the same formatter
func (f *MealFormatter) Options(_ ...interface{}) golog.Formatter {
	return f
}

func (f *MealFormatter) SetLocation(loc *time.Location) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.location = loc
}

func (f *MealFormatter) now() time.Time {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return time.Now().In(f.location)
}

func (f *MealFormatter) Format(dest io.Writer, log *golog.Log) bool {
	line := fmt.Sprintf("%s %s %s: %s%s", f.now().Format(time.RFC3339), golog.Levels[log.Level].Text(true), getCallingFunction(), log.Message, logNewline)
	if _, err := dest.Write([]byte(line)); err != nil {
		fmt.Printf("[FATAL] error in logger: %+v\n", err)
		return false
	}
	return true
}

func newLogger() *golog.Logger {
	logger := golog.New()
	logger.RegisterFormatter(logFormatter)
	logger.SetLevel("info")
	logger.SetFormat(logFormatterName)
	return logger
}

// ConfigureLogging applies the debug flag and the timezone of config.
func ConfigureLogging(config *Config) {
	if config.Debug {
		Log.SetLevel("debug")
	}

	if loc, err := config.Location(); err == nil {
		logFormatter.SetLocation(loc)
	}
}

// name of the function that logged, e.g. "mealinfo.(*MealDataFetcher).Fetch"
func getCallingFunction() string {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	for {
		frame, more := frames.Next()
		if !isLoggerFrame(frame.Function) {
			parts := strings.Split(frame.Function, "/")
			return parts[len(parts)-1]
		}
		if !more {
			break
		}
	}

	return "unknown"
}

func isLoggerFrame(function string) bool {
	return len(function) == 0 ||
		strings.Contains(function, "kataras/golog") ||
		strings.Contains(function, "(*MealFormatter)")
}
