package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// LogLevel определяет уровни логирования
type LogLevel int

const (
	TRACE LogLevel = iota
	DEBUG
	INFO
	WARN
	ERROR
)

// String возвращает строковое представление уровня логирования
func (l LogLevel) String() string {
	switch l {
	case TRACE:
		return "TRACE"
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// logrusLevel переводит уровень в уровень logrus
func (l LogLevel) logrusLevel() logrus.Level {
	switch l {
	case TRACE:
		return logrus.TraceLevel
	case DEBUG:
		return logrus.DebugLevel
	case WARN:
		return logrus.WarnLevel
	case ERROR:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// ParseLevel разбирает уровень из строки ("debug", "INFO", ...); неизвестное значение дает INFO
func ParseLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return TRACE
	case "DEBUG":
		return DEBUG
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// outputHook пишет записи logrus в отдельный поток со своим минимальным уровнем
type outputHook struct {
	mu        sync.Mutex
	out       io.Writer
	formatter logrus.Formatter
	min       LogLevel
}

func (h *outputHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *outputHook) Fire(entry *logrus.Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	// В logrus меньшее значение уровня означает большую важность
	if entry.Level > h.min.logrusLevel() {
		return nil
	}
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = h.out.Write(line)
	return err
}

func (h *outputHook) setMin(level LogLevel) {
	h.mu.Lock()
	h.min = level
	h.mu.Unlock()
}

// Logger представляет логгер компонента: консоль + файл в каталоге logs
type Logger struct {
	component string
	entry     *logrus.Entry
	console   *outputHook
	fileHook  *outputHook
	file      *os.File

	minConsoleLevel LogLevel
	minFileLevel    LogLevel
}

// Глобальный логгер по умолчанию
var defaultLogger = newConsoleLogger("default", INFO)

// initialized выставляется после InitDefaultLogger; до этого пакетные функции молчат
var initialized bool

func newFormatter() logrus.Formatter {
	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		return &logrus.JSONFormatter{}
	}
	return &logrus.TextFormatter{
		FullTimestamp: true,
		DisableColors: true,
	}
}

func newBase() *logrus.Logger {
	base := logrus.New()
	base.SetOutput(io.Discard)
	base.SetLevel(logrus.TraceLevel)
	return base
}

func newConsoleLogger(component string, level LogLevel) *Logger {
	base := newBase()
	console := &outputHook{out: os.Stdout, formatter: newFormatter(), min: level}
	base.AddHook(console)

	return &Logger{
		component:       component,
		entry:           base.WithField("component", component),
		console:         console,
		minConsoleLevel: level,
		minFileLevel:    ERROR,
	}
}

// NewLogger создает логгер компонента.
// Уровень консоли берется из LOG_LEVEL (по умолчанию INFO), в файл пишутся все уровни.
// Каталог файлов задается LOG_DIR (по умолчанию "logs"); LOG_DIR=- отключает файл.
func NewLogger(component string) (*Logger, error) {
	consoleLevel := INFO
	if lvl, ok := os.LookupEnv("LOG_LEVEL"); ok {
		consoleLevel = ParseLevel(lvl)
	}

	logger := newConsoleLogger(component, consoleLevel)
	logger.minFileLevel = TRACE

	dir := os.Getenv("LOG_DIR")
	if dir == "" {
		dir = "logs"
	}
	if dir == "-" {
		return logger, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("ошибка создания директории %s: %w", dir, err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := filepath.Join(dir, fmt.Sprintf("%s_%s.log", component, timestamp))

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания файла логов: %w", err)
	}

	logger.file = file
	logger.fileHook = &outputHook{out: file, formatter: &logrus.TextFormatter{FullTimestamp: true, DisableColors: true}, min: TRACE}
	logger.entry.Logger.AddHook(logger.fileHook)

	return logger, nil
}

// NewWriterLogger создает логгер, пишущий только в указанный поток (используется в тестах)
func NewWriterLogger(component string, out io.Writer, level LogLevel) *Logger {
	base := newBase()
	hook := &outputHook{out: out, formatter: &logrus.TextFormatter{DisableTimestamp: true, DisableColors: true}, min: level}
	base.AddHook(hook)
	return &Logger{
		component:       component,
		entry:           base.WithField("component", component),
		console:         hook,
		minConsoleLevel: level,
		minFileLevel:    ERROR,
	}
}

// SetLevels меняет минимальные уровни консоли и файла
func (l *Logger) SetLevels(consoleLevel, fileLevel LogLevel) {
	l.minConsoleLevel = consoleLevel
	l.minFileLevel = fileLevel
	l.console.setMin(consoleLevel)
	if l.fileHook != nil {
		l.fileHook.setMin(fileLevel)
	}
}

// Component возвращает имя компонента логгера
func (l *Logger) Component() string {
	return l.component
}

// Close закрывает файл логов
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// Trace логирует сообщение уровня TRACE
func (l *Logger) Trace(format string, args ...interface{}) {
	l.entry.Tracef(format, args...)
}

// Debug логирует сообщение уровня DEBUG
func (l *Logger) Debug(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}

// Info логирует сообщение уровня INFO
func (l *Logger) Info(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

// Warn логирует сообщение уровня WARN
func (l *Logger) Warn(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}

// Error логирует сообщение уровня ERROR
func (l *Logger) Error(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

// InitDefaultLogger инициализирует глобальный логгер для указанного компонента
func InitDefaultLogger(component string) error {
	logger, err := NewLogger(component)
	if err != nil {
		return err
	}
	defaultLogger = logger
	initialized = true
	return nil
}

// CloseDefaultLogger закрывает глобальный логгер
func CloseDefaultLogger() {
	if defaultLogger != nil {
		_ = defaultLogger.Close()
	}
}

// Trace логирует сообщение уровня TRACE глобальным логгером
func Trace(format string, args ...interface{}) {
	if initialized {
		defaultLogger.Trace(format, args...)
	}
}

// Debug логирует сообщение уровня DEBUG глобальным логгером
func Debug(format string, args ...interface{}) {
	if initialized {
		defaultLogger.Debug(format, args...)
	}
}

// Info логирует сообщение уровня INFO глобальным логгером
func Info(format string, args ...interface{}) {
	if initialized {
		defaultLogger.Info(format, args...)
	}
}

// Warn логирует сообщение уровня WARN глобальным логгером
func Warn(format string, args ...interface{}) {
	if initialized {
		defaultLogger.Warn(format, args...)
	}
}

// Error логирует сообщение уровня ERROR глобальным логгером
func Error(format string, args ...interface{}) {
	if initialized {
		defaultLogger.Error(format, args...)
	}
}

// Fatal пишет сообщение и завершает процесс с кодом 1.
// Используется только для нарушений инвариантов (рассинхронизация таблицы ассетов и реестра).
func Fatal(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	defaultLogger.Error("%s", msg)
	CloseDefaultLogger()
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
