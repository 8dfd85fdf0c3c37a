// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

// Logger wraps the standard log package with file output and a fan-out
// broadcast so the HTTP API can stream a live log tail alongside job
// progress notifications.
type Logger struct {
	file        *os.File
	logger      *log.Logger
	broadcast   chan string
	subscribers map[chan string]bool
	subMu       sync.RWMutex
	mu          sync.RWMutex
	closed      bool
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// Init initializes the process-wide default logger. If already initialized
// it returns the existing instance.
func Init(logFile string) (*Logger, error) {
	var err error
	once.Do(func() {
		defaultLogger, err = New(logFile)
	})
	return defaultLogger, err
}

// New creates a standalone logger writing to stdout and logFile.
func New(logFile string) (*Logger, error) {
	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	l := &Logger{
		file:        file,
		logger:      log.New(io.MultiWriter(os.Stdout, file), "", log.LstdFlags|log.Lshortfile),
		broadcast:   make(chan string, 256),
		subscribers: make(map[chan string]bool),
	}
	go l.broadcastLoop()
	return l, nil
}

// GetDefault returns the default logger, falling back to a stdout-only
// instance if Init was never called or the previous default was closed.
func GetDefault() *Logger {
	if defaultLogger == nil {
		defaultLogger = stdoutOnly()
		return defaultLogger
	}

	defaultLogger.mu.RLock()
	closed := defaultLogger.closed
	defaultLogger.mu.RUnlock()

	if closed {
		defaultLogger = stdoutOnly()
	}
	return defaultLogger
}

func stdoutOnly() *Logger {
	l := &Logger{
		logger:      log.New(os.Stdout, "", log.LstdFlags|log.Lshortfile),
		broadcast:   make(chan string, 256),
		subscribers: make(map[chan string]bool),
	}
	go l.broadcastLoop()
	return l
}

// Subscribe registers a new channel that receives every subsequent log line.
// Call Unsubscribe with the returned channel when done. Returns nil if the
// logger is closed.
func (l *Logger) Subscribe() chan string {
	if l == nil {
		return nil
	}

	l.mu.RLock()
	closed := l.closed
	l.mu.RUnlock()
	if closed {
		return nil
	}

	ch := make(chan string, 16)
	l.subMu.Lock()
	l.subscribers[ch] = true
	l.subMu.Unlock()
	return ch
}

// Unsubscribe removes and closes a channel previously returned by Subscribe.
func (l *Logger) Unsubscribe(ch chan string) {
	if ch == nil {
		return
	}
	l.subMu.Lock()
	defer l.subMu.Unlock()
	if l.subscribers[ch] {
		delete(l.subscribers, ch)
		close(ch)
	}
}

func (l *Logger) broadcastLoop() {
	defer func() {
		l.subMu.Lock()
		for ch := range l.subscribers {
			close(ch)
		}
		l.subscribers = make(map[chan string]bool)
		l.subMu.Unlock()
	}()

	for line := range l.broadcast {
		l.subMu.RLock()
		subs := make([]chan string, 0, len(l.subscribers))
		for ch := range l.subscribers {
			subs = append(subs, ch)
		}
		l.subMu.RUnlock()

		for _, ch := range subs {
			select {
			case ch <- line:
			default:
			}
		}
	}
}

func (l *Logger) logMessage(level, format string, v ...interface{}) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return
	}

	line := fmt.Sprintf("[%s] [%s] %s", time.Now().Format("2006-01-02 15:04:05"), level, fmt.Sprintf(format, v...))

	if l.logger != nil {
		l.logger.Output(3, line)
	}

	select {
	case l.broadcast <- line:
	default:
	}
}

func (l *Logger) Printf(format string, v ...interface{}) { l.logMessage("INFO", format, v...) }
func (l *Logger) Errorf(format string, v ...interface{}) { l.logMessage("ERROR", format, v...) }
func (l *Logger) Warnf(format string, v ...interface{})  { l.logMessage("WARN", format, v...) }
func (l *Logger) Debugf(format string, v ...interface{}) { l.logMessage("DEBUG", format, v...) }

func (l *Logger) Fatalf(format string, v ...interface{}) {
	l.logMessage("FATAL", format, v...)
	os.Exit(1)
}

// Close stops broadcasting and closes the backing log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	close(l.broadcast)
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Package-level convenience wrappers over GetDefault().

func Printf(format string, v ...interface{}) { GetDefault().Printf(format, v...) }
func Errorf(format string, v ...interface{}) { GetDefault().Errorf(format, v...) }
func Warnf(format string, v ...interface{})  { GetDefault().Warnf(format, v...) }
func Debugf(format string, v ...interface{}) { GetDefault().Debugf(format, v...) }
func Fatalf(format string, v ...interface{}) { GetDefault().Fatalf(format, v...) }
