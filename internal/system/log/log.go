/*
 * Copyright (c) 2025-2026, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	slogmulti "github.com/samber/slog-multi"
)

var (
	logger  *Logger
	logFile *os.File
	mu      sync.Mutex
)

// Logger is a wrapper around the slog logger.
type Logger struct {
	internal *slog.Logger
}

// GetLogger returns the process wide logger. A logger writing INFO and above to stdout is
// created on first use if Init has not been called yet.
func GetLogger() *Logger {

	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = &Logger{
			internal: slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})),
		}
	}
	return logger
}

// Init initializes the slog logger with the given log level string.
func Init(logLevel string) error {

	return InitWithFile(logLevel, "")
}

// InitWithFile initializes the logger with a text handler on stdout. When a log file is given, a JSON
// handler writing to that file is fanned out next to it.
func InitWithFile(logLevel, filePath string) error {

	level, err := parseLogLevel(logLevel)
	if err != nil {
		return fmt.Errorf("error parsing log level: %w", err)
	}

	handlerOptions := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stdout, handlerOptions)

	var file *os.File
	if filePath != "" {
		file, err = os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("error opening log file %s: %w", filePath, err)
		}
		handler = slogmulti.Fanout(handler, slog.NewJSONHandler(file, handlerOptions))
	}

	mu.Lock()
	defer mu.Unlock()
	closeLogFile()
	logFile = file
	logger = &Logger{
		internal: slog.New(handler),
	}
	return nil
}

// InitWithWriters initializes the logger with a text writer and a JSON writer. Used by tests.
func InitWithWriters(text, json io.Writer, logLevel string) error {

	level, err := parseLogLevel(logLevel)
	if err != nil {
		return fmt.Errorf("error parsing log level: %w", err)
	}
	handlerOptions := &slog.HandlerOptions{Level: level}

	mu.Lock()
	defer mu.Unlock()
	logger = &Logger{
		internal: slog.New(slogmulti.Fanout(
			slog.NewTextHandler(text, handlerOptions),
			slog.NewJSONHandler(json, handlerOptions),
		)),
	}
	return nil
}

// Close releases the log file, if one is open.
func Close() {

	mu.Lock()
	defer mu.Unlock()
	closeLogFile()
}

func closeLogFile() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

// With creates a new logger instance with additional fields.
func (l *Logger) With(fields ...Field) *Logger {
	return &Logger{
		internal: l.internal.With(convertFields(fields)...),
	}
}

// Info logs an informational message with custom fields.
func (l *Logger) Info(msg string, fields ...Field) {
	l.internal.Info(msg, convertFields(fields)...)
}

// Debug logs a debug message with custom fields.
func (l *Logger) Debug(msg string, fields ...Field) {
	l.internal.Debug(msg, convertFields(fields)...)
}

// Warn logs a warning message with custom fields.
func (l *Logger) Warn(msg string, fields ...Field) {
	l.internal.Warn(msg, convertFields(fields)...)
}

// Error logs an error message with custom fields.
func (l *Logger) Error(msg string, fields ...Field) {
	l.internal.Error(msg, convertFields(fields)...)
}

// Fatal logs a fatal message with custom fields and exits the application.
func (l *Logger) Fatal(msg string, fields ...Field) {
	l.internal.Error(msg, convertFields(fields)...)
	os.Exit(1)
}

// parseLogLevel parses the log level string and returns the corresponding slog.Level.
func parseLogLevel(logLevel string) (slog.Level, error) {
	var level slog.Level
	if logLevel == "" {
		return slog.LevelInfo, nil
	}
	var err = level.UnmarshalText([]byte(logLevel))
	if err != nil {
		return slog.LevelError, err
	}
	return level, nil
}

// convertFields converts a slice of Field to a variadic list of slog.Attr.
func convertFields(fields []Field) []any {
	attrs := make([]any, len(fields))
	for i, field := range fields {
		attrs[i] = slog.Any(field.Key, field.Value)
	}
	return attrs
}
