// Package testutil holds helpers shared by koparse tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	log "github.com/tektoncd/koparse/pkg/log"
)

// CaptureLogOutput runs testFunc with logging redirected to a buffer at
// logLevel and returns what was written. Output and level are restored
// afterwards. A panic in testFunc is returned as an error.
//
//	output, err := testutil.CaptureLogOutput(log.LevelDebug, func() {
//	    log.Info("This will be captured")
//	})
func CaptureLogOutput(logLevel log.Level, testFunc func()) (string, error) {
	originalLevel := log.CurrentLevel()

	var logBuf bytes.Buffer
	restoreLog := log.SetOutput(&logBuf)
	defer restoreLog()

	log.SetLevel(logLevel)
	defer log.SetLevel(originalLevel)

	var panicErr error
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = fmt.Errorf("panic during log capture: %v", r)
			}
		}()
		testFunc()
	}()

	return logBuf.String(), panicErr
}

// CaptureJSONLogs is CaptureLogOutput followed by decoding each line as a JSON
// log entry. KOPARSE_LOG_FORMAT is cleared for the duration of testFunc.
func CaptureJSONLogs(t *testing.T, logLevel log.Level, testFunc func()) (parsedLogs []map[string]interface{}, err error) {
	t.Helper()
	t.Setenv(log.FormatEnvVar, "")

	output, err := CaptureLogOutput(logLevel, testFunc)
	if err != nil {
		return nil, err
	}

	for i, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return parsedLogs, fmt.Errorf("failed to unmarshal log line %d as JSON: %w\nLine content: %s", i+1, err, line)
		}
		parsedLogs = append(parsedLogs, entry)
	}
	return parsedLogs, nil
}

// AssertLogContainsJSON fails the test unless some entry in logs carries
// every key/value of expectedLog.
func AssertLogContainsJSON(t *testing.T, logs []map[string]interface{}, expectedLog map[string]interface{}) {
	t.Helper()
	for _, entry := range logs {
		if containsAll(entry, expectedLog) {
			return
		}
	}

	var logBuffer bytes.Buffer
	encoder := json.NewEncoder(&logBuffer)
	encoder.SetIndent("", "  ")
	for _, entry := range logs {
		_ = encoder.Encode(entry) //nolint:errcheck // test helper
	}
	expectedJSON, _ := json.MarshalIndent(expectedLog, "", "  ") //nolint:errcheck // test helper

	assert.Fail(t, "Expected log entry not found",
		"Expected log containing:\n%s\n\nActual captured logs:\n%s", string(expectedJSON), logBuffer.String())
}

// AssertLogDoesNotContainJSON fails the test if some entry in logs carries
// every key/value of unexpectedLog.
func AssertLogDoesNotContainJSON(t *testing.T, logs []map[string]interface{}, unexpectedLog map[string]interface{}) {
	t.Helper()
	for _, entry := range logs {
		if containsAll(entry, unexpectedLog) {
			foundJSON, _ := json.MarshalIndent(entry, "", "  ") //nolint:errcheck // test helper
			assert.Fail(t, "Unexpected log entry found", "Found log entry:\n%s", string(foundJSON))
			return
		}
	}
}

// containsAll reports whether actual holds every top-level key of expected.
// JSON numbers decode as float64, so int expectations are converted.
func containsAll(actual, expected map[string]interface{}) bool {
	for key, want := range expected {
		got, ok := actual[key]
		if !ok {
			return false
		}
		if f, isFloat := got.(float64); isFloat {
			switch w := want.(type) {
			case float64:
				if f != w {
					return false
				}
			case int:
				if f != float64(w) {
					return false
				}
			default:
				return false
			}
			continue
		}
		if !assert.ObjectsAreEqual(want, got) {
			return false
		}
	}
	return true
}
