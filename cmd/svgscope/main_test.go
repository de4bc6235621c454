package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// resetMocks restores the original function implementations.
func resetMocks() {
	osWriteFile = os.WriteFile
	osExit = os.Exit
}

func TestHandlePanic_WritesCrashReport(t *testing.T) {
	defer resetMocks()

	var reportPath string
	var reportBody []byte
	osWriteFile = func(name string, data []byte, perm os.FileMode) error {
		reportPath = name
		reportBody = data
		return nil
	}
	exitCode := -1
	osExit = func(code int) { exitCode = code }

	func() {
		defer handlePanic()
		panic("boom")
	}()

	assert.Equal(t, panicLogFile, reportPath)
	assert.Contains(t, string(reportBody), "panic: boom")
	assert.Contains(t, string(reportBody), "goroutine", "the report should carry a stack trace")
	assert.Equal(t, 1, exitCode)
}

func TestHandlePanic_NoPanicIsANoOp(t *testing.T) {
	defer resetMocks()

	touched := false
	osWriteFile = func(string, []byte, os.FileMode) error {
		touched = true
		return nil
	}
	osExit = func(int) { touched = true }

	func() {
		defer handlePanic()
	}()

	assert.False(t, touched, "a clean return must not write a report or exit")
}

func TestHandlePanic_FallsBackWhenTheReportCannotBeWritten(t *testing.T) {
	defer resetMocks()

	osWriteFile = func(string, []byte, os.FileMode) error {
		return assert.AnError
	}
	exitCode := -1
	osExit = func(code int) { exitCode = code }

	func() {
		defer handlePanic()
		panic("boom")
	}()

	assert.Equal(t, 1, exitCode)
}
