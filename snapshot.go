package main

import (
	"fmt"
	"sync"

	"github.com/jfad2010/ivangohsgreen/telemetry"
	"golang.design/x/clipboard"
)

var (
	clipboardOnce sync.Once
	clipboardErr  error
)

// copySnapshot writes the frame to the system clipboard as yaml.
func copySnapshot(f telemetry.Frame) error {
	clipboardOnce.Do(func() { clipboardErr = clipboard.Init() })
	if clipboardErr != nil {
		return fmt.Errorf("clipboard: %w", clipboardErr)
	}
	data, err := f.YAML()
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	clipboard.Write(clipboard.FmtText, data)
	return nil
}
