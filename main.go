package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/seivan/hoard/internal/app"
	"github.com/seivan/hoard/internal/config"
	"github.com/seivan/hoard/internal/logging"
	"github.com/seivan/hoard/internal/logging/events"
)

func main() {
	rt := config.MustLoad()
	if err := config.Validate(rt); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	logging.Configure(rt.Logging.FilePath)
	logging.SetTraceEnabled(rt.Logging.Trace)

	traceStartup(rt)

	if err := app.Run(rt); err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func traceStartup(rt config.Runtime) {
	events.App.Start(startupTracePayload(rt))
}

// startupTracePayload bundles runtime context for trace logging.
func startupTracePayload(rt config.Runtime) map[string]interface{} {
	flags := make(map[string]interface{}, len(rt.Flags))
	for k, v := range rt.Flags {
		flags[k] = v
	}
	flags["trace"] = rt.Logging.Trace
	flags["logFile"] = rt.Logging.FilePath
	payload := map[string]interface{}{
		"argv":       rt.Args,
		"flags":      flags,
		"configPath": rt.ConfigPath,
		"trovePath":  rt.File.TrovePath,
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	} else {
		payload["executableError"] = err.Error()
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	} else {
		payload["cwdError"] = err.Error()
	}
	payload["tty"] = collectTTYDetails()
	return payload
}

type ttyDetails struct {
	Detected *ttyDetected     `json:"detected,omitempty"`
	Probes   []ttyProbeResult `json:"probes"`
}

type ttyDetected struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ttyProbeResult struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"is_terminal"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

// collectTTYDetails inspects standard descriptors for terminal support and dimensions.
func collectTTYDetails() ttyDetails {
	probes := []struct {
		name string
		fd   uintptr
	}{
		{"stdin", os.Stdin.Fd()},
		{"stdout", os.Stdout.Fd()},
		{"stderr", os.Stderr.Fd()},
	}
	results := make([]ttyProbeResult, 0, len(probes))
	var detected *ttyDetected
	for _, probe := range probes {
		entry := ttyProbeResult{Name: probe.name}
		fd := int(probe.fd)
		if fd >= 0 && term.IsTerminal(fd) {
			entry.IsTerminal = true
			if width, height, err := term.GetSize(fd); err == nil {
				entry.Width = width
				entry.Height = height
				if detected == nil {
					detected = &ttyDetected{Source: probe.name, Width: width, Height: height}
				}
			} else {
				entry.Error = err.Error()
			}
		} else {
			entry.IsTerminal = false
		}
		results = append(results, entry)
	}
	return ttyDetails{Detected: detected, Probes: results}
}
