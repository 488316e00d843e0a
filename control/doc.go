// Package control
// Author: momentics <momentics@gmail.com>
//
// Configuration, runtime metrics and debug introspection for hioload-dispatch.
//
// Provides:
//   - Config loading from defaults, YAML file and DISPATCH_* environment
//   - Metrics: atomic counters and gauges with snapshots
//   - Probes: named read-only state hooks
//   - An optional HTTP surface exposing metrics and probes as JSON
package control
