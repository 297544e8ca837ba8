// Package cli implements the dualscreen command-line interface.
//
// The commands drive a simulated dual-screen device: they resolve a device
// profile, feed it through a layout guide and print or draw the resulting
// panes. The CLI is built using cobra and logs via charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - profiles: List built-in device profiles or show a profile file
//   - inspect: Print the layout for one device configuration
//   - simulate: Replay a scenario file and render its transition graph
//   - watch: Drive a simulated device interactively
//   - serve: Expose a simulated device over HTTP
//
// # Configuration
//
// Device flag defaults, the drawing width and the serve address come from
// [CLI.Config], which main loads with the config package before building the
// command tree. Flags always win.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// routes layout and scenario hooks into the log. Loggers are passed through
// context.Context.
package cli
