// Package api serves one simulated dual-screen device over HTTP.
//
// The device is driven with JSON requests and its layout read back the way
// a client would read a LayoutInfo: the published properties plus a log of
// property change notifications that can be polled with a cursor.
//
//	GET  /healthz              liveness and build info
//	GET  /profiles             built-in device profiles
//	GET  /layout               current panes, hinge and device settings
//	GET  /events?since=N       notifications after sequence number N
//	POST /device               apply a partial device update (JSON)
//	POST /device/touch         fire a change signal that changes nothing
//	POST /device/refresh       force a layout pass
//	POST /scenarios            replay a TOML scenario on a fresh device
//
// Errors are returned as {"error": {"code": ..., "message": ...}} with a
// status derived from the error code.
package api
