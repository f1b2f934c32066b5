// Package ipc exposes the voting engine to local clients via JSON-RPC
// over a Unix domain socket.
//
// The CLI is the primary consumer; chat frontends that run on the same
// host can use it as well. Requests map one-to-one onto the engine's
// operations, and ballot rejections travel as structured rejection codes
// rather than RPC errors so clients can render them as normal chat-style
// feedback.
package ipc
