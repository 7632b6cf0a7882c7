// Package app contains the core application logic. It wires the configuration,
// the transport registry, the event loop, the editor and its node library,
// the pub/sub session and the terminal surface together, decoupled from any
// specific entrypoint like a CLI.
package app
