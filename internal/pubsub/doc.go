// Package pubsub is the client-side facade over a message-bus Transport.
//
// The Client keeps its own registry of (pattern, handler) subscriptions and
// replays every distinct pattern to the transport each time a connection is
// established, so nothing depends on the broker or the transport remembering
// subscriptions across reconnects. Inbound messages are matched against the
// registry with topic.Matches and delivered in registration order.
package pubsub
