// Package advisor implements NexusGuide, a single-persona gaming advisor that
// recommends games, shares strategies and troubleshoots technical issues. The
// entrypoint instruments the model with a usage collector and logs a summary
// when the session shuts down.
package advisor
