// Package lofi is the lo-fi effects processor: a typed parameter set, the
// mapping from normalized controls to stage settings, and the [Processor]
// that loads a source, monitors it live through the effect chain and
// renders it offline to a WAV file.
package lofi
