// Package reverb provides the chain's room: a modulated feedback delay
// network with a Hadamard mixing matrix.
package reverb
