// Package pitch provides a streaming delay-line pitch shifter.
package pitch
