// Package util holds small helpers shared by the command line tool and
// the configuration layer: size parsing and secret masking.
package util
