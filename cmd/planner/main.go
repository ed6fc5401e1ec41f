// Package main is the planner CLI: a terminal client that drives the trip
// events presenter against a running Trip Board API.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
