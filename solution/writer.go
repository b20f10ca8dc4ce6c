// Package solution - CVRPLIB-style solution output.
//
// Format, one route per line followed by the cost line:
//
//	Route #1: 5 3 7
//	Route #2: 4 6
//	Cost 123
package solution

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Write renders the solution in CVRPLIB format onto w.
func (s *Solution) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)

	var (
		route int
		idx   = 1
	)
	for route = s.FirstRoute(); route != DummyRoute; route = s.NextRoute(route) {
		if _, err := fmt.Fprintf(bw, "Route #%d:", idx); err != nil {
			return err
		}

		var customer int
		for customer = s.FirstCustomer(route); customer != s.inst.Depot(); customer = s.NextVertex(customer) {
			if _, err := fmt.Fprintf(bw, " %d", customer); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
		idx++
	}

	if _, err := fmt.Fprintf(bw, "Cost %s\n", strconv.FormatFloat(s.Cost(), 'f', -1, 64)); err != nil {
		return err
	}

	return bw.Flush()
}

// Store writes the solution in CVRPLIB format to the given path.
func (s *Solution) Store(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("solution: store %q: %w", path, err)
	}

	if err = s.Write(file); err != nil {
		file.Close()

		return fmt.Errorf("solution: store %q: %w", path, err)
	}

	if err = file.Close(); err != nil {
		return fmt.Errorf("solution: store %q: %w", path, err)
	}

	return nil
}
