// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// +build ignore

package main

import (
	"bufio"
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/plt"
)

// convergence_plot reads a per-iteration cost log produced by
// solver.DenseOptions/SparseOptions's Verbose logging (one
// "it cost |JtR| lambda" table row per line, as printed by io.Pf in
// solver/dense.go and solver/sparse_lm.go) and renders the cost-vs-iteration
// curve, mirroring GenVtu's role of turning a run's raw output into an
// offline diagnostic artifact.
func main() {

	logfn := "convergence.log"
	flag.Parse()
	if len(flag.Args()) > 0 {
		logfn = flag.Arg(0)
	}

	f, err := os.Open(logfn)
	if err != nil {
		chk.Panic("cannot open %q: %v", logfn, err)
	}
	defer f.Close()

	var its, costs []float64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		it, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			continue
		}
		cost, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			continue
		}
		its = append(its, it)
		costs = append(costs, cost)
	}
	if len(its) == 0 {
		chk.Panic("no iteration/cost rows found in %q", logfn)
	}

	plt.SetForEps(0.75, 350)
	plt.Plot(its, costs, "'b-', marker='o', clip_on=0, label='cost'")
	plt.Gll("iteration", "cost", "")
	plt.Cross("")
	plt.SaveD("/tmp", "convergence.eps")
}
