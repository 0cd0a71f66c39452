// Command emdflow is a thin CLI wrapper around the emdflow solver library.
// It reads a matrix and search parameters from standard input and prints
// the resulting amplitude sum to standard output.
//
// Input format: a header line "R C S B_lo [B_hi]" followed by R lines of
// C whitespace-separated amplitudes in row-major order. The header carries
// B_hi exactly when -interval is set; without it the header has four fields
// and B_hi = B_lo.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/emdflow/emdflow"
	"github.com/emdflow/emdflow/internal/backend"
	"github.com/emdflow/emdflow/pkg/config"
	"github.com/emdflow/emdflow/pkg/elog"
)

func main() {
	cfg, err := config.NewLoader().Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "emdflow: loading config:", err)
		os.Exit(1)
	}
	elog.Init(cfg.Log.Level)

	var (
		alg        = flag.Int("alg", int(backend.TypeInternalSSP), "backend: 0=internal, 1=lvlath, 2=gonum")
		square     = flag.Bool("square", false, "square amplitudes on ingest instead of taking absolute value")
		interval   = flag.Bool("interval", false, "read [B_lo, B_hi] as a two-value interval instead of a single bound")
		supportOut = flag.String("support-out", "", "optional file to write the 0/1 support matrix to")
		lambdaLow  = flag.Float64("lambda-low", cfg.Solver.DefaultLambdaLow, "initial lambda search bracket, low end")
		lambdaHigh = flag.Float64("lambda-high", cfg.Solver.DefaultLambdaHigh, "initial lambda search bracket, high end")
		iterations = flag.Int("iterations", cfg.Solver.DefaultNumIterations, "binary search iteration cap")
		width      = flag.Int("width", -1, "neighborhood width; -1 for full bipartite layer")
	)
	flag.Parse()

	if err := run(os.Stdin, os.Stdout, *alg, *square, *interval, *supportOut, *lambdaLow, *lambdaHigh, *iterations, *width); err != nil {
		fmt.Fprintln(os.Stderr, "emdflow:", err)
		os.Exit(1)
	}
}

func run(in *os.File, out *os.File, alg int, square, interval bool, supportOut string, lambdaLow, lambdaHigh float64, iterations, width int) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	header, err := readLine(scanner)
	if err != nil {
		return fmt.Errorf("reading header: %w", err)
	}
	fields := strings.Fields(header)
	if interval && len(fields) != 5 {
		return fmt.Errorf("expected header \"R C S B_lo B_hi\" in -interval mode, got %q", header)
	}
	if !interval && len(fields) != 4 {
		return fmt.Errorf("expected header \"R C S B\", got %q", header)
	}

	r, err := strconv.Atoi(fields[0])
	if err != nil {
		return fmt.Errorf("parsing R: %w", err)
	}
	c, err := strconv.Atoi(fields[1])
	if err != nil {
		return fmt.Errorf("parsing C: %w", err)
	}
	s, err := strconv.Atoi(fields[2])
	if err != nil {
		return fmt.Errorf("parsing S: %w", err)
	}
	bLo, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return fmt.Errorf("parsing B_lo: %w", err)
	}
	bHi := bLo
	if interval {
		bHi, err = strconv.ParseInt(fields[4], 10, 64)
		if err != nil {
			return fmt.Errorf("parsing B_hi: %w", err)
		}
	}

	x := make([][]float64, r)
	for row := 0; row < r; row++ {
		line, err := readLine(scanner)
		if err != nil {
			return fmt.Errorf("reading amplitude row %d: %w", row, err)
		}
		cells := strings.Fields(line)
		if len(cells) != c {
			return fmt.Errorf("row %d: expected %d values, got %d", row, c, len(cells))
		}
		x[row] = make([]float64, c)
		for col, cell := range cells {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return fmt.Errorf("row %d col %d: %w", row, col, err)
			}
			x[row][col] = v
		}
	}

	ingest := emdflow.IngestAbs
	if square {
		ingest = emdflow.IngestSquare
	}

	result, err := emdflow.Solve(emdflow.Args{
		X:                         x,
		Sparsity:                  s,
		EmdBoundLow:               bLo,
		EmdBoundHigh:              bHi,
		LambdaLow:                 lambdaLow,
		LambdaHigh:                lambdaHigh,
		NumSearchIterations:       iterations,
		OutdegreeVerticalDistance: width,
		AlgType:                   backend.AlgType(alg),
		Ingest:                    ingest,
	})
	if err != nil {
		return err
	}

	if !result.Feasible {
		fmt.Fprintln(out, "infeasible:", result.Note)
		return nil
	}

	fmt.Fprintf(out, "%g\n", result.AmplitudeSum)

	if supportOut != "" {
		if err := writeSupport(supportOut, result.Support); err != nil {
			return fmt.Errorf("writing support: %w", err)
		}
	}

	return nil
}

func readLine(scanner *bufio.Scanner) (string, error) {
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("unexpected end of input")
	}
	return scanner.Text(), nil
}

func writeSupport(path string, support [][]bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, row := range support {
		for i, active := range row {
			if i > 0 {
				w.WriteByte(' ')
			}
			if active {
				w.WriteByte('1')
			} else {
				w.WriteByte('0')
			}
		}
		w.WriteByte('\n')
	}
	return w.Flush()
}
