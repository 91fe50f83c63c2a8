// Command benchrun runs the bench package, then one-line perft and search
// timings. Usage: go run ./cmd/benchrun
package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

const kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

// step is one go subcommand; required steps abort the run when they fail.
type step struct {
	args     []string
	required bool
}

func goStep(required bool, args ...string) step {
	return step{args: args, required: required}
}

// execute runs the step and echoes its combined output.
func (s step) execute() error {
	out, err := exec.Command("go", s.args...).CombinedOutput()
	os.Stdout.Write(out)
	return err
}

func exitCode(err error) int {
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	return 1
}

func main() {
	sections := []struct {
		header string
		steps  []step
	}{
		{
			header: "Columns: BENCHMARK  N  ns/op  B/op  allocs/op",
			steps: []step{
				goStep(true, "test", "./bench", "-run", "^$", "-bench", ".", "-benchmem", "-benchtime=1s"),
			},
		},
		{
			header: "\nPerft Performance:\nTEST \t\tDepth \t\tNodes \t\tTime \tNPS",
			steps: []step{
				goStep(false, "run", "./cmd/perft", "-depth", "3", "-label", "Initial"),
				goStep(false, "run", "./cmd/perft", "-depth", "4", "-label", "Initial"),
				goStep(false, "run", "./cmd/perft", "-depth", "5", "-label", "Initial"),
				goStep(false, "run", "./cmd/perft", "-fen", kiwipete, "-depth", "3", "-label", "Kiwipete"),
			},
		},
		{
			header: "\nSearch Performance:",
			steps: []step{
				goStep(false, "run", "./cmd/searchbench", "-depth", "3"),
				goStep(false, "run", "./cmd/searchbench", "-depth", "4"),
			},
		},
	}

	for _, sec := range sections {
		fmt.Println(sec.header)
		for _, s := range sec.steps {
			err := s.execute()
			if err == nil {
				continue
			}
			fmt.Fprintf(os.Stderr, "go %v: %v\n", s.args, err)
			if s.required {
				os.Exit(exitCode(err))
			}
		}
	}
}
