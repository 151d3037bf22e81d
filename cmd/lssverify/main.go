/*
Lssverify loads a verification scenario, abstracts and solves it, and lets
the user step a closed-loop trace under the synthesized controller.

Usage:

	lssverify [flags]

The flags are:

	-s, --scenario FILE
		TOML scenario file describing dynamics, polytopes, the automaton,
		objective, and controller choice. Defaults to "scenario.toml" in
		the current working directory.

	-r, --refine
		Run the abstraction-refinement loop instead of a single
		uniform grid before solving.

	-x, --x0 VALUES
		Comma-separated initial point to seed the trace. Defaults to the
		center of the declared state box.

	-d, --direct
		Force reading directly from stdin instead of going through
		readline, even under a tty.

Once loaded, lssverify prints a one-line summary (the number of system
states and of initial product-game states) and drops into an interactive
session; its "status" command prints the classification of the trace's
current state. Type "help" for the available commands; "quit" or Ctrl-D
to exit.
*/
package main

import (
	"bufio"
	"context"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"
	"github.com/spf13/pflag"

	"github.com/veylan/lssverify/abstraction"
	"github.com/veylan/lssverify/automaton"
	"github.com/veylan/lssverify/config"
	"github.com/veylan/lssverify/controller"
	"github.com/veylan/lssverify/dispatch"
	"github.com/veylan/lssverify/game"
	"github.com/veylan/lssverify/geometry"
	"github.com/veylan/lssverify/refinement"
	"github.com/veylan/lssverify/solver"
)

const (
	ExitSuccess = iota
	ExitScenarioError
	ExitAnalysisError
)

var (
	returnCode   = ExitSuccess
	scenarioFile = pflag.StringP("scenario", "s", "scenario.toml", "TOML scenario file to load")
	refineFlag   = pflag.BoolP("refine", "r", false, "run the abstraction-refinement loop before solving")
	initialPoint = pflag.StringP("x0", "x", "", "comma-separated initial point; defaults to the state box center")
	forceDirect  = pflag.BoolP("direct", "d", false, "force reading directly from stdin instead of readline")
)

func main() {
	defer func() { os.Exit(returnCode) }()

	pflag.Parse()
	initDisplay()

	sc, err := config.Load(*scenarioFile)
	if err != nil {
		pterm.Error.Printf("loading scenario %q: %s\n", *scenarioFile, err)
		returnCode = ExitScenarioError
		return
	}

	sess, err := newSession(sc)
	if err != nil {
		pterm.Error.Println(err.Error())
		returnCode = ExitAnalysisError
		return
	}

	x0 := sc.State.Lo.Add(sc.State.Hi)
	for i := range x0 {
		x0[i] /= 2
	}
	if *initialPoint != "" {
		parsed, err := parseVec(*initialPoint)
		if err != nil {
			pterm.Error.Println(err.Error())
			returnCode = ExitScenarioError
			return
		}
		x0 = parsed
	}

	if err := sess.seedTrace(x0); err != nil {
		pterm.Error.Println(err.Error())
		returnCode = ExitAnalysisError
		return
	}

	pterm.Success.Printf("loaded %q: %d system states, %d initial state(s) in the product game\n",
		*scenarioFile, len(sess.sys.Labels()), len(sess.g.Initial))

	runREPL(sess)
}

func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{Text: "  INFO", Style: pterm.NewStyle(pterm.BgBlue, pterm.FgBlack)}
	pterm.Error.Prefix = pterm.Prefix{Text: "  ERROR", Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack)}
	pterm.Success.Prefix = pterm.Prefix{Text: "  OK", Style: pterm.NewStyle(pterm.BgGreen, pterm.FgBlack)}
}

// session bundles one loaded-and-solved scenario together with the
// trace currently being stepped through it.
type session struct {
	sc      config.Scenario
	sys     *abstraction.AbstractedLSS
	g       *game.Game
	results map[string]*solver.Result
	ctrl    controller.Controller
	trace   *controller.Trace
	worker  *dispatch.Worker
}

func predicateTest(label string, preds automaton.PredicateSet) bool {
	return preds.Contains(label)
}

// newSession builds the abstraction (refining first if requested),
// constructs the product game, and analyses it. Without refinement,
// Analyze is dispatched to a background worker over a request/response
// message channel; with refinement, refinement.Run builds, solves and
// analyses each round itself and the last round is used.
func newSession(sc config.Scenario) (*session, error) {
	w := dispatch.NewWorker(1)

	var sys *abstraction.AbstractedLSS
	var g *game.Game
	var results map[string]*solver.Result

	if *refineFlag {
		rounds, err := refinement.Run([]geometry.Box{sc.State}, sc.Dynamics, sc.Disturbance, sc.Control, sc.GridOptions, sc.Automaton, predicateTest, sc.CoSafe, refinement.Config{
			MaxIterations:        sc.Refinement.MaxIterations,
			MaybeVolumeThreshold: sc.Refinement.MaybeVolumeThreshold,
		})
		if err != nil {
			w.Stop()
			return nil, fmt.Errorf("refinement: %w", err)
		}
		if len(rounds) == 0 {
			w.Stop()
			return nil, fmt.Errorf("refinement produced no rounds")
		}
		last := rounds[len(rounds)-1]
		sys, g, results = last.System, last.Game, last.Results
	} else {
		var err error
		sys, err = abstraction.BuildGrid(sc.State, sc.GridCounts, sc.Dynamics, sc.Disturbance, sc.Control, sc.GridOptions...)
		if err != nil {
			w.Stop()
			return nil, fmt.Errorf("building grid: %w", err)
		}
		g, err = game.Build(sys, sc.Automaton, predicateTest, sc.CoSafe)
		if err != nil {
			w.Stop()
			return nil, fmt.Errorf("building game: %w", err)
		}

		val, err := w.Do(context.Background(), func(ctx context.Context) (interface{}, error) {
			return solver.Analyze(g, sc.Automaton, sys, predicateTest, sc.CoSafe)
		})
		if err != nil {
			w.Stop()
			return nil, fmt.Errorf("analyzing: %w", err)
		}
		results = val.(map[string]*solver.Result)
	}

	ctrl, err := controller.New(sc.Controller.Name, sys,
		controller.WithResults(results),
		controller.WithTransitions(map[string]string{sc.Controller.FromState: sc.Controller.ToState}),
	)
	if err != nil {
		w.Stop()
		return nil, fmt.Errorf("building controller %q: %w", sc.Controller.Name, err)
	}

	return &session{sc: sc, sys: sys, g: g, results: results, ctrl: ctrl, worker: w}, nil
}

func (s *session) seedTrace(x0 geometry.Vec) error {
	rng := rand.New(rand.NewSource(1))
	tr, err := controller.NewTrace(s.sys, s.sc.Automaton, predicateTest, s.ctrl, s.sc.CoSafe, rng, x0, "", "")
	if err != nil {
		return fmt.Errorf("seeding trace: %w", err)
	}
	s.trace = tr
	return nil
}

func (s *session) close() {
	s.worker.Stop()
}

func runREPL(sess *session) {
	defer sess.close()

	if *forceDirect {
		runDirect(sess)
		return
	}

	rl, err := readline.New("lssverify> ")
	if err != nil {
		pterm.Error.Println(err.Error())
		runDirect(sess)
		return
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF on Ctrl-D
			break
		}
		if quit := handleLine(sess, line); quit {
			break
		}
	}
	pterm.Info.Println("goodbye")
}

func runDirect(sess *session) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if quit := handleLine(sess, scanner.Text()); quit {
			break
		}
	}
}

func handleLine(sess *session, line string) (quit bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	fields := strings.Fields(line)
	switch fields[0] {
	case "quit", "exit":
		return true
	case "help":
		printHelp()
	case "step":
		n := 1
		if len(fields) > 1 {
			if v, err := strconv.Atoi(fields[1]); err == nil {
				n = v
			}
		}
		stepTrace(sess, n)
	case "status":
		printStatus(sess)
	default:
		pterm.Error.Printf("unknown command %q; type \"help\"\n", fields[0])
	}
	return false
}

func printHelp() {
	fmt.Println(`commands:
  step [n]   advance the trace by n steps (default 1), printing each
  status     print the current trace position and its classification
  help       show this message
  quit       exit`)
}

func stepTrace(sess *session, n int) {
	for i := 0; i < n; i++ {
		step, ok, err := sess.trace.Step()
		if err != nil {
			pterm.Error.Println(err.Error())
			return
		}
		if !ok {
			pterm.Info.Println("trace terminated")
			return
		}
		fmt.Printf("(%v, %s, %s) -> (%v, %s, %s)  u=%v w=%v\n",
			step.X0, step.S0, step.Q0, step.X1, step.S1, step.Q1, step.U, step.W)
	}
}

func printStatus(sess *session) {
	r, ok := sess.results[sess.trace.StateLabel()]
	if !ok {
		pterm.Info.Println("current state has no recorded analysis result")
		return
	}
	q := sess.trace.AutomatonState()
	_, yes := r.Yes[q]
	_, no := r.No[q]
	switch {
	case yes:
		pterm.Success.Printf("state %s at automaton state %s is winning\n", sess.trace.StateLabel(), q)
	case no:
		pterm.Error.Printf("state %s at automaton state %s is losing\n", sess.trace.StateLabel(), q)
	default:
		pterm.Info.Printf("state %s at automaton state %s is undecided (maybe)\n", sess.trace.StateLabel(), q)
	}
}

func parseVec(s string) (geometry.Vec, error) {
	parts := strings.Split(s, ",")
	v := make(geometry.Vec, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("x0 component %d (%q): %w", i, p, err)
		}
		v[i] = f
	}
	return v, nil
}
