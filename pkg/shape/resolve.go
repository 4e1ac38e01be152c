package shape

import (
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/EPronovost/eincheck/pkg/spec"
)

// Resolve reconciles the given arguments and seed values into one consistent
// variable environment, or fails with a *ResolutionError wrapping the first
// violation found.
//
// Resolution runs repeated passes over all arguments.  Within every pass,
// bare variables across all arguments are bound before any compound
// expression is checked, since only bare variables can create new bindings;
// passes repeat until one produces no new binding.  Resolution is idempotent
// (feeding a successful result back as seeds reproduces it) and commutative
// in argument order, except for name attribution in failure messages.
func Resolve(args []Argument, seeds map[string]spec.Value) (*Bindings, error) {
	env := NewBindings()
	// Seeds bind first, in sorted order for determinism.
	seedNames := make([]string, 0, len(seeds))
	for name := range seeds {
		seedNames = append(seedNames, name)
	}

	sort.Strings(seedNames)

	for _, name := range seedNames {
		env.Bind(name, seeds[name])
	}
	// Each variable must be scalar everywhere or tuple everywhere.
	if err := checkVariableKinds(args, env); err != nil {
		return nil, &ResolutionError{Err: err, Bindings: env, Args: args}
	}
	//
	bound := make([]bool, len(args))
	checked := make([]bool, len(args))

	for pass := 0; pass < len(args); pass++ {
		before := env.Len()
		// Binding phase: every argument which can be aligned makes all the
		// bindings it can.
		for i, arg := range args {
			if bound[i] || len(arg.Spec.UnknownRuns(env)) > 1 {
				continue
			}

			if err := checkRank(arg, env); err != nil {
				return nil, &ResolutionError{Err: err, Bindings: env, Args: args}
			}

			bindArg(arg, env)
			bound[i] = true
		}
		// Checking phase: every argument whose expressions are all evaluable
		// is verified in full.
		for i, arg := range args {
			if checked[i] || !bound[i] || !arg.Spec.Checkable(env) {
				continue
			}
			// A variadic expression becoming evaluable can shift the
			// alignment, so rank is re-verified under the current
			// environment.
			if err := checkRank(arg, env); err != nil {
				return nil, &ResolutionError{Err: err, Bindings: env, Args: args}
			}

			if err := checkArg(arg, env); err != nil {
				return nil, &ResolutionError{Err: err, Bindings: env, Args: args}
			}

			checked[i] = true
		}

		log.Debugf("shape resolution pass %d: %d bindings", pass, env.Len())
		// Fixed point reached?
		if env.Len() == before {
			break
		}
	}
	// Arguments never aligned still have several runs of undetermined
	// length.
	var unresolved []string

	for i, arg := range args {
		if !bound[i] {
			unresolved = append(unresolved, arg.Name)
		}
	}

	if len(unresolved) > 0 {
		err := &AmbiguityError{Names: unresolved}
		return nil, &ResolutionError{Err: err, Bindings: env, Args: args}
	}
	// Arguments never checked reference variables which no argument binds.
	var unchecked []string

	missing := make(map[string]bool)

	for i, arg := range args {
		if checked[i] {
			continue
		}

		unchecked = append(unchecked, arg.Name)

		for _, name := range arg.Spec.Vars() {
			if _, ok := env.Lookup(name); !ok {
				missing[name] = true
			}
		}
	}

	if len(unchecked) > 0 {
		names := make([]string, 0, len(missing))
		for name := range missing {
			names = append(names, name)
		}

		sort.Strings(names)

		err := &MissingVariableError{Args: unchecked, Variables: names}
		//
		return nil, &ResolutionError{Err: err, Bindings: env, Args: args}
	}
	//
	return env, nil
}

// checkVariableKinds categorises every variable as scalar (used in single or
// repeated position, or seeded with an integer) or tuple (used in variadic
// position, or seeded with a tuple), failing if any variable falls in both
// camps.
func checkVariableKinds(args []Argument, env *Bindings) error {
	scalarVars := make(map[string]bool)
	tupleVars := make(map[string]bool)
	//
	for _, name := range env.Names() {
		value, _ := env.Lookup(name)
		if value.IsTuple() {
			tupleVars[name] = true
		} else {
			scalarVars[name] = true
		}
	}
	//
	for _, arg := range args {
		for _, d := range arg.Spec.Dims() {
			if d.Value == nil {
				continue
			}

			vars := make(map[string]bool)
			d.Value.Vars(vars)

			for name := range vars {
				if d.Kind == spec.Variadic {
					tupleVars[name] = true
				} else {
					scalarVars[name] = true
				}
			}
		}
	}
	//
	var both []string

	for name := range scalarVars {
		if tupleVars[name] {
			both = append(both, name)
		}
	}

	if len(both) > 0 {
		sort.Strings(both)
		return &spec.TypeConflictError{Names: both}
	}
	//
	return nil
}
