package model

import "time"

// Invocation describes a single run of the external shader compiler.
type Invocation struct {
	Compiler  string
	TargetEnv string
	Optimize  bool
	// Input and Output are relative to WorkDir.
	Input   Path
	Output  Path
	WorkDir Path
	// Timeout bounds the run; zero waits for the compiler indefinitely.
	Timeout time.Duration
}

// Args renders the compiler arguments, e.g.
// --target-env=vulkan1.2 -O -o bin/a.vert.spv a.vert.
func (i Invocation) Args() []string {
	args := make([]string, 0, 5)

	if i.TargetEnv != "" {
		args = append(args, "--target-env="+i.TargetEnv)
	}

	if i.Optimize {
		args = append(args, "-O")
	}

	return append(args, "-o", string(i.Output), string(i.Input))
}
