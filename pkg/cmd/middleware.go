package cmd

// Middleware wraps a command (e.g. logging, eligibility check, metrics).
// The wrapped type remains Command.
type Middleware func(Command) Command

// Apply applies middlewares in order; the last in the list is the outermost.
func Apply(c Command, mws ...Middleware) Command {
	for _, mw := range mws {
		c = mw(c)
	}
	return c
}

// Chain returns a Middleware that applies mws in order.
func Chain(mws ...Middleware) Middleware {
	return func(c Command) Command { return Apply(c, mws...) }
}
