package desim

// HookPos identifies a site in the simulator where a Hook can observe a run.
type HookPos struct {
	Name string
}

// HookPosBeforeFrontier marks the instant just before the simulator dispatches
// the next tied-event frontier, after the stop condition has been evaluated
// and after current time has advanced to the frontier's receive time.
var HookPosBeforeFrontier = &HookPos{Name: "BeforeFrontier"}

// HookPosAfterFrontier marks the instant right after a frontier has been
// fully dispatched (the batch handler returned, or every per-event handler
// in the frontier has run).
var HookPosAfterFrontier = &HookPos{Name: "AfterFrontier"}

// HookPosAfterEvent marks the instant right after a single event's handler
// has returned. Fired once per event even when the frontier was delivered
// through a batch handler, so per-event tracers don't need to special-case
// batching.
var HookPosAfterEvent = &HookPos{Name: "AfterEvent"}

// HookCtx carries the information available at a hook site.
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Now    Time
	Item   interface{}
	Detail interface{}
}

// Hookable is implemented by anything that accepts Hooks.
type Hookable interface {
	AcceptHook(hook Hook)
}

// Hook is invoked synchronously, from the run loop's goroutine, at a
// HookPos. Hooks must not call back into the Simulator except through its
// read-only surface (CurrentTime). The run loop holds the pause lock while
// it invokes hooks, so a Pause called from a hook blocks and never returns.
type Hook interface {
	Func(ctx HookCtx)
}

// HookableBase implements Hookable and is embedded by types that need to
// accept hooks.
type HookableBase struct {
	hooks []Hook
}

// AcceptHook registers a hook.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.hooks = append(h.hooks, hook)
}

// NumHooks returns how many hooks are registered.
func (h *HookableBase) NumHooks() int {
	return len(h.hooks)
}

// InvokeHook calls every registered hook with ctx, in registration order.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hooks {
		hook.Func(ctx)
	}
}
