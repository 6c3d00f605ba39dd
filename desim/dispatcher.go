package desim

// dispatchFrontier delivers one per-receiver frontier (every event already
// ordered by the within-frontier tiebreak) to its receiver, per spec.md
// §4.4. It returns a *DispatchError if the frontier cannot be delivered at
// all (no handler for a variant, or a handler itself returned an error);
// the caller is responsible for halting the run in that case.
func dispatchFrontier(sim *Simulator, frontier []*Event) error {
	receiver := frontier[0].receiver

	sim.InvokeHook(HookCtx{
		Domain: sim, Pos: HookPosBeforeFrontier, Now: sim.currentTime, Item: frontier,
	})

	var err error
	if receiver.batchHandler != nil {
		err = dispatchBatch(sim, receiver, frontier)
	} else {
		err = dispatchSequential(sim, receiver, frontier)
	}

	sim.InvokeHook(HookCtx{
		Domain: sim, Pos: HookPosAfterFrontier, Now: sim.currentTime, Item: frontier, Detail: err,
	})

	return err
}

func dispatchBatch(sim *Simulator, receiver *SimulationObject, frontier []*Event) error {
	batch := make([]DeliveredEvent, len(frontier))
	for i, e := range frontier {
		batch[i] = newDeliveredEvent(e)
	}

	err := receiver.batchHandler(receiver, batch)

	for _, e := range frontier {
		sim.InvokeHook(HookCtx{
			Domain: sim, Pos: HookPosAfterEvent, Now: sim.currentTime, Item: e,
		})
	}

	if err != nil {
		return &DispatchError{
			Kind: ErrUserHandlerError, ObjectName: receiver.name, Cause: err,
		}
	}

	return nil
}

func dispatchSequential(sim *Simulator, receiver *SimulationObject, frontier []*Event) error {
	for _, e := range frontier {
		kind := e.message.Kind()

		handler, ok := receiver.handlerFor(kind)
		if !ok {
			return &DispatchError{
				Kind: ErrNoHandlerForVariant, ObjectName: receiver.name, Variant: kind,
			}
		}

		err := handler(receiver, newDeliveredEvent(e))

		sim.InvokeHook(HookCtx{
			Domain: sim, Pos: HookPosAfterEvent, Now: sim.currentTime, Item: e,
		})

		if err != nil {
			return &DispatchError{
				Kind: ErrUserHandlerError, ObjectName: receiver.name, Variant: kind, Cause: err,
			}
		}
	}

	return nil
}
