// Package reasoning drives a multi-turn chain-of-thought dialogue with a
// language model.
//
// A Session decomposes one user query into labeled reasoning steps. Each model
// call returns a batch of steps in a small JSON protocol:
//
//	{"title": "...", "content": "...", "next_action": "continue" | "final_answer"}
//
// Accepted steps are fed back to the model as assistant turns so it can build
// on its own reasoning. Once a step signals final_answer (or the step ceiling
// is reached) the session asks once more for the complete answer and finishes
// with a record labeled "Final Answer".
//
// # Components
//
//   - Gateway wraps a model.Provider with a fixed-delay bounded retry and turns
//     exhausted failures into synthetic "Error" steps instead of errors.
//   - Decode/Encode validate and serialize steps (the step protocol codec).
//   - Session owns the conversation and accumulated timing and yields
//     Snapshots through a single-pass iterator.
//
// # Usage
//
//	gw := reasoning.NewGateway(p, reasoning.DefaultGatewayConfig())
//	s := reasoning.NewSession(gw, "How many letters in word reasoning?")
//	for snap := range s.Run(ctx) {
//	    render(snap.Steps)
//	    if snap.Done {
//	        fmt.Printf("Total thinking time: %.2f seconds\n", snap.TotalThinkingTime.Seconds())
//	    }
//	}
//
// Every session reaches the Done snapshot: model failures and malformed output
// become error steps that force the closing answer rather than aborting.
package reasoning
