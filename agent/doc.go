// Package agent implements the control loop that lets a model solve a task by
// writing Lua scripts.
//
// Each iteration renders a prompt from the tool set and conversation memory,
// asks the model for a reply, extracts the script and runs it in the agent's
// persistent sandbox. A script that calls final_answer ends the run. Anything
// else (printed output, a compilation error, a runtime error) is recorded as a
// system message so the model can react to it on the next turn.
//
// Only model failures, an exhausted iteration budget, configuration problems
// and context cancellation end a run with an error. Script and tool faults
// never do.
package agent
