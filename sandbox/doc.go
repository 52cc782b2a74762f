// Package sandbox executes script fragments against a persistent Lua state.
//
// A Sandbox owns exactly one gopher-lua LState. Each Execute call:
//
//  1. binds the given tool set as global Lua functions (idempotently),
//  2. rebinds the reserved control functions print, thought, observation
//     and final_answer,
//  3. clears the print buffer and the final-answer slot,
//  4. compiles and runs the script,
//  5. reports a Result of kind Continuation, FinalAnswer or Failure.
//
// Ordinary globals assigned by a script survive into later calls; nothing
// else does. Tool failures never reach script control flow: the bridge logs
// them, records them on the Result and hands the script nil.
//
// Only the base, table, string and math libraries are opened, and dofile,
// loadfile, require and module are removed, so a script has no file,
// network or process access beyond what tools expose.
package sandbox
