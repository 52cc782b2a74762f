// Package memory holds the conversation log an agent builds while solving a
// task. Messages are role-tagged and appended in order; the log is only
// truncated by an explicit Clear.
//
// The prompt renderer reads the log to build each request, so whatever a
// script printed or however it failed reaches the model on the next turn.
package memory
