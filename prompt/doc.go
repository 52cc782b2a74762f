// Package prompt turns an agent's tool set and conversation log into the text
// sent to the model, and pulls the Lua script back out of the model's reply.
//
// Rendering is deterministic: tools are listed in name order, both as
// human-readable signatures and as a JSON schema listing, followed by the
// message history in insertion order.
package prompt
