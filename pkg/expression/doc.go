// Package expression evaluates condition expressions such as
//
//	{age} >= 18 and {country} anyof ['DE', 'AT']
//
// by translating them to Lua and running them on a sandboxed go-lua
// state. Register installs the runner as the model's expression runner
// factory, after which expression properties evaluate through it.
package expression
