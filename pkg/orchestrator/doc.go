// Package orchestrator recommends which CRM tools to call, and in what order,
// for a natural-language request. It only produces plans; dispatching the
// steps and threading results between them is left to the caller.
package orchestrator
