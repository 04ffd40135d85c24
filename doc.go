// Package r6y provides resumable conditions for Go applications.
//
// A condition is an error carrying a registry of recoveries. When code calls
// [Env.Raise], the innermost handler established with [Handle] inspects the
// condition at the raise site. Invoking one of its recoveries resumes the
// original Raise call with a value instead of unwinding the stack, the way
// Common Lisp restarts do. Handlers that decline unwind to their own Handle
// like an ordinary catch.
package r6y
