// Package dispatch
// Author: momentics <momentics@gmail.com>
//
// Job dispatch over two single-producer/single-consumer rings.
//
// New wires a Dispatcher and a Worker to the same pair of rings:
//
//	Dispatcher --work ring--> Worker --result ring--> Dispatcher --> History
//
// The Dispatcher and the Worker each run on their own goroutine and
// share nothing but the rings. The History belongs to the Dispatcher.
package dispatch
