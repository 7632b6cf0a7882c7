// Package control implements the settle behaviour of numeric controls that
// are both edited locally and fed by a stream of authoritative values.
//
// A local edit marks the value dirty and opens a settle window. While the
// window is open, authoritative updates are recorded but not shown. When the
// window closes without a further edit, the shown value reverts to the last
// authoritative value:
//
//	Input(5)      Update(7)          window elapses
//	   |  shown=5    |  shown=5 (7 buffered)  |  shown=7
//	---+-------------+------------------------+--------> t
//	   0           500ms                   1000ms
//
// Timers are abstracted behind Scheduler so the event loop can run them on
// its own goroutine and tests can advance time by hand.
package control
