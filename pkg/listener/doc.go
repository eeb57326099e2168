// Package listener provides the copy-on-write listener registry shared by
// every service in netmidi.
//
// A Registry keeps an authoritative, mutex-guarded list of listeners and, on
// every mutation, publishes an immutable copy that firing code reads without
// locking. Listeners may therefore add or remove themselves (or others) from
// inside a callback: the in-flight fire keeps iterating its own snapshot, and
// the next fire sees the change.
//
// # Identity
//
// Listeners are compared with ==. Register pointer values (or other comparable
// values); storing a func inside an interface makes == panic at runtime, which
// is why the packages in this module wrap callback funcs in small pointer
// adapters before registering them.
package listener
