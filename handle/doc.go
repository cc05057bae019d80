// Package handle provides generational handle tables for host-side values.
//
// A Table maps opaque integer IDs to Go values so that values can cross
// a foreign-function boundary as plain uint32s. ID 0 is reserved and
// always invalid.
//
// # Generations
//
// Each slot carries an 8-bit generation counter that is bumped when the
// slot is dropped. An ID encodes both the slot and the generation it was
// issued under, so a stale ID keeps failing lookups even after the slot
// has been reused:
//
//	table := handle.NewTable[*Widget]()
//
//	id, _ := table.Put(w)
//	w2, ok := table.Get(id)   // ok
//
//	table.Drop(id)
//	_, ok = table.Get(id)     // !ok, and stays !ok after slot reuse
//
// Detection is best effort: the counter wraps after 256 reuses of the
// same slot.
//
// # Cleanup
//
// Entries are not garbage collected. Callers must Drop IDs they own,
// or Close the table to release everything at once. Values implementing
// Releaser get their Release method called during Close.
package handle
