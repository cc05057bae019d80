package handle

// ID is an opaque reference to an entry in a Table.
// ID 0 is reserved and always invalid.
//
// The low 24 bits carry a 1-based slot number and the high 8 bits a
// generation counter. The generation is bumped every time a slot is
// released, so an ID held past its Drop stops resolving even after the
// slot is reused.
type ID uint32

const (
	genShift = 24
	slotMask = 0x00ffffff

	// maxEntries is the largest number of live entries a table can hold.
	// Slot numbers are 1-based so slot 0 never encodes to a valid ID.
	maxEntries = slotMask
)

// Releaser is optionally implemented by stored values that need cleanup
// when the table drops or closes over them.
type Releaser interface {
	Release()
}

func encode(gen uint8, idx uint32) ID {
	return ID(uint32(gen)<<genShift | (idx + 1))
}

func decode(id ID) (idx uint32, gen uint8, ok bool) {
	slot := uint32(id) & slotMask
	if slot == 0 {
		return 0, 0, false
	}
	return slot - 1, uint8(uint32(id) >> genShift), true
}
