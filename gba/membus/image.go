package membus

import (
	"io"
	"os"
)

// LoadFirmware reads path into the firmware region starting at address 0,
// tolerating short reads — the tail of the region remains zeroed. There
// is no bank-switching indirection: the firmware region is a flat
// read-only backing slice.
func (b *Bus) LoadFirmware(path string) error {
	return loadInto(path, b.firmware)
}

// LoadCartridge reads path into the cartridge region starting at
// 0x08000000, tolerating short reads.
func (b *Bus) LoadCartridge(path string) error {
	return loadInto(path, b.cart)
}

func loadInto(path string, dst []byte) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.ReadFull(f, dst)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return err
	}
	return nil
}
