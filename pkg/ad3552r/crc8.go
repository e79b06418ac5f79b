package ad3552r

// crc8PopulateMSB builds the 256-entry CRC-8 lookup table for poly, MSB-first.
func crc8PopulateMSB(poly byte) [256]byte {
	var table [256]byte
	for i := range table {
		c := byte(i)
		for bit := 0; bit < 8; bit++ {
			if c&0x80 != 0 {
				c = c<<1 ^ poly
			} else {
				c <<= 1
			}
		}
		table[i] = c
	}
	return table
}

// crc8 folds seed and data into a single CRC-8 byte using table.
func crc8(table *[256]byte, data []byte, seed byte) byte {
	c := seed
	for _, b := range data {
		c = table[c^b]
	}
	return c
}
