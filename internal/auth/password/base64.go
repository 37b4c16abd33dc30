// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2023 UnderNET

package password

// itoa64 is the crypt(3) alphabet used both for the iteration digit and the encoded digest.
const itoa64 = "./0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// encodedLen returns ceil(8n/6), the number of characters encode64 emits for n bytes.
func encodedLen(n int) int {
	return (8*n + 5) / 6
}

// encode64 encodes raw into printable base 64 the way crypt() does: each group of
// up to three bytes is packed little-endian into a 24 bit value and emitted six
// bits at a time starting with the least significant bits. A short final group of
// one or two bytes yields two or three characters.
func encode64(raw []byte) string {
	out := make([]byte, 0, encodedLen(len(raw)))

	for len(raw) > 0 {
		n := min(len(raw), 3)

		var v uint32
		for i := 0; i < n; i++ {
			v |= uint32(raw[i]) << (8 * i)
		}
		for i := 0; i <= n; i++ {
			out = append(out, itoa64[(v>>(6*i))&0x3f])
		}

		raw = raw[n:]
	}

	return string(out)
}
