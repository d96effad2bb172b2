// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package isa

// ParseHex converts a string of hex digits without prefix into bytes. Upper
// and lower case digits are accepted. The string needs to have an even
// length.
func ParseHex(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, &HexError{Kind: ErrBadSize}
	}
	res := make([]byte, len(s)/2)
	for i := 0; i < len(s); i++ {
		v, ok := fromHexChar(s[i])
		if !ok {
			return nil, &HexError{Kind: ErrBadHexAt, Offset: i}
		}
		if i%2 == 0 {
			res[i/2] |= v << 4
		} else {
			res[i/2] |= v
		}
	}
	return res, nil
}

// DecodeHex converts a hex string into binary code and decodes it using
// DecodeStrict. Errors of the strict decoding are returned unchanged.
func (c *Codec) DecodeHex(s string) (Sequence, error) {
	code, err := ParseHex(s)
	if err != nil {
		return nil, err
	}
	return c.DecodeStrict(code)
}

// DecodeHexPermissive converts a hex string into binary code and decodes it
// using DecodePermissive. Only malformed hex strings are reported as errors.
func (c *Codec) DecodeHexPermissive(s string) (Sequence, error) {
	code, err := ParseHex(s)
	if err != nil {
		return nil, err
	}
	return c.DecodePermissive(code), nil
}

func fromHexChar(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
