// Package dict implements struct-dict encoding for string and blob columns.
//
// A dictionary encoded column stores, for every row, a key and, only at the first row
// that uses the key, the value of that key. Repeated values are therefore stored once:
//
//	values  ["b", "a", "b", null]
//	keys    [ 0,   1,   0,   0 ]
//	entries ["b", "a",  -,   - ]
//	missing [ f,   f,   f,   t ]
//
// CreateStorage builds that layout from plain values and Decode is its inverse. Encode and
// Resolve apply the same transformation to whole vectors, recursing through struct fields and
// nested list children, so that a dictionary encoded leaf is found wherever the column type
// declares one.
//
// Keys are assigned by a KeyGenerator in first-seen order. The key width of the column bounds
// the number of distinct values: 2^8 for BYTE_KEY, 2^32 for INT_KEY and 2^63 for LONG_KEY.
package dict
