// Copyright 2024 The dwg authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package dwg

// Fuzz is the go-fuzz entry point, grounded on the teacher's own
// package-level Fuzz(data []byte) int.
func Fuzz(data []byte) int {
	doc, err := OpenBytes(data, Config{Failsafe: true})
	if err != nil {
		return 0
	}
	if _, err := WriteBytes(doc); err != nil {
		return 0
	}
	return 1
}
