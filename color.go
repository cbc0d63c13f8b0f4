// Copyright 2024 The dwg authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package dwg

import "fmt"

// ColorKind discriminates the four color variants a DWG entity may carry
// (§3 Color).
type ColorKind uint8

const (
	ColorByLayer ColorKind = iota
	ColorByBlock
	ColorIndex
	ColorRGB
)

// Color is a DWG color value. Pre-R2004 files only ever produce the
// ByLayer/ByBlock/Index variants; R2004+ additionally carries Rgb plus an
// optional book/color name.
type Color struct {
	Kind  ColorKind
	Index uint8 // valid when Kind == ColorIndex, 0..255
	R, G, B uint8 // valid when Kind == ColorRGB
	Name  string // optional color/book name, R2004+ only
}

// ByLayerColor is the sentinel color meaning "inherit from layer".
var ByLayerColor = Color{Kind: ColorByLayer}

// ByBlockColor is the sentinel color meaning "inherit from block".
var ByBlockColor = Color{Kind: ColorByBlock}

// IndexColor builds an indexed (ACI) color, 0..255.
func IndexColor(i uint8) Color { return Color{Kind: ColorIndex, Index: i} }

// RGBColor builds a true-color value.
func RGBColor(r, g, b uint8) Color { return Color{Kind: ColorRGB, R: r, G: g, B: b} }

func (c Color) String() string {
	switch c.Kind {
	case ColorByLayer:
		return "ByLayer"
	case ColorByBlock:
		return "ByBlock"
	case ColorIndex:
		return fmt.Sprintf("Index(%d)", c.Index)
	case ColorRGB:
		if c.Name != "" {
			return fmt.Sprintf("Rgb(%d,%d,%d,%q)", c.R, c.G, c.B, c.Name)
		}
		return fmt.Sprintf("Rgb(%d,%d,%d)", c.R, c.G, c.B)
	default:
		return "Color(?)"
	}
}

// packedRGBA packs the R2004+ 32-bit color representation: high byte
// selects the variant (0xC2 = true color present), low 24 bits carry
// RGB.
func (c Color) packedRGBA() uint32 {
	switch c.Kind {
	case ColorRGB:
		return 0xC2000000 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
	case ColorIndex:
		return uint32(c.Index)
	default:
		return 0
	}
}

func colorFromPackedRGBA(v uint32) Color {
	variant := byte(v >> 24)
	if variant == 0xC2 || variant == 0xC3 {
		return Color{
			Kind: ColorRGB,
			R:    byte(v >> 16),
			G:    byte(v >> 8),
			B:    byte(v),
		}
	}
	return IndexColor(byte(v))
}
