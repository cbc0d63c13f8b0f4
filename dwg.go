// Copyright 2024 The dwg authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

// Package dwg implements a reader and writer for the AutoCAD DWG
// binary drawing format (§1-§9): bit-level stream primitives, LZ77 and
// Reed-Solomon on-disk compression/interleaving, the AC15 flat and
// AC18+ paged file layouts, named section codecs, and an object codec
// covering the built-in entity and table-entry types plus a DXF class
// table for the rest.
package dwg

import (
	"bytes"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/dwgkit/dwg/internal/log"
)

// Config carries the two document-surface options named in §6: whether
// to keep going past a per-object or per-section error (producing
// warnings instead), and whether to retain opaque placeholders for
// objects of an unrecognized class.
type Config struct {
	// Failsafe, when true, downgrades Parse and CrcMismatch failures to
	// warnings attached to the returned Document instead of aborting the
	// read (§7).
	Failsafe bool

	// KeepUnknownEntities, when true, retains an UnknownObject for every
	// object the codec has no reader for (every class-based type code,
	// and every built-in code without a handler, table control objects
	// included), instead of silently dropping it (§7 "Unknown type").
	KeepUnknownEntities bool

	// Logger receives parse/compress warnings the way pe.File logs Rich
	// header and COFF symbol table problems; nil uses log.DefaultLogger.
	Logger log.Logger
}

func (c Config) helper() *log.Helper { return log.NewHelper(c.Logger) }

// Open memory-maps path read-only and decodes it as a DWG file.
func Open(path string, cfg Config) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer m.Unmap()

	return OpenBytes(m, cfg)
}

// OpenBytes decodes data already resident in memory, without mapping a
// file. This is the entry point fuzz.go's Fuzz targets.
func OpenBytes(data []byte, cfg Config) (*Document, error) {
	helper := cfg.helper()

	if len(data) < 6 {
		return nil, ErrTooSmall
	}
	version := Version(bytes.TrimRight(data[:6], "\x00"))
	if !version.Valid() {
		return nil, ErrInvalidSignature
	}

	doc := NewDocument(version)
	f := newVerFlags(version)

	var sections map[string][]byte
	switch version.fileLayout() {
	case layoutAC15:
		locators, codePage, err := parseAC15Preamble(data[6:])
		if err != nil {
			if !cfg.Failsafe {
				return nil, err
			}
			doc.addWarning(Warning{Kind: "preamble", Message: err.Error()})
		}
		doc.codePage = codePage
		sections = readFlatSections(data[6:], locators)
	default:
		// AC18+ paged layouts: the page/section map format implemented by
		// fileheader.go is this module's own design (see DESIGN.md), so this
		// path round-trips files this module wrote but is best-effort against
		// third-party AC18+ files, which use the real (unreproduced) page
		// table wire format.
		helper.Warn("AC18+ paged layout: attempting best-effort section recovery")
		descriptors, warnings, err := parsePagedPreamble(data[6:], cfg.Failsafe)
		if err != nil {
			if !cfg.Failsafe {
				return nil, err
			}
			doc.addWarning(Warning{Kind: "preamble", Message: err.Error()})
			sections = map[string][]byte{}
			break
		}
		for _, w := range warnings {
			doc.addWarning(w)
		}
		sections, err = readPagedSections(descriptors, version.fileLayout())
		if err != nil {
			if !cfg.Failsafe {
				return nil, err
			}
			doc.addWarning(Warning{Kind: "pages", Message: err.Error()})
			sections = map[string][]byte{}
		}
	}

	if raw, ok := sections[sectionClasses]; ok {
		classes, err := decodeClassesSection(raw, f)
		if err != nil {
			if !cfg.Failsafe {
				return nil, err
			}
			doc.addWarning(Warning{Kind: "classes", Message: err.Error()})
		} else {
			doc.Classes = classes
		}
	}

	if raw, ok := sections[sectionHeader]; ok {
		hv, warnings, err := decodeHeaderSection(raw, f)
		if err != nil {
			if !cfg.Failsafe {
				return nil, err
			}
			doc.addWarning(Warning{Kind: "header", Message: err.Error()})
		} else {
			doc.Header = hv
			for _, w := range warnings {
				doc.addWarning(w)
			}
		}
	}

	var entries []objectMapEntry
	if raw, ok := sections[sectionHandles]; ok {
		e, warnings, err := decodeHandlesSection(raw, cfg.Failsafe)
		if err != nil {
			if !cfg.Failsafe {
				return nil, err
			}
			doc.addWarning(Warning{Kind: "handles", Message: err.Error()})
		} else {
			entries = e
			for _, w := range warnings {
				doc.addWarning(w)
			}
		}
	}

	if raw, ok := sections[sectionObjects]; ok {
		objects, warnings, err := decodeObjectsSection(raw, entries, f, doc.Classes, cfg.Failsafe)
		if err != nil {
			return nil, err
		}
		for h, o := range objects {
			if _, isUnknown := o.(*UnknownObject); isUnknown && !cfg.KeepUnknownEntities {
				continue
			}
			doc.Objects[h] = o
			doc.Allocator.Observe(h)
			dispatchIntoTables(doc, o)
		}
		for _, w := range warnings {
			doc.addWarning(w)
		}
	}

	resolveTemplates(doc)

	helper.Debugf("opened %s: %d objects, %d warnings", version, len(doc.Objects), len(doc.Warnings))
	return doc, nil
}

// dispatchIntoTables files a decoded object into the document's typed
// table, mirroring the first bullet of §4.6: "table entries are added
// to their control tables".
func dispatchIntoTables(doc *Document, o Object) {
	switch v := o.(type) {
	case *Layer:
		doc.Layers.Add(v.Name, v)
	case *Linetype:
		doc.Linetypes.Add(v.Name, v)
	case *TextStyle:
		doc.Styles.Add(v.Name, v)
	case *DimStyle:
		doc.DimStyles.Add(v.Name, v)
	case *Viewport:
		doc.Viewports.Add(v.Name, v)
	case *UCSTableEntry:
		doc.UCSs.Add(v.Name, v)
	case *View:
		doc.Views.Add(v.Name, v)
	case *AppID:
		doc.AppIDs.Add(v.Name, v)
	case *BlockRecord:
		doc.BlockRecords.Add(v.Name, v)
	}
}

// Write encodes doc into the DWG on-disk format for doc.Version.
// Version translation is a non-goal (§1): Write always emits the same
// version the Document says it is.
func Write(w io.Writer, doc *Document) error {
	data, err := WriteBytes(doc)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteBytes is Write's in-memory counterpart.
func WriteBytes(doc *Document) ([]byte, error) {
	if !doc.Version.Valid() {
		return nil, ErrUnsupportedVersion
	}
	f := newVerFlags(doc.Version)

	assignWriteHandles(doc)

	objs := orderedObjects(doc)
	objSection, entries, err := encodeObjectsSection(objs, f)
	if err != nil {
		return nil, err
	}

	sections := map[string][]byte{
		sectionHeader:  encodeHeaderSection(doc.Header, f),
		sectionClasses: encodeClassesSection(doc.Classes, f),
		sectionHandles: encodeHandlesSection(entries),
		sectionObjects: objSection,
	}

	var out []byte
	switch doc.Version.fileLayout() {
	case layoutAC15:
		out = append([]byte(doc.Version), buildAC15Preamble(sections, doc.codePage)...)
	default:
		descriptors := writePagedSections(sections, []string{sectionHeader, sectionClasses, sectionHandles, sectionObjects}, doc.Version.fileLayout())
		out = append([]byte(doc.Version), encodePagedPreamble(descriptors)...)
	}

	return out, nil
}

// orderedObjects returns every object in doc in the iteration order
// pinned by §4.6/§5: model space entities, paper space entities, block
// entities, tables, then remaining objects.
func orderedObjects(doc *Document) []Object {
	var out []Object
	seen := make(map[Handle]bool)
	add := func(o Object) {
		h := o.ObjectHandle()
		if seen[h] {
			return
		}
		seen[h] = true
		out = append(out, o)
	}

	if ms, ok := doc.Lookup(doc.Header.ModelSpaceBlock); ok {
		if br, ok := ms.(*BlockRecord); ok {
			add(br)
			for _, e := range doc.Entities[br.Handle] {
				add(e)
			}
		}
	}
	if ps, ok := doc.Lookup(doc.Header.PaperSpaceBlock); ok {
		if br, ok := ps.(*BlockRecord); ok {
			add(br)
			for _, e := range doc.Entities[br.Handle] {
				add(e)
			}
		}
	}
	for _, name := range doc.BlockRecords.Order {
		br := doc.BlockRecords.Entries[name]
		add(br)
		for _, e := range doc.Entities[br.Handle] {
			add(e)
		}
	}
	for _, name := range doc.Layers.Order {
		add(doc.Layers.Entries[name])
	}
	for _, name := range doc.Linetypes.Order {
		add(doc.Linetypes.Entries[name])
	}
	for _, name := range doc.Styles.Order {
		add(doc.Styles.Entries[name])
	}
	for _, name := range doc.DimStyles.Order {
		add(doc.DimStyles.Entries[name])
	}
	for _, name := range doc.Viewports.Order {
		add(doc.Viewports.Entries[name])
	}
	for _, name := range doc.UCSs.Order {
		add(doc.UCSs.Entries[name])
	}
	for _, name := range doc.Views.Order {
		add(doc.Views.Entries[name])
	}
	for _, name := range doc.AppIDs.Order {
		add(doc.AppIDs.Entries[name])
	}
	for _, o := range doc.Objects {
		add(o)
	}
	return out
}
