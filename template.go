// Copyright 2024 The dwg authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package dwg

// Template resolution (§4.6): a second pass over the freshly parsed
// object arena that materializes the graph's named structure from raw
// handles. Everything in this file runs after every object in a
// section has been decoded by object_codec.go and inserted into
// Document.Objects.

// resolveTemplates wires block-record entity lists, checks dictionary
// entries, and resolves header-variable anchors (table entries are
// filed by dispatchIntoTables before it runs); dangling references become
// warnings plus a documented default, never a hard failure, since by
// the time this pass runs the structural/integrity checks have already
// passed (§4.6, §7).
func resolveTemplates(d *Document) {
	resolveBlockRecordEntities(d)
	resolveDictionaries(d)
	resolveHeaderAnchors(d)
}

// resolveBlockRecordEntities populates Document.Entities by looking up
// each handle in BlockRecord.Entities (§4.6 second bullet). For R2004+
// that list is the record's owned-handle list; pre-R2004,
// readBlockRecord stores only the first and last entity handles of the
// chain, and the prev/next links between them are not walked.
func resolveBlockRecordEntities(d *Document) {
	for _, name := range d.BlockRecords.Order {
		br := d.BlockRecords.Entries[name]
		entities := make([]Entity, 0, len(br.Entities))
		for _, h := range br.Entities {
			obj, ok := d.Lookup(h)
			if !ok {
				d.addWarning(Warning{Handle: h, Kind: "dangling-entity", Message: "block record " + br.Name + " references a missing entity"})
				continue
			}
			ent, ok := obj.(Entity)
			if !ok {
				continue
			}
			entities = append(entities, ent)
		}
		d.Entities[br.Handle] = entities
	}
}

// resolveDictionaries is a no-op structurally (Dictionary.Entries is
// already name->handle), but validates that every entry resolves, so
// a failsafe read's warning list reflects dangling dictionary entries
// too.
func resolveDictionaries(d *Document) {
	for _, obj := range d.Objects {
		dict, ok := obj.(*Dictionary)
		if !ok {
			continue
		}
		for _, name := range dict.Order {
			h := dict.Entries[name]
			if _, ok := d.Lookup(h); !ok {
				d.addWarning(Warning{Handle: h, Kind: "dangling-dictionary-entry", Message: "dictionary entry " + name + " has no matching object"})
			}
		}
	}
}

// resolveHeaderAnchors resolves the header's current-layer/linetype/
// style handles against their tables, reporting a dangling reference
// as a warning and falling back to the documented default (§4.6 last
// bullet: "0" layer, BYLAYER linetype, STANDARD style).
func resolveHeaderAnchors(d *Document) {
	if _, ok := d.Lookup(d.Header.CurrentLayer); d.Header.CurrentLayer != 0 && !ok {
		d.addWarning(Warning{Handle: d.Header.CurrentLayer, Kind: "dangling-header-ref", Message: "current layer not found, defaulting to layer 0"})
		if zero, ok := d.Layers.Get("0"); ok {
			d.Header.CurrentLayer = zero.Handle
		}
	}
	if _, ok := d.Lookup(d.Header.CurrentTextStyle); d.Header.CurrentTextStyle != 0 && !ok {
		d.addWarning(Warning{Handle: d.Header.CurrentTextStyle, Kind: "dangling-header-ref", Message: "current text style not found, defaulting to STANDARD"})
		if std, ok := d.Styles.Get("STANDARD"); ok {
			d.Header.CurrentTextStyle = std.Handle
		}
	}
	if _, ok := d.Lookup(d.Header.CurrentLinetype); d.Header.CurrentLinetype != 0 && !ok {
		d.addWarning(Warning{Handle: d.Header.CurrentLinetype, Kind: "dangling-header-ref", Message: "current linetype not found, defaulting to BYLAYER"})
		if bl, ok := d.Linetypes.Get("BYLAYER"); ok {
			d.Header.CurrentLinetype = bl.Handle
		}
	}
}

// assignWriteHandles passes every non-zero handle found on the
// document's block records, their entities, table entries and objects
// to Allocator.Observe, so handles the allocator hands out later do
// not collide with them. It does not assign a handle to an object whose
// handle is 0, and it walks Go maps, so its visiting order is not
// fixed. Called by Write before the object encoder runs.
func assignWriteHandles(d *Document) {
	assign := func(o Object) {
		if o.ObjectHandle() != 0 {
			d.Allocator.Observe(o.ObjectHandle())
		}
	}
	for _, br := range d.BlockRecords.Entries {
		assign(br)
		for _, h := range br.Entities {
			if obj, ok := d.Lookup(h); ok {
				assign(obj)
			}
		}
	}
	for _, l := range d.Layers.Entries {
		assign(l)
	}
	for _, lt := range d.Linetypes.Entries {
		assign(lt)
	}
	for _, s := range d.Styles.Entries {
		assign(s)
	}
	for _, ds := range d.DimStyles.Entries {
		assign(ds)
	}
	for _, vp := range d.Viewports.Entries {
		assign(vp)
	}
	for _, u := range d.UCSs.Entries {
		assign(u)
	}
	for _, v := range d.Views.Entries {
		assign(v)
	}
	for _, a := range d.AppIDs.Entries {
		assign(a)
	}
	for _, obj := range d.Objects {
		assign(obj)
	}
}
