// Package host supplies the reflected objects that assetlist browses.
//
// # Overview
//
// The column engine never touches a concrete object model. It consumes the
// Object and Property interfaces declared here and looks fields up through a
// FieldResolver. This package also provides the one concrete host shipped
// with assetlist: a catalog of YAML documents.
//
// # Catalog Layout
//
// A catalog is a directory. Files matching the configured include globs
// (doublestar syntax, default "**/*.yaml" and "**/*.yml") are parsed as either
// asset documents or scene documents.
//
// Asset document:
//
//	type: Enemy
//	name: Goblin
//	enums: { Faction: [Neutral, Horde, Alliance] }
//	fields:
//	  health: 30
//	  faction: !enum Faction.Horde
//	  tint: !color "#ff8800ff"
//	  drops:
//	    - { id: gold, chance: 0.5 }
//
// Scene document:
//
//	scene: Forest
//	entities:
//	  - name: Camp
//	    components:
//	      - type: Spawner
//	        fields: { rate: 2.5 }
//
// Asset objects are persistent and located by their file path. Scene
// objects are located as "scene/entity".
//
// # Kinds
//
// Property kinds come from YAML node tags. Plain scalars map to integer,
// float, boolean and string; sequences are arrays; mappings are generic
// structures; null is an empty object reference. Custom tags select the
// richer kinds:
//
//	!enum Type.Name        enum
//	!flags Type.A|B        flags
//	!color "#rrggbbaa"     color (also [r, g, b, a])
//	!ref Name              object reference
//	!char c                character
//	!vec [x, y, z]         vector
//	!rect {x, y, width, height}
//	!bounds {center, size}
//	!quat [x, y, z, w]     quaternion
//	!curve [[t, v], ...]   curve
//	!gradient, !!binary    stored, never projected
//
// Array properties expose their elements by numeric path segment and their
// length through the "size" pseudo-field.
//
// # Editing
//
// Session is the only way values change. SetText parses text for the
// property's kind and rewrites the backing node, Undo reverts the last edit,
// and Commit re-encodes modified documents with yaml.v3 and replaces each
// file atomically.
package host
