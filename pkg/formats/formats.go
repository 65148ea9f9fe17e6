// Package formats provides readers and writers for the Hostile Waters:
// Antaeus Rising level container formats.
package formats

// Note: LEV (terrain/heightfield container) is implemented in lev.go
// Note: OB3 (object list container) is implemented in ob3.go
// Note: ARS (trigger/script container) is implemented in ars.go
// Note: CFG (level configuration) is implemented in cfg.go
// Note: AIL/AIT (area and text records) are implemented in ail.go and ait.go
// Note: PAT (patrol routes) is implemented in pat.go
// Note: PCX (minimap image) writer is implemented in pcx.go
