// Package model holds the shared value types describing placeable things.
package model

// Team mirrors the game's team numbering.
type Team uint32

const (
	TeamPlayer  Team = 0
	TeamEnemy   Team = 1
	TeamNeutral Team = 0xFFFFFFFF
)

// ObjectContainer describes a single placeable object. For template members,
// the Template*Offset fields position it relative to the template anchor.
type ObjectContainer struct {
	ObjectType      string
	Team            Team
	RequiredRadius  float64
	YOffset         float64
	YRotation       float64
	AttachmentType  string
	TemplateXOffset float64
	TemplateYOffset float64
	TemplateZOffset float64
}

// AnchorRadius implements Placeable.
func (c ObjectContainer) AnchorRadius() float64 { return c.RequiredRadius }

// ObjectTemplate is a fixed-offset cluster of objects. Element 0 is the
// anchor: it is placed via search and every other member is offset from it,
// never searched independently.
type ObjectTemplate []ObjectContainer

// AnchorRadius implements Placeable.
func (t ObjectTemplate) AnchorRadius() float64 {
	if len(t) == 0 {
		return 0
	}
	return t[0].RequiredRadius
}

// Placeable is either a single ObjectContainer or an ObjectTemplate. Pools
// sort their draws descending by anchor radius before placement.
type Placeable interface {
	AnchorRadius() float64
}
