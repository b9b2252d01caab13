package vdom

// PatchOp is the type of patch operation.
type PatchOp uint8

const (
	PatchSetText         PatchOp = 0x01 // Update text content
	PatchSetAttr         PatchOp = 0x02 // Set/update attribute
	PatchRemoveAttr      PatchOp = 0x03 // Remove attribute
	PatchSetStyleProp    PatchOp = 0x04 // Set one style sub-property
	PatchRemoveStyleProp PatchOp = 0x05 // Remove one style sub-property
	PatchSetValue        PatchOp = 0x06 // Set input value (direct prop)
	PatchSetChecked      PatchOp = 0x07 // Set checked (direct prop)
	PatchSetSelected     PatchOp = 0x08 // Set selected (direct prop)
	PatchSetInnerHTML    PatchOp = 0x09 // Replace inner content wholesale
	PatchAddListener     PatchOp = 0x0A // Register event handler
	PatchRemoveListener  PatchOp = 0x0B // Unregister event handler
	PatchInsertNode      PatchOp = 0x0C // Insert new node
	PatchRemoveNode      PatchOp = 0x0D // Remove node
	PatchMoveNode        PatchOp = 0x0E // Move node to new position
	PatchReplaceNode     PatchOp = 0x0F // Replace node entirely
	PatchReplaceChildren PatchOp = 0x10 // Replace entire child list in bulk
)

// String returns the string representation of the PatchOp.
func (op PatchOp) String() string {
	switch op {
	case PatchSetText:
		return "SetText"
	case PatchSetAttr:
		return "SetAttr"
	case PatchRemoveAttr:
		return "RemoveAttr"
	case PatchSetStyleProp:
		return "SetStyleProp"
	case PatchRemoveStyleProp:
		return "RemoveStyleProp"
	case PatchSetValue:
		return "SetValue"
	case PatchSetChecked:
		return "SetChecked"
	case PatchSetSelected:
		return "SetSelected"
	case PatchSetInnerHTML:
		return "SetInnerHTML"
	case PatchAddListener:
		return "AddListener"
	case PatchRemoveListener:
		return "RemoveListener"
	case PatchInsertNode:
		return "InsertNode"
	case PatchRemoveNode:
		return "RemoveNode"
	case PatchMoveNode:
		return "MoveNode"
	case PatchReplaceNode:
		return "ReplaceNode"
	case PatchReplaceChildren:
		return "ReplaceChildren"
	default:
		return "Unknown"
	}
}

// Patch is a single operation of an edit script. Target and Parent address
// nodes of the previous tree (resolved through their live bindings); Node
// and Nodes carry subtrees of the next tree to materialize.
type Patch struct {
	Op      PatchOp
	Target  *VNode   // Node the op addresses (previous tree)
	Parent  *VNode   // Parent context for insert/move (previous tree)
	Node    *VNode   // New node for InsertNode/ReplaceNode
	Nodes   []*VNode // New child list for ReplaceChildren
	Index   int      // Position in the new child list
	Key     string   // Attribute key, style property, or event name
	Value   string   // New value
	Handler any      // Handler for AddListener
}
