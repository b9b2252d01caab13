package errors

// definition is a registered error code.
type definition struct {
	Category Category
	Message  string
}

// registry maps stable codes to their category and default message.
// K2xx diff/patch, K3xx render, K4xx session.
var registry = map[string]definition{
	CodeDiffMalformedNode: {CategoryDiff, "malformed node in virtual tree"},
	CodePatchTargetLost:   {CategoryPatch, "patch target has no live binding"},
	CodePatchBadOp:        {CategoryPatch, "unknown patch operation"},
	CodeRenderFailed:      {CategoryRender, "render produced no tree"},
	CodeSessionClosed:     {CategorySession, "session already closed"},
	CodeSessionProtocol:   {CategorySession, "malformed client message"},
}

const (
	CodeDiffMalformedNode = "K201"
	CodePatchTargetLost   = "K202"
	CodePatchBadOp        = "K203"
	CodeRenderFailed      = "K301"
	CodeSessionClosed     = "K401"
	CodeSessionProtocol   = "K402"
)
