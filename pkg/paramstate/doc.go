// Package paramstate builds the param-state tree: the mutable, observable
// mirror of a route configuration that holds the current value of every
// param slot.
//
// The tree shape follows two rules:
//   - a branch key always opens a nested State;
//   - a param adds a slot to the current State, and whatever follows the
//     param (another param or a branch) merges into that same State.
//
// So the configuration
//
//	{utilisateurs: ["utiId", {required: true}, {detail: {}}]}
//
// builds a tree whose snapshot is
//
//	{"utilisateurs": {"utiId": null, "detail": {}}}
//
// and call sites read state.Child("utilisateurs").Value("utiId") without an
// extra level for the param.
//
// The tree is owned by the router that built it. Readers use accessors;
// writes go through slot signals so listeners can observe them.
package paramstate
