// Package routegen generates random, well-formed route configurations for
// property tests.
package routegen

import (
	"fmt"
	"math/rand"

	"github.com/leanovate/gopter"

	"github.com/vango-dev/routestate/pkg/routeconfig"
)

// Tree carries a generated root node.
type Tree struct {
	Root routeconfig.Node
}

// String renders the tree as JSON for failure reports.
func (t Tree) String() string {
	data, err := routeconfig.Document{Root: t.Root}.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<unprintable: %v>", err)
	}
	return string(data)
}

var paramTypes = []routeconfig.ParamType{
	routeconfig.TypeString,
	routeconfig.TypeInt,
	routeconfig.TypeUint,
	routeconfig.TypeBool,
}

// Config returns a generator of configurations up to maxDepth levels deep
// whose branches hold at most maxWidth entries.
func Config(maxDepth, maxWidth int) gopter.Gen {
	return func(p *gopter.GenParameters) *gopter.GenResult {
		g := &builder{rng: p.Rng, maxWidth: maxWidth}
		return gopter.NewGenResult(Tree{Root: g.node(maxDepth, true)}, gopter.NoShrinker)
	}
}

type builder struct {
	rng      *rand.Rand
	maxWidth int
	params   int
}

// node builds a branch or param. Param names are globally unique and branch
// keys use a distinct alphabet, so merged state levels never collide.
func (b *builder) node(depth int, allowParam bool) routeconfig.Node {
	if depth <= 0 {
		return routeconfig.B()
	}
	if allowParam && b.rng.Intn(3) == 0 {
		return b.param(depth)
	}
	width := b.rng.Intn(b.maxWidth + 1)
	branch := routeconfig.B()
	for i := 0; i < width; i++ {
		key := fmt.Sprintf("k%d", i)
		var child routeconfig.Node
		switch b.rng.Intn(4) {
		case 0:
			child = nil
		case 1:
			child = b.param(depth - 1)
		default:
			child = b.node(depth-1, true)
		}
		branch = append(branch, routeconfig.E(key, child))
	}
	return branch
}

func (b *builder) param(depth int) *routeconfig.Param {
	b.params++
	name := fmt.Sprintf("p%d", b.params)
	def := routeconfig.ParamDef{
		Required: b.rng.Intn(2) == 0,
		Type:     paramTypes[b.rng.Intn(len(paramTypes))],
	}
	var child routeconfig.Node
	if depth > 1 {
		switch b.rng.Intn(3) {
		case 0:
			child = nil
		case 1:
			child = b.param(depth - 1)
		default:
			child = b.node(depth-1, false)
		}
	}
	return routeconfig.P(name, def, child)
}
