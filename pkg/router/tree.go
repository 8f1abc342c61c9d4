package router

import "strings"

// matchNode is a node of the endpoint match tree.
type matchNode struct {
	// segment is the static segment this node matches.
	segment string

	// template is the endpoint ending at this node, "" if none.
	template string

	children   []*matchNode
	paramChild *matchNode
}

func (n *matchNode) findChild(segment string) *matchNode {
	for _, child := range n.children {
		if child.segment == segment {
			return child
		}
	}
	return nil
}

func (n *matchNode) addChild(segment string) *matchNode {
	if child := n.findChild(segment); child != nil {
		return child
	}
	child := &matchNode{segment: segment}
	n.children = append(n.children, child)
	return child
}

func (n *matchNode) addParamChild() *matchNode {
	if n.paramChild == nil {
		n.paramChild = &matchNode{}
	}
	return n.paramChild
}

// insert adds an endpoint template to the tree.
func (n *matchNode) insert(template string) {
	current := n
	for _, seg := range splitTemplate(template) {
		if strings.HasPrefix(seg, ":") {
			current = current.addParamChild()
		} else {
			current = current.addChild(seg)
		}
	}
	current.template = template
}

// match resolves decoded path segments to an endpoint template. values
// collects the raw segment of every param on the way, in path order.
// Static segments win over params; a failed param branch is backtracked.
func (n *matchNode) match(segments, values []string) (string, []string, bool) {
	if len(segments) == 0 {
		return n.template, values, n.template != ""
	}

	segment, remaining := segments[0], segments[1:]

	if child := n.findChild(segment); child != nil {
		if t, vals, ok := child.match(remaining, values); ok {
			return t, vals, true
		}
	}

	if n.paramChild != nil {
		if t, vals, ok := n.paramChild.match(remaining, append(values, segment)); ok {
			return t, vals, true
		}
	}

	return "", nil, false
}

// splitTemplate splits an endpoint template into its segments.
func splitTemplate(template string) []string {
	template = strings.Trim(template, "/")
	if template == "" {
		return nil
	}
	return strings.Split(template, "/")
}
