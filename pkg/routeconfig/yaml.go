package routeconfig

import (
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/routestate/internal/errors"
)

// DecodeYAML parses the YAML form of a route configuration: mappings are
// branches, 3-element sequences are params, null is an undefined entry.
func DecodeYAML(data []byte) (Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.New("E110").At("/").Wrap(err)
	}
	root, err := yamlNode(&doc, "")
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, errors.New("E100").At("/")
	}
	if err := Validate(root); err != nil {
		return nil, err
	}
	return root, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Document) UnmarshalYAML(value *yaml.Node) error {
	root, err := yamlNode(value, "")
	if err != nil {
		return err
	}
	if root == nil {
		return errors.New("E100").At("/")
	}
	if err := Validate(root); err != nil {
		return err
	}
	d.Root = root
	return nil
}

func yamlNode(n *yaml.Node, prefix string) (Node, error) {
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return yamlNode(n.Content[0], prefix)
	case yaml.AliasNode:
		return yamlNode(n.Alias, prefix)
	case yaml.MappingNode:
		b := Branch{}
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			child, err := yamlNode(n.Content[i+1], prefix+"/"+key)
			if err != nil {
				return nil, err
			}
			b = append(b, Entry{Key: key, Node: child})
		}
		return b, nil
	case yaml.SequenceNode:
		return yamlParam(n, prefix)
	case yaml.ScalarNode:
		if n.ShortTag() == "!!null" {
			return nil, nil
		}
	}
	return nil, errors.New("E103").
		At(location(prefix)).
		WithDetailf("line %d: want a mapping, a 3-element sequence or null", n.Line)
}

func yamlParam(n *yaml.Node, prefix string) (Node, error) {
	if len(n.Content) != 3 {
		return nil, errors.New("E101").
			At(location(prefix)).
			WithDetailf("line %d: param has %d elements", n.Line, len(n.Content))
	}
	nameNode := n.Content[0]
	if nameNode.Kind != yaml.ScalarNode || nameNode.ShortTag() != "!!str" {
		return nil, errors.New("E104").
			At(location(prefix)).
			WithDetailf("line %d: param name must be a string", nameNode.Line)
	}
	name := nameNode.Value
	paramPrefix := prefix + "/:" + name

	def, err := yamlDef(n.Content[1], paramPrefix)
	if err != nil {
		return nil, err
	}
	child, err := yamlNode(n.Content[2], paramPrefix)
	if err != nil {
		return nil, err
	}
	return &Param{Name: name, Def: def, Child: child}, nil
}

func yamlDef(n *yaml.Node, prefix string) (ParamDef, error) {
	var def ParamDef
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	if n.Kind != yaml.MappingNode {
		return def, errors.New("E102").
			At(location(prefix)).
			WithDetailf("line %d: param definition must be a mapping", n.Line)
	}
	sawRequired := false
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i].Value, n.Content[i+1]
		switch key {
		case "required":
			if val.Kind != yaml.ScalarNode || val.ShortTag() != "!!bool" {
				return def, errors.New("E102").
					At(location(prefix)).
					WithDetailf("line %d: \"required\" must be a boolean, got %q", val.Line, val.Value)
			}
			if err := val.Decode(&def.Required); err != nil {
				return def, errors.New("E102").At(location(prefix)).Wrap(err)
			}
			sawRequired = true
		case "type":
			if val.Kind != yaml.ScalarNode {
				return def, errors.New("E106").At(location(prefix))
			}
			def.Type = ParamType(val.Value)
		}
	}
	if !sawRequired {
		return def, errors.New("E102").At(location(prefix)).WithDetail(`"required" is missing`)
	}
	return def, nil
}
