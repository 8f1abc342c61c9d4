package routeconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/vango-dev/routestate/internal/errors"
)

// DecodeJSON parses the persisted JSON form of a route configuration.
// Branch key order is preserved. The result is validated.
func DecodeJSON(data []byte) (Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	d := &jsonDecoder{dec: dec}
	root, err := d.node("")
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("E110").At("/").WithDetail("unexpected data after the root node")
	}
	if root == nil {
		return nil, errors.New("E100").At("/")
	}
	if err := Validate(root); err != nil {
		return nil, err
	}
	return root, nil
}

type jsonDecoder struct {
	dec *json.Decoder
}

func (d *jsonDecoder) token(prefix string) (json.Token, error) {
	tok, err := d.dec.Token()
	if err != nil {
		return nil, errors.New("E110").At(location(prefix)).Wrap(err)
	}
	return tok, nil
}

func (d *jsonDecoder) node(prefix string) (Node, error) {
	tok, err := d.token(prefix)
	if err != nil {
		return nil, err
	}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return d.branch(prefix)
		case '[':
			return d.param(prefix)
		}
	case nil:
		return nil, nil
	}
	return nil, errors.New("E103").
		At(location(prefix)).
		WithDetailf("got %v; want an object, a 3-element array or null", tok)
}

func (d *jsonDecoder) branch(prefix string) (Node, error) {
	b := Branch{}
	for d.dec.More() {
		tok, err := d.token(prefix)
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.New("E110").At(location(prefix))
		}
		child, err := d.node(prefix + "/" + key)
		if err != nil {
			return nil, err
		}
		b = append(b, Entry{Key: key, Node: child})
	}
	if _, err := d.token(prefix); err != nil { // '}'
		return nil, err
	}
	return b, nil
}

func (d *jsonDecoder) param(prefix string) (Node, error) {
	arity := func() error {
		return errors.New("E101").At(location(prefix))
	}

	if !d.dec.More() {
		return nil, arity()
	}
	tok, err := d.token(prefix)
	if err != nil {
		return nil, err
	}
	name, ok := tok.(string)
	if !ok {
		return nil, errors.New("E104").
			At(location(prefix)).
			WithDetailf("param name must be a string, got %v", tok)
	}
	paramPrefix := prefix + "/:" + name

	if !d.dec.More() {
		return nil, arity()
	}
	var rawDef map[string]json.RawMessage
	if err := d.dec.Decode(&rawDef); err != nil || rawDef == nil {
		return nil, errors.New("E102").At(location(paramPrefix)).WithDetail("param definition must be an object")
	}
	def, err := decodeJSONDef(rawDef, paramPrefix)
	if err != nil {
		return nil, err
	}

	if !d.dec.More() {
		return nil, arity()
	}
	child, err := d.node(paramPrefix)
	if err != nil {
		return nil, err
	}
	if d.dec.More() {
		return nil, arity()
	}
	if _, err := d.token(prefix); err != nil { // ']'
		return nil, err
	}
	return &Param{Name: name, Def: def, Child: child}, nil
}

func decodeJSONDef(raw map[string]json.RawMessage, prefix string) (ParamDef, error) {
	var def ParamDef
	req, ok := raw["required"]
	if !ok {
		return def, errors.New("E102").At(location(prefix)).WithDetail(`"required" is missing`)
	}
	if err := json.Unmarshal(req, &def.Required); err != nil {
		return def, errors.New("E102").
			At(location(prefix)).
			WithDetailf(`"required" must be a boolean, got %s`, string(req))
	}
	if typ, ok := raw["type"]; ok {
		var s string
		if err := json.Unmarshal(typ, &s); err != nil {
			return def, errors.New("E106").At(location(prefix)).WithDetailf(`"type" must be a string, got %s`, string(typ))
		}
		def.Type = ParamType(s)
	}
	return def, nil
}

// MarshalJSON encodes the branch as an object, keeping entry order.
func (b Branch) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := marshalNode(e.Node)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON encodes the param as [name, def, child|null].
func (p *Param) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("null"), nil
	}
	child, err := marshalNode(p.Child)
	if err != nil {
		return nil, err
	}
	return json.Marshal([]any{p.Name, p.Def, json.RawMessage(child)})
}

func marshalNode(n Node) ([]byte, error) {
	switch v := n.(type) {
	case nil:
		return []byte("null"), nil
	case Branch:
		return v.MarshalJSON()
	case *Param:
		return v.MarshalJSON()
	}
	return nil, fmt.Errorf("routeconfig: cannot marshal node of type %T", n)
}

// Document wraps a root node for use with encoding/json and yaml.v3.
type Document struct {
	Root Node
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Document) UnmarshalJSON(data []byte) error {
	root, err := DecodeJSON(data)
	if err != nil {
		return err
	}
	d.Root = root
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Document) MarshalJSON() ([]byte, error) {
	return marshalNode(d.Root)
}
