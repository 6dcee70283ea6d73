package dom

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement Kind = iota // <div>, <textarea>, etc.
	KindText                // Plain text node
	KindAnchor              // Invisible region sentinel
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindAnchor:
		return "Anchor"
	default:
		return "Unknown"
	}
}

// HandlerFunc handles a host event dispatched to a node. The value is the
// event's payload, e.g. an input's current text or "true" for a checked
// checkbox.
type HandlerFunc func(value string)

// Node is one node of rendered output.
type Node struct {
	Kind     Kind
	Tag      string                 // Element tag name (e.g. "div")
	Attrs    map[string]string      // Attributes
	Children []*Node                // Child nodes
	Text     string                 // For KindText
	Handlers map[string]HandlerFunc // Event name -> handler
}

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value string
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// EventHandler attaches a host event handler to an element.
type EventHandler struct {
	Event   string // "change", "input", etc.
	Handler HandlerFunc
}

// Dispatch delivers a host event to the node's registered handler.
// Returns false if the node has no handler for the event.
func (n *Node) Dispatch(event, value string) bool {
	if n == nil || n.Handlers == nil {
		return false
	}
	h, ok := n.Handlers[event]
	if !ok {
		return false
	}
	h(value)
	return true
}

// Attr returns the value of an attribute, or "" if unset.
func (n *Node) Attr(key string) string {
	if n == nil || n.Attrs == nil {
		return ""
	}
	return n.Attrs[key]
}

// SetAttr sets an attribute on an element node.
func (n *Node) SetAttr(key, value string) {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[key] = value
}

// Clone returns a deep copy of the node tree. Attributes and children
// are copied; handlers are shared with the original, so dispatching an
// event on a clone reaches the same handler.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{
		Kind:     n.Kind,
		Tag:      n.Tag,
		Text:     n.Text,
		Handlers: n.Handlers,
	}
	if n.Attrs != nil {
		c.Attrs = make(map[string]string, len(n.Attrs))
		for k, v := range n.Attrs {
			c.Attrs[k] = v
		}
	}
	if len(n.Children) > 0 {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return c
}

// TextContent returns the concatenated text of the node and its children.
func (n *Node) TextContent() string {
	if n == nil {
		return ""
	}
	if n.Kind == KindText {
		return n.Text
	}
	out := ""
	for _, c := range n.Children {
		out += c.TextContent()
	}
	return out
}

// Find returns the first descendant element with the given tag, or nil.
func (n *Node) Find(tag string) *Node {
	if n == nil {
		return nil
	}
	if n.Kind == KindElement && n.Tag == tag {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(tag); found != nil {
			return found
		}
	}
	return nil
}
