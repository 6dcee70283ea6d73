package dom

import "strconv"

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// El creates an element node with the given tag and arguments.
// Arguments can be: nil, Attr, []Attr, EventHandler, *Node, []*Node, or a
// string (appended as a text child). Nil and empty attributes are ignored,
// which allows conditional attributes inline.
func El(tag string, args ...any) *Node {
	node := &Node{
		Kind: KindElement,
		Tag:  tag,
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case Attr:
			if !v.IsEmpty() {
				node.SetAttr(v.Key, v.Value)
			}
		case []Attr:
			for _, a := range v {
				if !a.IsEmpty() {
					node.SetAttr(a.Key, a.Value)
				}
			}
		case EventHandler:
			if node.Handlers == nil {
				node.Handlers = make(map[string]HandlerFunc)
			}
			node.Handlers[v.Event] = v.Handler
		case *Node:
			if v != nil {
				node.Children = append(node.Children, v)
			}
		case []*Node:
			for _, c := range v {
				if c != nil {
					node.Children = append(node.Children, c)
				}
			}
		case string:
			node.Children = append(node.Children, Text(v))
		}
	}

	return node
}

// Text creates a text node.
func Text(content string) *Node {
	return &Node{Kind: KindText, Text: content}
}

// Common element builders.

func Div(args ...any) *Node      { return El("div", args...) }
func Span(args ...any) *Node     { return El("span", args...) }
func P(args ...any) *Node        { return El("p", args...) }
func Ul(args ...any) *Node       { return El("ul", args...) }
func Li(args ...any) *Node       { return El("li", args...) }
func Label(args ...any) *Node    { return El("label", args...) }
func Button(args ...any) *Node   { return El("button", args...) }
func Input(args ...any) *Node    { return El("input", args...) }
func Textarea(args ...any) *Node { return El("textarea", args...) }
func Select(args ...any) *Node   { return El("select", args...) }
func Option(args ...any) *Node   { return El("option", args...) }
func Fieldset(args ...any) *Node { return El("fieldset", args...) }
func Legend(args ...any) *Node   { return El("legend", args...) }
func Form(args ...any) *Node     { return El("form", args...) }

// Attribute constructors.

// AttrOf creates an arbitrary attribute.
func AttrOf(key, value string) Attr { return Attr{Key: key, Value: value} }

func Class(value string) Attr       { return Attr{Key: "class", Value: value} }
func ID(value string) Attr          { return Attr{Key: "id", Value: value} }
func Type(value string) Attr        { return Attr{Key: "type", Value: value} }
func Name(value string) Attr        { return Attr{Key: "name", Value: value} }
func Value(value string) Attr       { return Attr{Key: "value", Value: value} }
func Placeholder(value string) Attr { return Attr{Key: "placeholder", Value: value} }
func For(value string) Attr         { return Attr{Key: "for", Value: value} }
func Rows(n int) Attr               { return Attr{Key: "rows", Value: strconv.Itoa(n)} }
func Cols(n int) Attr               { return Attr{Key: "cols", Value: strconv.Itoa(n)} }

// Boolean attributes carry their own name as a marker value when true
// (HTML treats checked="checked" like bare checked) and are omitted
// entirely when false.

func Disabled(on bool) Attr {
	if !on {
		return Attr{}
	}
	return Attr{Key: "disabled", Value: "disabled"}
}

func Checked(on bool) Attr {
	if !on {
		return Attr{}
	}
	return Attr{Key: "checked", Value: "checked"}
}

func Selected(on bool) Attr {
	if !on {
		return Attr{}
	}
	return Attr{Key: "selected", Value: "selected"}
}

func Required(on bool) Attr {
	if !on {
		return Attr{}
	}
	return Attr{Key: "required", Value: "required"}
}

// On attaches an event handler to an element.
func On(event string, handler HandlerFunc) EventHandler {
	return EventHandler{Event: event, Handler: handler}
}
