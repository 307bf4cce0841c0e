package xmlutil

// Attr is one attribute of an element. Attributes are written in slice order.
type Attr struct {
	Name  string
	Value string
}

// Writer receives XML events.
type Writer interface {
	StartElement(name string, attrs ...Attr) error
	Characters(text string) error
	EndElement(name string) error
	AddEmptyElement(name string, attrs ...Attr) error
}
