package model

// Column is a single column assignment of an insert or update.
type Column struct {
	Name  string
	Value any
}

// Writable is implemented by insert and update shapes.
// Columns must be returned in a stable order.
type Writable interface {
	Columns() []Column
}
