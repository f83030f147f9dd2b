package postgres

import (
	"strconv"
	"strings"
)

// builder accumulates SQL text and its positional arguments.
type builder struct {
	sb   strings.Builder
	args []any
}

func (b *builder) write(parts ...string) *builder {
	for _, p := range parts {
		b.sb.WriteString(p)
	}
	return b
}

// arg registers v and returns its placeholder.
func (b *builder) arg(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

func (b *builder) String() string {
	return b.sb.String()
}
