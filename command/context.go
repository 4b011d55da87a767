package command

// Context carries the argument values resolved while matching one command
// line. Values are keyed by the argument node's name; when sibling argument
// nodes share a name, only the matched sibling's value is present.
type Context struct {
	input  string
	values map[string]any
	order  []string
}

func newContext(input string) *Context {
	return &Context{
		input:  input,
		values: make(map[string]any),
	}
}

// Input returns the full command line being executed.
func (c *Context) Input() string {
	return c.input
}

// Get returns the value bound to name and whether it was bound at all.
func (c *Context) Get(name string) (any, bool) {
	v, ok := c.values[name]
	return v, ok
}

// Value returns the value bound to name, or nil when unbound.
func (c *Context) Value(name string) any {
	return c.values[name]
}

// Int returns the named value as an int, or 0 when unbound or not an int.
func (c *Context) Int(name string) int {
	v, _ := c.values[name].(int)
	return v
}

// Float returns the named value as a float64, or 0 when unbound or not a float.
func (c *Context) Float(name string) float64 {
	v, _ := c.values[name].(float64)
	return v
}

// Bool returns the named value as a bool, or false when unbound or not a bool.
func (c *Context) Bool(name string) bool {
	v, _ := c.values[name].(bool)
	return v
}

// Str returns the named value as a string, or "" when unbound or not a string.
func (c *Context) Str(name string) string {
	v, _ := c.values[name].(string)
	return v
}

func (c *Context) set(name string, value any) {
	if _, ok := c.values[name]; !ok {
		c.order = append(c.order, name)
	}
	c.values[name] = value
}

// mark and rewind let the matcher roll back bindings from an abandoned
// sibling branch.
func (c *Context) mark() int {
	return len(c.order)
}

func (c *Context) rewind(mark int) {
	for _, name := range c.order[mark:] {
		delete(c.values, name)
	}
	c.order = c.order[:mark]
}
