package core

// Context is per-session conversational state carried across turns. It is
// mutated only through Get/Set/Clear; the orchestrator hands skills a working
// copy and commits it back only when execution succeeds.
type Context struct {
	SessionID string
	values    map[string]string
}

func NewContext(sessionID string) *Context {
	return &Context{
		SessionID: sessionID,
		values:    make(map[string]string),
	}
}

func (c *Context) Get(key string) (string, bool) {
	v, ok := c.values[key]
	return v, ok
}

func (c *Context) Set(key, value string) {
	c.values[key] = value
}

func (c *Context) Delete(key string) {
	delete(c.values, key)
}

func (c *Context) Clear() {
	c.values = make(map[string]string)
}

func (c *Context) Len() int {
	return len(c.values)
}

// Clone returns a deep copy sharing nothing with the receiver.
func (c *Context) Clone() *Context {
	cp := NewContext(c.SessionID)
	for k, v := range c.values {
		cp.values[k] = v
	}
	return cp
}
