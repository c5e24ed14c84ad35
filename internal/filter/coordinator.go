package filter

import "sync"

// Coordinator reconciles the three layers of cross-chart selection
// state: an optional global filter, per-chart local filters, and a
// transient hover highlight. It lives for the lifetime of a dashboard
// view and is safe for concurrent request handlers.
//
// Precedence: an active global filter wins over every local token; a
// chart that was never filtered is effectively on the all token; hover
// never affects committed selection.
type Coordinator struct {
	mu           sync.Mutex
	globalActive bool
	globalToken  Token
	perChart     map[string]Token
	hovered      *Token
}

// State is a read-only snapshot of the coordinator, shaped for JSON.
type State struct {
	GlobalActive bool              `json:"globalActive"`
	GlobalToken  string            `json:"globalToken"`
	PerChart     map[string]string `json:"perChart"`
	Hovered      *string           `json:"hovered"`
}

// NewCoordinator returns a coordinator in its initial state: no filter
// active, every chart on the all token, no hover.
func NewCoordinator() *Coordinator {
	return &Coordinator{
		globalToken: All(),
		perChart:    make(map[string]Token),
	}
}

// GlobalFilter applies a global filter click: global mode turns on and
// every chart's local token is overwritten, so the selection reads the
// same on every chart.
func (c *Coordinator) GlobalFilter(t Token) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.globalActive = true
	c.globalToken = t
	for id := range c.perChart {
		c.perChart[id] = t
	}
}

// ChartFilter applies a per-chart filter click. Touching a single
// chart implicitly exits global mode; other charts keep whatever local
// token they last had.
func (c *Coordinator) ChartFilter(chartID string, t Token) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.globalActive = false
	c.perChart[chartID] = t
}

// HoverEnter sets the transient highlight token. Purely cosmetic:
// committed filters are untouched.
func (c *Coordinator) HoverEnter(t Token) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hovered = &t
}

// HoverLeave clears the highlight.
func (c *Coordinator) HoverLeave() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hovered = nil
}

// Effective resolves the token a chart should filter by right now.
func (c *Coordinator) Effective(chartID string) Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.globalActive {
		return c.globalToken
	}
	if t, ok := c.perChart[chartID]; ok {
		return t
	}
	return All()
}

// Hovered returns the current highlight token, if any.
func (c *Coordinator) Hovered() (Token, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hovered == nil {
		return Token{}, false
	}
	return *c.hovered, true
}

// Snapshot captures the full state for the API and for shareable URLs.
func (c *Coordinator) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := State{
		GlobalActive: c.globalActive,
		GlobalToken:  c.globalToken.String(),
		PerChart:     make(map[string]string, len(c.perChart)),
	}
	for id, t := range c.perChart {
		s.PerChart[id] = t.String()
	}
	if c.hovered != nil {
		h := c.hovered.String()
		s.Hovered = &h
	}
	return s
}
