package catalog

import (
	"fmt"
	"strings"
	"time"
)

// BaseModuleKey is the always-selected minimum plan. It cannot be deleted,
// hidden, or deselected; its per-module price is carried by the catalog's
// base price per aircraft, not by a module row.
const BaseModuleKey = "basicMaintenance"

// DefaultBasePriceCents is the per-aircraft monthly base price.
const DefaultBasePriceCents int64 = 500000

// Sentinel errors for catalog mutations.
var (
	ErrModuleNotFound      = fmt.Errorf("module not found")
	ErrModuleExists        = fmt.Errorf("module already exists")
	ErrBaseModuleImmutable = fmt.Errorf("the base module cannot be modified this way")
)

// Module is a named, independently priced add-on line in the pricing catalog.
type Module struct {
	key        string
	label      string
	priceCents int64
	visible    bool
}

// NewModule creates a module entity. Keys are trimmed; labels must be non-empty.
func NewModule(key, label string, priceCents int64, visible bool) (*Module, error) {
	key = strings.TrimSpace(key)
	label = strings.TrimSpace(label)
	if key == "" {
		return nil, fmt.Errorf("module key is required")
	}
	if label == "" {
		return nil, fmt.Errorf("module label is required")
	}
	if priceCents < 0 {
		return nil, fmt.Errorf("module price cannot be negative")
	}
	return &Module{key: key, label: label, priceCents: priceCents, visible: visible}, nil
}

func (m *Module) Key() string       { return m.key }
func (m *Module) Label() string     { return m.label }
func (m *Module) PriceCents() int64 { return m.priceCents }
func (m *Module) Visible() bool     { return m.visible }

// Catalog is the aggregate root for the pricing configuration: the base price
// per aircraft plus every module's price, label, visibility, and display order.
// The four facets of a module always exist together; mutations keep them
// consistent so they can be persisted as one atomic write.
type Catalog struct {
	basePriceCents int64
	modules        map[string]*Module
	order          []string
	updatedAt      time.Time
}

// New creates an empty catalog containing only the base module.
func New(basePriceCents int64) (*Catalog, error) {
	if basePriceCents < 0 {
		return nil, fmt.Errorf("base price cannot be negative")
	}
	base, err := NewModule(BaseModuleKey, "Basic Maintenance Scheduling", 0, true)
	if err != nil {
		return nil, err
	}
	return &Catalog{
		basePriceCents: basePriceCents,
		modules:        map[string]*Module{BaseModuleKey: base},
		order:          []string{BaseModuleKey},
		updatedAt:      time.Now().UTC(),
	}, nil
}

// Default returns the catalog seeded with the standard product modules.
func Default() *Catalog {
	c, _ := New(DefaultBasePriceCents)
	seed := []struct {
		key, label string
		priceCents int64
	}{
		{"predictiveAnalytics", "AI Predictive Analytics", 25000},
		{"realTimeMonitoring", "Real-time Fleet Monitoring", 35000},
		{"advancedReporting", "Advanced Reporting & Analytics", 20000},
		{"apiIntegrations", "API Integrations", 30000},
		{"prioritySupport", "Priority Support", 15000},
		{"training", "Training & Onboarding", 40000},
		{"customIntegrations", "Custom Integrations", 75000},
		{"dedicatedManager", "Dedicated Account Manager", 100000},
		{"premiumSupport", "24/7 Premium Support", 50000},
	}
	for _, s := range seed {
		_ = c.AddModule(s.key, s.label, s.priceCents)
	}
	return c
}

// Reconstruct rebuilds a Catalog from persistence. Modules are given in
// display order. A missing base module is restored defensively.
func Reconstruct(basePriceCents int64, modules []*Module, updatedAt time.Time) *Catalog {
	c := &Catalog{
		basePriceCents: basePriceCents,
		modules:        make(map[string]*Module, len(modules)),
		order:          make([]string, 0, len(modules)),
		updatedAt:      updatedAt,
	}
	for _, m := range modules {
		c.modules[m.key] = m
		c.order = append(c.order, m.key)
	}
	if _, ok := c.modules[BaseModuleKey]; !ok {
		base, _ := NewModule(BaseModuleKey, "Basic Maintenance Scheduling", 0, true)
		c.modules[BaseModuleKey] = base
		c.order = append([]string{BaseModuleKey}, c.order...)
	}
	return c
}

// Clone returns a deep copy of the catalog. Writers work on the copy so a
// failed or partial mutation never reaches an aggregate readers hold.
func (c *Catalog) Clone() *Catalog {
	out := &Catalog{
		basePriceCents: c.basePriceCents,
		modules:        make(map[string]*Module, len(c.modules)),
		order:          make([]string, len(c.order)),
		updatedAt:      c.updatedAt,
	}
	copy(out.order, c.order)
	for key, m := range c.modules {
		cp := *m
		out.modules[key] = &cp
	}
	return out
}

// BasePriceCents returns the per-aircraft monthly base price.
func (c *Catalog) BasePriceCents() int64 { return c.basePriceCents }

// UpdatedAt returns the last mutation time.
func (c *Catalog) UpdatedAt() time.Time { return c.updatedAt }

// Order returns the module keys in display order.
func (c *Catalog) Order() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Module returns the module for key, if present.
func (c *Catalog) Module(key string) (*Module, bool) {
	m, ok := c.modules[key]
	return m, ok
}

// Modules returns all modules in display order.
func (c *Catalog) Modules() []*Module {
	out := make([]*Module, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.modules[key])
	}
	return out
}

// VisibleModules returns visible modules in display order.
func (c *Catalog) VisibleModules() []*Module {
	out := make([]*Module, 0, len(c.order))
	for _, key := range c.order {
		if m := c.modules[key]; m.visible {
			out = append(out, m)
		}
	}
	return out
}

// SetBasePrice updates the per-aircraft base price.
func (c *Catalog) SetBasePrice(cents int64) error {
	if cents < 0 {
		return fmt.Errorf("base price cannot be negative")
	}
	c.basePriceCents = cents
	c.touch()
	return nil
}

// AddModule appends a new module to the end of the display order.
func (c *Catalog) AddModule(key, label string, priceCents int64) error {
	m, err := NewModule(key, label, priceCents, true)
	if err != nil {
		return err
	}
	if _, exists := c.modules[m.key]; exists {
		return ErrModuleExists
	}
	c.modules[m.key] = m
	c.order = append(c.order, m.key)
	c.touch()
	return nil
}

// SetPrice updates a module's per-aircraft price. The base module's price is
// fixed at zero; its cost is the catalog base price.
func (c *Catalog) SetPrice(key string, cents int64) error {
	if key == BaseModuleKey {
		return ErrBaseModuleImmutable
	}
	m, ok := c.modules[key]
	if !ok {
		return ErrModuleNotFound
	}
	if cents < 0 {
		return fmt.Errorf("module price cannot be negative")
	}
	m.priceCents = cents
	c.touch()
	return nil
}

// SetLabel updates a module's display label.
func (c *Catalog) SetLabel(key, label string) error {
	m, ok := c.modules[key]
	if !ok {
		return ErrModuleNotFound
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return fmt.Errorf("module label is required")
	}
	m.label = label
	c.touch()
	return nil
}

// SetVisibility shows or hides a module. The base module is always visible.
func (c *Catalog) SetVisibility(key string, visible bool) error {
	if key == BaseModuleKey && !visible {
		return ErrBaseModuleImmutable
	}
	m, ok := c.modules[key]
	if !ok {
		return ErrModuleNotFound
	}
	m.visible = visible
	c.touch()
	return nil
}

// DeleteModule removes a module from prices, labels, visibility, and order
// together. Deleting an absent module is a no-op; the base module cannot be
// deleted.
func (c *Catalog) DeleteModule(key string) error {
	if key == BaseModuleKey {
		return ErrBaseModuleImmutable
	}
	if _, ok := c.modules[key]; !ok {
		return nil
	}
	delete(c.modules, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.touch()
	return nil
}

// MoveUp swaps the module with its predecessor in the display order.
// Already-first is a no-op.
func (c *Catalog) MoveUp(key string) error {
	idx := c.indexOf(key)
	if idx < 0 {
		return ErrModuleNotFound
	}
	if idx == 0 {
		return nil
	}
	c.order[idx-1], c.order[idx] = c.order[idx], c.order[idx-1]
	c.touch()
	return nil
}

// MoveDown swaps the module with its successor in the display order.
// Already-last is a no-op.
func (c *Catalog) MoveDown(key string) error {
	idx := c.indexOf(key)
	if idx < 0 {
		return ErrModuleNotFound
	}
	if idx == len(c.order)-1 {
		return nil
	}
	c.order[idx], c.order[idx+1] = c.order[idx+1], c.order[idx]
	c.touch()
	return nil
}

// NormalizeSelection returns the selection restricted to selectable module
// keys, with the base module always included. Unknown and hidden keys are
// dropped rather than rejected.
func (c *Catalog) NormalizeSelection(keys []string) []string {
	seen := map[string]bool{BaseModuleKey: true}
	out := []string{BaseModuleKey}
	for _, key := range keys {
		if seen[key] {
			continue
		}
		m, ok := c.modules[key]
		if !ok || !m.visible {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	return out
}

func (c *Catalog) indexOf(key string) int {
	for i, k := range c.order {
		if k == key {
			return i
		}
	}
	return -1
}

func (c *Catalog) touch() { c.updatedAt = time.Now().UTC() }
