package axis

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Registry holds the configured axis set and the live value of every axis.
//
// Every configured name and alias maps to exactly one Config. The live
// value is mutated only by successful Configure calls and by the tick
// executor committing new values.
//
// All public methods are thread-safe. The repository is optional; with a
// nil repository the registry is purely in-memory.
type Registry struct {
	mu      sync.RWMutex
	byName  map[string]*Config
	aliases map[string]string // alias -> canonical name
	repo    Repository
	logger  Logger
}

// NewRegistry creates a new axis registry.
// The repository is used for persistence; pass nil for in-memory only.
func NewRegistry(repo Repository) *Registry {
	return &Registry{
		byName:  make(map[string]*Config),
		aliases: make(map[string]string),
		repo:    repo,
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.mu.Lock()
	r.logger = logger
	r.mu.Unlock()
}

// Load populates the registry from the repository.
// This should be called on application startup.
func (r *Registry) Load(ctx context.Context) error {
	if r.repo == nil {
		return nil
	}

	configs, err := r.repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("loading axes: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.byName = make(map[string]*Config, len(configs))
	r.aliases = make(map[string]string)
	for i := range configs {
		c := configs[i]
		r.byName[c.Name] = &c
		if c.Alias != "" {
			r.aliases[c.Alias] = c.Name
		}
	}

	r.logger.Info("axis set loaded", "count", len(configs))
	return nil
}

// Configure validates and applies an axis configuration.
//
// An omitted Min defaults to 0 (the zero value) and an omitted Max to
// 1: no valid window ends at 0, so a zero Max always means unset.
// Reconfiguring an existing axis preserves its current live value and
// rebinds its alias; an alias already bound to a different axis fails
// with ErrAliasConflict.
func (r *Registry) Configure(ctx context.Context, cfg Config) error {
	// Default limits before validation
	if cfg.Max == 0 {
		cfg.Max = 1
	}
	if cfg.Type == TypeBoolean {
		cfg.Min, cfg.Max = 0, 1
	}

	if err := ValidateConfig(&cfg); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// An alias may not shadow another axis's name or alias.
	if cfg.Alias != "" {
		if _, taken := r.byName[cfg.Alias]; taken {
			return fmt.Errorf("%w: alias %q is another axis's name", ErrAliasConflict, cfg.Alias)
		}
		if bound, taken := r.aliases[cfg.Alias]; taken && bound != cfg.Name {
			return fmt.Errorf("%w: alias %q already bound to axis %q", ErrAliasConflict, cfg.Alias, bound)
		}
	}
	// Nor may a name shadow an existing alias of a different axis.
	if bound, taken := r.aliases[cfg.Name]; taken && bound != cfg.Name {
		return fmt.Errorf("%w: name %q is axis %q's alias", ErrAliasConflict, cfg.Name, bound)
	}

	prior, exists := r.byName[cfg.Name]
	if exists {
		// Preserve the live value across reconfiguration.
		cfg.Value = prior.Value
		if prior.Alias != "" && prior.Alias != cfg.Alias {
			delete(r.aliases, prior.Alias)
		}
	} else {
		cfg.Value = defaultValue(cfg.Type)
	}

	if r.repo != nil {
		if err := r.repo.Save(ctx, cfg); err != nil {
			return fmt.Errorf("persisting axis %q: %w", cfg.Name, err)
		}
	}

	r.byName[cfg.Name] = &cfg
	if cfg.Alias != "" {
		r.aliases[cfg.Alias] = cfg.Name
	}

	r.logger.Info("axis configured", "name", cfg.Name, "type", cfg.Type, "alias", cfg.Alias)
	return nil
}

// Get retrieves an axis by canonical name or alias.
// The returned Config is an immutable snapshot.
func (r *Registry) Get(name string) (Config, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, err := r.lookup(name)
	if err != nil {
		return Config{}, err
	}
	return *c, nil
}

// Resolve maps a name or alias to the canonical axis name.
func (r *Registry) Resolve(name string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, err := r.lookup(name)
	if err != nil {
		return "", err
	}
	return c.Name, nil
}

// lookup resolves name or alias to the live Config. Caller holds r.mu.
func (r *Registry) lookup(name string) (*Config, error) {
	if c, ok := r.byName[name]; ok {
		return c, nil
	}
	if canonical, ok := r.aliases[name]; ok {
		return r.byName[canonical], nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// UpdateLimits changes the output bounds of an axis.
//
// Both bounds must lie in [0,1] and differ; they are stored ordered, so
// callers may pass them in either order.
func (r *Registry) UpdateLimits(ctx context.Context, name string, lo, hi float64) error {
	if err := ValidateLimits(lo, hi); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c, err := r.lookup(name)
	if err != nil {
		return err
	}

	updated := *c
	updated.Min = math.Min(lo, hi)
	updated.Max = math.Max(lo, hi)

	if r.repo != nil {
		if err := r.repo.Save(ctx, updated); err != nil {
			return fmt.Errorf("persisting axis %q: %w", c.Name, err)
		}
	}

	*c = updated
	r.logger.Info("axis limits updated", "name", c.Name, "min", c.Min, "max", c.Max)
	return nil
}

// SetValue commits a new live value for an axis.
// Called by the tick executor after a successful write.
func (r *Registry) SetValue(name string, v Value) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, err := r.lookup(name)
	if err != nil {
		return err
	}
	c.Value = v
	return nil
}

// List returns snapshots of all configured axes, ordered by name.
func (r *Registry) List() []Config {
	r.mu.RLock()
	defer r.mu.RUnlock()

	configs := make([]Config, 0, len(r.byName))
	for _, c := range r.byName {
		configs = append(configs, *c)
	}
	sort.Slice(configs, func(i, j int) bool { return configs[i].Name < configs[j].Name })
	return configs
}

// ListByTypes returns snapshots of all axes matching any of the given types.
func (r *Registry) ListByTypes(types ...Type) []Config {
	wanted := make(map[Type]struct{}, len(types))
	for _, t := range types {
		wanted[t] = struct{}{}
	}

	var configs []Config
	for _, c := range r.List() {
		if _, ok := wanted[c.Type]; ok {
			configs = append(configs, c)
		}
	}
	return configs
}

// Count returns the number of configured axes.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}

// FlushValues persists the live value of every axis.
// Called after movement completion and on shutdown.
func (r *Registry) FlushValues(ctx context.Context) error {
	if r.repo == nil {
		return nil
	}

	for _, c := range r.List() {
		if err := r.repo.SaveValue(ctx, c.Name, c.Value); err != nil {
			return fmt.Errorf("persisting value of axis %q: %w", c.Name, err)
		}
	}
	return nil
}
