package formskema

import (
	"log/slog"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/reoring/formskema/dataset"
	"github.com/reoring/formskema/definition"
	"github.com/reoring/formskema/explode"
	"github.com/reoring/formskema/expression"
	"github.com/reoring/formskema/i18n"
	"github.com/reoring/formskema/internal/logging"
	"github.com/reoring/formskema/result"
	"github.com/reoring/formskema/schema"
	"github.com/reoring/formskema/validate"
)

// Strategy selects how combinators are evaluated.
type Strategy int

const (
	// StrategyDirect validates against the combinator tree itself and
	// interprets the grouped result.
	StrategyDirect Strategy = iota
	// StrategyExpand explodes the schema into combinator-free variants
	// first. The data is valid when any variant accepts it. It does not
	// support oneOf.
	StrategyExpand
)

func (s Strategy) String() string {
	if s == StrategyExpand {
		return "expand"
	}
	return "direct"
}

// ParseStrategy maps "direct" and "expand" to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(name) {
	case "", "direct":
		return StrategyDirect, nil
	case "expand":
		return StrategyExpand, nil
	}
	return 0, errors.Newf("formskema: unknown strategy %q", name)
}

type options struct {
	strategy Strategy
	ev       expression.Evaluator
	tr       i18n.Translator
	logger   *slog.Logger
	limit    int
}

// Option configures Compile.
type Option func(*options)

// WithStrategy selects the evaluation strategy (StrategyDirect by default).
func WithStrategy(s Strategy) Option { return func(o *options) { o.strategy = s } }

// WithEvaluator replaces the expression evaluator.
func WithEvaluator(ev expression.Evaluator) Option { return func(o *options) { o.ev = ev } }

// WithTranslator sets the message translator; the process-wide one is used
// otherwise.
func WithTranslator(tr i18n.Translator) Option { return func(o *options) { o.tr = tr } }

// WithLogger sets the logger for debug output. Nothing is logged by default.
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// WithVariantLimit bounds the number of variants StrategyExpand may produce.
// Zero means unbounded.
func WithVariantLimit(n int) Option { return func(o *options) { o.limit = n } }

// Compiled is a parsed schema ready for validation. It is safe for
// concurrent use.
type Compiled struct {
	def      *definition.Definition
	root     *schema.Schema
	variants []*schema.Schema
	exploded bool
	strategy Strategy
	v        *validate.Validator
	logger   *slog.Logger
}

// Compile parses def. With StrategyExpand the schema is exploded here, so
// oneOf and variant-limit errors surface at compile time.
func Compile(def *definition.Definition, opts ...Option) (*Compiled, error) {
	o := options{logger: logging.NewDiscard()}
	for _, opt := range opts {
		opt(&o)
	}
	if def == nil {
		return nil, errors.Mark(errors.New("formskema: nil definition"), ErrInvalidSchema)
	}

	root, err := schema.Parse(def)
	if err != nil {
		return nil, err
	}
	c := &Compiled{
		def:      def,
		root:     root,
		strategy: o.strategy,
		v:        validate.New(validate.WithEvaluator(o.ev), validate.WithTranslator(o.tr)),
		logger:   o.logger,
	}

	if o.strategy == StrategyExpand {
		res, err := explode.Explode(def, explode.WithLimit(o.limit))
		if err != nil {
			return nil, err
		}
		if c.variants, err = res.Schemas(); err != nil {
			return nil, err
		}
		c.exploded = res.Exploded
	}
	c.logger.Debug("compiled schema",
		"strategy", o.strategy.String(),
		"variants", len(c.variants),
		"exploded", c.exploded)
	return c, nil
}

// CompileMap compiles a schema given as Go literals.
func CompileMap(m map[string]any, opts ...Option) (*Compiled, error) {
	return Compile(definition.FromMap(m), opts...)
}

// Load reads a JSON or YAML schema file and compiles it.
func Load(path string, opts ...Option) (*Compiled, error) {
	def, err := definition.Load(path)
	if err != nil {
		return nil, err
	}
	return Compile(def, opts...)
}

// Definition returns the source definition.
func (c *Compiled) Definition() *definition.Definition { return c.def }

// Schema returns the parsed root schema.
func (c *Compiled) Schema() *schema.Schema { return c.root }

// Variants returns the exploded variants (StrategyExpand only).
func (c *Compiled) Variants() []*schema.Schema { return c.variants }

// Strategy reports the evaluation strategy.
func (c *Compiled) Strategy() Strategy { return c.strategy }

// Validate checks data, a decoded JSON/YAML document or a dataset.Dataset.
func (c *Compiled) Validate(data any) *Report {
	ds := toDataset(data)

	var raw result.Node
	if c.strategy == StrategyExpand {
		raw = c.expanded(ds)
	} else {
		raw = c.v.ValidateAll(c.root, ds, validate.Failures)
	}

	r := newReport(raw)
	c.logger.Debug("validated", "strategy", c.strategy.String(), "valid", r.Valid(), "issues", len(r.Issues()))
	return r
}

// expanded validates every variant. One accepting variant makes the data
// valid; otherwise the variants' failures are reported as alternatives of an
// anyOf so that interpretation unions their messages per field.
func (c *Compiled) expanded(ds dataset.Dataset) result.Node {
	results := make([]result.Node, 0, len(c.variants))
	for i, variant := range c.variants {
		r := c.v.ValidateAll(variant, ds, validate.Failures)
		if r == nil {
			c.logger.Debug("variant accepted", "variant", i)
			return nil
		}
		results = append(results, r)
	}
	if !c.exploded && len(results) == 1 {
		return results[0]
	}
	return &result.Combined{Clauses: []result.Clause{{Kind: schema.AnyOf, Results: results}}}
}

// DefaultValue builds the default document for the schema.
func (c *Compiled) DefaultValue() any { return c.root.DefaultValue() }

// Derive evaluates the derived (type expression) fields against data and
// returns them keyed by dotted path.
func (c *Compiled) Derive(data any) map[string]any {
	return c.v.Derive(c.root, toDataset(data))
}

func toDataset(data any) dataset.Dataset {
	if ds, ok := data.(dataset.Dataset); ok {
		return ds
	}
	return dataset.New(data)
}
