package presence

import (
	"reflect"
	"strings"
)

// Struct tags read by the planner.
const (
	tagCodec       = "codec"
	tagCodecValue  = "presence"
	tagReceiveHash = "receive.hash"
)

// typePlan describes how the serializer walks one type.
type typePlan struct {
	typ reflect.Type

	// walk is false when no Field appears anywhere beneath typ; such values
	// are handed to the format library whole.
	walk bool

	// codec is set for Field types.
	codec FieldCodec

	// fields is set for structs.
	fields []fieldPlan

	// path is the first field path that reached typ.
	path string
}

// fieldPlan describes one struct member.
type fieldPlan struct {
	index     []int
	name      string // Go path for error messages
	key       string // document key
	omitEmpty bool
	codec     FieldCodec // set for Field members
}

// planner builds plans for every type reachable from a root type.
// Plans are immutable once the planner returns.
type planner struct {
	opts  *Options
	tag   string
	plans map[reflect.Type]*typePlan
}

func newPlanner(opts *Options, tag string) *planner {
	return &planner{
		opts:  opts,
		tag:   tag,
		plans: make(map[reflect.Type]*typePlan),
	}
}

// plan returns the plan for t, building it if needed.
func (p *planner) plan(t reflect.Type, path string) (*typePlan, error) {
	if tp, ok := p.plans[t]; ok {
		return tp, nil
	}

	// Recursive types see themselves as delegated while in construction;
	// resolve settles the flag once the whole graph is known.
	tp := &typePlan{typ: t, path: path}
	p.plans[t] = tp

	if err := p.build(tp, path); err != nil {
		delete(p.plans, t)
		return nil, err
	}
	tp.walk = p.walks(tp)
	return tp, nil
}

// planRoot plans t and everything reachable from it, then settles the walk
// flags of recursive types.
func (p *planner) planRoot(t reflect.Type) (*typePlan, error) {
	root, err := p.plan(t, "")
	if err != nil {
		return nil, err
	}
	if err := p.resolve(); err != nil {
		return nil, err
	}
	return root, nil
}

func (p *planner) build(tp *typePlan, path string) error {
	t := tp.typ

	if isField(t) {
		codec, err := p.opts.Lookup(t)
		if err != nil {
			return err
		}
		if codec == nil {
			return newConfigError(ErrNoCodec, t.String(), path)
		}
		tp.codec = codec
		_, err = p.plan(codec.Inner(), path)
		return err
	}

	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Map:
		_, err := p.plan(t.Elem(), path)
		return err

	case reflect.Struct:
		fields, err := p.structFields(t, nil, path)
		if err != nil {
			return err
		}
		tp.fields = fields
	}
	return nil
}

// walks reports whether tp needs walking given the current flags of the
// types beneath it.
func (p *planner) walks(tp *typePlan) bool {
	if tp.codec != nil {
		return true
	}
	switch tp.typ.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Map:
		return p.plans[tp.typ.Elem()].walk
	case reflect.Struct:
		for _, fp := range tp.fields {
			if fp.codec != nil || p.plans[tp.typ.FieldByIndex(fp.index).Type].walk {
				return true
			}
		}
	}
	return false
}

// resolve propagates walk flags until no plan changes, then rejects walked
// maps without string keys. Flags only move from false to true, so the loop
// terminates.
func (p *planner) resolve() error {
	for changed := true; changed; {
		changed = false
		for _, tp := range p.plans {
			if !tp.walk && p.walks(tp) {
				tp.walk = true
				changed = true
			}
		}
	}

	for t, tp := range p.plans {
		if tp.walk && t.Kind() == reflect.Map && t.Key().Kind() != reflect.String {
			return newConfigError(ErrUnsupportedType, t.String(), tp.path)
		}
	}
	return nil
}

// structFields collects the members of t, flattening embedded structs.
func (p *planner) structFields(t reflect.Type, parent []int, path string) ([]fieldPlan, error) {
	var fields []fieldPlan

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		index := append(append([]int{}, parent...), i)

		key, omitEmpty, hasOpts := parseKey(sf.Tag.Get(p.tag))
		if key == "-" && !hasOpts {
			continue
		}

		if sf.Anonymous && key == "" && sf.Type.Kind() == reflect.Struct && !isField(sf.Type) {
			nested, err := p.structFields(sf.Type, index, path)
			if err != nil {
				return nil, err
			}
			fields = append(fields, nested...)
			continue
		}

		if !sf.IsExported() {
			continue
		}

		fieldPath := sf.Name
		if path != "" {
			fieldPath = path + "." + sf.Name
		}
		if key == "" {
			key = sf.Name
		}

		fp := fieldPlan{
			index:     index,
			name:      fieldPath,
			key:       key,
			omitEmpty: omitEmpty,
		}

		if val, ok := sf.Tag.Lookup(tagCodec); ok {
			codec, err := p.attach(sf, val, fieldPath)
			if err != nil {
				return nil, err
			}
			fp.codec = codec
		} else {
			ftp, err := p.plan(sf.Type, fieldPath)
			if err != nil {
				return nil, err
			}
			fp.codec = ftp.codec
		}

		fields = append(fields, fp)
	}

	return fields, nil
}

// attach builds the codec named by a codec:"presence" tag, bypassing the
// installed factories.
func (p *planner) attach(sf reflect.StructField, val, path string) (FieldCodec, error) {
	if val != tagCodecValue || !isField(sf.Type) {
		return nil, newConfigError(ErrInvalidTag, val, path)
	}
	codec, err := Factory{}.Build(sf.Type)
	if err != nil {
		return nil, err
	}
	if _, err := p.plan(codec.Inner(), path); err != nil {
		return nil, err
	}
	return codec, nil
}

// parseKey splits a struct tag value into key and options. hasOpts reports
// whether a comma follows the key, which makes "-," mean the literal key "-".
func parseKey(tag string) (key string, omitEmpty, hasOpts bool) {
	key, opts, hasOpts := strings.Cut(tag, ",")
	for opts != "" {
		var opt string
		opt, opts, _ = strings.Cut(opts, ",")
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return key, omitEmpty, hasOpts
}
