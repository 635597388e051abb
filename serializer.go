package presence

import (
	"context"
	"reflect"
	"sort"
	"time"

	"github.com/zoobzio/sentinel"
)

func init() {
	// Register tags with sentinel
	sentinel.Tag(tagCodec)
	sentinel.Tag(tagReceiveHash)
}

// Serializer decodes and encodes aggregates of type T, dispatching every
// Field member to its codec.
//
// All codecs are resolved when the serializer is built. A Field that is
// neither tagged codec:"presence" nor handled by an installed factory fails
// NewSerializer with ErrNoCodec, before any document is read.
//
// Serializers are immutable and safe for concurrent use.
type Serializer[T any] struct {
	codec Codec
	root  *typePlan

	// Plans for every reachable type (immutable after construction)
	plans map[reflect.Type]*typePlan

	// receive.hash fields of T
	hashFields []hashPlan

	typeName string
}

// hashPlan describes one receive.hash field.
type hashPlan struct {
	index  []int
	name   string
	algo   HashAlgo
	hasher Hasher
}

// NewSerializer builds a serializer for T over codec. A nil opts behaves as
// NewOptions(): only tag-attached fields are handled.
func NewSerializer[T any](codec Codec, opts *Options) (*Serializer[T], error) {
	if opts == nil {
		opts = NewOptions()
	}

	rt := reflect.TypeFor[T]()
	p := newPlanner(opts, codec.Tag())
	root, err := p.planRoot(rt)
	if err != nil {
		return nil, err
	}

	s := &Serializer[T]{
		codec:    codec,
		root:     root,
		plans:    p.plans,
		typeName: rt.String(),
	}

	if rt.Kind() == reflect.Struct {
		meta := sentinel.Scan[T]()
		s.typeName = meta.TypeName
		s.hashFields, err = buildHashPlans(meta, opts)
		if err != nil {
			return nil, err
		}
	}

	ctx := context.Background()
	emitSerializerCreated(ctx, codec.ContentType(), s.typeName, len(root.fields))
	if HasContract(rt) {
		emitContractDeclared(ctx, s.typeName)
	}
	return s, nil
}

// buildHashPlans resolves hashers for the receive.hash fields of a type.
func buildHashPlans(meta sentinel.Metadata, opts *Options) ([]hashPlan, error) {
	var plans []hashPlan
	for _, field := range meta.Fields {
		val, ok := field.Tags[tagReceiveHash]
		if !ok {
			continue
		}

		algo := HashAlgo(val)
		if !IsValidHashAlgo(algo) {
			return nil, newConfigError(ErrInvalidTag, val, field.Name)
		}
		if !hashable(field.ReflectType) {
			return nil, newConfigError(ErrUnsupportedType, field.ReflectType.String(), field.Name)
		}
		h, ok := opts.hasher(algo)
		if !ok {
			return nil, newConfigError(ErrMissingHasher, val, field.Name)
		}

		plans = append(plans, hashPlan{
			index:  field.Index,
			name:   field.Name,
			algo:   algo,
			hasher: h,
		})
	}
	return plans, nil
}

var (
	stringFieldType    = reflect.TypeFor[Field[string]]()
	stringPtrFieldType = reflect.TypeFor[Field[*string]]()
)

func hashable(t reflect.Type) bool {
	return t.Kind() == reflect.String || t == stringFieldType || t == stringPtrFieldType
}

// ContentType returns the codec's content type.
func (s *Serializer[T]) ContentType() string {
	return s.codec.ContentType()
}

// Receive parses data into a new T and applies receive.hash fields.
// Keys absent from data leave their fields unspecified.
func (s *Serializer[T]) Receive(ctx context.Context, data []byte) (*T, error) {
	start := time.Now()
	emitReceiveStart(ctx, s.codec.ContentType(), s.typeName)

	var retErr error
	var specified, hashed int
	defer func() {
		emitReceiveComplete(ctx, s.codec.ContentType(), s.typeName,
			time.Since(start), specified, hashed, retErr)
	}()

	node, err := s.codec.Parse(data)
	if err != nil {
		retErr = newCodecError(ErrUnmarshal, err)
		return nil, retErr
	}

	var obj T
	w := &walker{plans: s.plans}
	if err := w.DecodeValue(node, reflect.ValueOf(&obj).Elem()); err != nil {
		retErr = err
		return nil, retErr
	}
	specified = w.specified

	hashed, err = s.applyHash(&obj)
	if err != nil {
		retErr = err
		return nil, retErr
	}

	return &obj, nil
}

// Send encodes obj. Unspecified fields encode as null unless tagged
// omitempty. A nil obj encodes as null.
func (s *Serializer[T]) Send(ctx context.Context, obj *T) ([]byte, error) {
	start := time.Now()
	emitSendStart(ctx, s.codec.ContentType(), s.typeName)

	var retErr error
	var retData []byte
	defer func() {
		emitSendComplete(ctx, s.codec.ContentType(), s.typeName,
			len(retData), time.Since(start), retErr)
	}()

	var tree any
	if obj != nil {
		w := &walker{plans: s.plans}
		v, err := w.EncodeValue(reflect.ValueOf(obj).Elem())
		if err != nil {
			retErr = err
			return nil, retErr
		}
		tree = v
	}

	data, err := s.codec.Marshal(tree)
	if err != nil {
		retErr = newCodecError(ErrMarshal, err)
		return nil, retErr
	}
	retData = data
	return retData, nil
}

// applyHash replaces receive.hash fields with their digests and returns the
// number of fields hashed. Empty strings and unspecified or null fields are
// left alone.
func (s *Serializer[T]) applyHash(obj *T) (int, error) {
	rv := reflect.ValueOf(obj).Elem()
	hashed := 0

	for _, plan := range s.hashFields {
		field := rv.FieldByIndex(plan.index)

		var plain string
		switch {
		case field.Kind() == reflect.String:
			plain = field.String()
		case field.Type() == stringFieldType:
			f := field.Interface().(Field[string])
			if !f.specified {
				continue
			}
			plain = f.value
		case field.Type() == stringPtrFieldType:
			f := field.Interface().(Field[*string])
			if !f.specified || f.value == nil {
				continue
			}
			plain = *f.value
		}
		if plain == "" {
			continue
		}

		digest, err := plan.hasher.Hash([]byte(plain))
		if err != nil {
			return hashed, newTransformError(ErrHash, "hash", plan.name, err)
		}

		switch field.Type() {
		case stringFieldType:
			field.Set(reflect.ValueOf(Of(digest)))
		case stringPtrFieldType:
			field.Set(reflect.ValueOf(Of(&digest)))
		default:
			field.SetString(digest)
		}
		hashed++
	}

	return hashed, nil
}

// walker carries one Receive or Send through the plans. It is the Host handed
// to field codecs.
type walker struct {
	plans     map[reflect.Type]*typePlan
	specified int
}

// DecodeValue decodes n into dst, which must be settable.
func (w *walker) DecodeValue(n Node, dst reflect.Value) error {
	tp := w.plans[dst.Type()]
	if tp == nil || !tp.walk {
		return n.Decode(dst.Addr().Interface())
	}

	if tp.codec != nil {
		if err := tp.codec.Decode(w, n, dst); err != nil {
			return err
		}
		w.specified++
		return nil
	}

	switch dst.Kind() {
	case reflect.Pointer:
		if n.IsNull() {
			dst.Set(reflect.Zero(dst.Type()))
			return nil
		}
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		return w.DecodeValue(n, dst.Elem())

	case reflect.Struct:
		if n.IsNull() {
			return nil
		}
		members, err := n.Object()
		if err != nil {
			return err
		}
		for _, fp := range tp.fields {
			child, ok := members[fp.key]
			if !ok {
				continue
			}
			fv := dst.FieldByIndex(fp.index)
			if fp.codec != nil {
				if err := fp.codec.Decode(w, child, fv); err != nil {
					return err
				}
				w.specified++
				continue
			}
			if err := w.DecodeValue(child, fv); err != nil {
				return err
			}
		}
		return nil

	case reflect.Slice:
		if n.IsNull() {
			dst.Set(reflect.Zero(dst.Type()))
			return nil
		}
		elems, err := n.Array()
		if err != nil {
			return err
		}
		s := reflect.MakeSlice(dst.Type(), len(elems), len(elems))
		for i, elem := range elems {
			if err := w.DecodeValue(elem, s.Index(i)); err != nil {
				return err
			}
		}
		dst.Set(s)
		return nil

	case reflect.Array:
		if n.IsNull() {
			return nil
		}
		elems, err := n.Array()
		if err != nil {
			return err
		}
		for i := 0; i < dst.Len(); i++ {
			if i >= len(elems) {
				dst.Index(i).Set(reflect.Zero(dst.Type().Elem()))
				continue
			}
			if err := w.DecodeValue(elems[i], dst.Index(i)); err != nil {
				return err
			}
		}
		return nil

	case reflect.Map:
		if n.IsNull() {
			dst.Set(reflect.Zero(dst.Type()))
			return nil
		}
		members, err := n.Object()
		if err != nil {
			return err
		}
		if dst.IsNil() {
			dst.Set(reflect.MakeMapWithSize(dst.Type(), len(members)))
		}
		kt, et := dst.Type().Key(), dst.Type().Elem()
		for k, child := range members {
			ev := reflect.New(et).Elem()
			if err := w.DecodeValue(child, ev); err != nil {
				return err
			}
			dst.SetMapIndex(reflect.ValueOf(k).Convert(kt), ev)
		}
		return nil

	default:
		return n.Decode(dst.Addr().Interface())
	}
}

// EncodeValue returns the encodable form of src.
func (w *walker) EncodeValue(src reflect.Value) (any, error) {
	tp := w.plans[src.Type()]
	if tp == nil || !tp.walk {
		return src.Interface(), nil
	}

	if tp.codec != nil {
		return tp.codec.Encode(w, src)
	}

	switch src.Kind() {
	case reflect.Pointer:
		if src.IsNil() {
			return nil, nil
		}
		return w.EncodeValue(src.Elem())

	case reflect.Struct:
		obj := make(Object, 0, len(tp.fields))
		for _, fp := range tp.fields {
			fv := src.FieldByIndex(fp.index)

			var v any
			var err error
			if fp.codec != nil {
				if fp.omitEmpty && !fv.Interface().(tracked).IsSpecified() {
					continue
				}
				v, err = fp.codec.Encode(w, fv)
			} else {
				if fp.omitEmpty && fv.IsZero() {
					continue
				}
				v, err = w.EncodeValue(fv)
			}
			if err != nil {
				return nil, err
			}
			obj = append(obj, Member{Key: fp.key, Value: v})
		}
		return obj, nil

	case reflect.Slice, reflect.Array:
		if src.Kind() == reflect.Slice && src.IsNil() {
			return nil, nil
		}
		arr := make(Array, src.Len())
		for i := range arr {
			v, err := w.EncodeValue(src.Index(i))
			if err != nil {
				return nil, err
			}
			arr[i] = v
		}
		return arr, nil

	case reflect.Map:
		if src.IsNil() {
			return nil, nil
		}
		keys := src.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return keys[i].String() < keys[j].String()
		})
		obj := make(Object, 0, len(keys))
		for _, k := range keys {
			v, err := w.EncodeValue(src.MapIndex(k))
			if err != nil {
				return nil, err
			}
			obj = append(obj, Member{Key: k.String(), Value: v})
		}
		return obj, nil

	default:
		return src.Interface(), nil
	}
}
