package query

import (
	"database/sql"
	"fmt"
	"reflect"
	"strings"

	"gorm.io/gorm"
)

// Projection describes how selected columns become values of T.
type Projection[T any] struct {
	sels  []Selection
	fetch func(tx *gorm.DB) ([]T, error)
	err   error
}

// Selections returns the expressions the projection selects.
func (p Projection[T]) Selections() []Selection {
	return p.sels
}

// Err reports a projection that was rejected when it was built.
func (p Projection[T]) Err() error {
	return p.err
}

func failedProjection[T any](sels []Selection, err error) Projection[T] {
	return Projection[T]{sels: sels, err: err}
}

func rowProjection[T any](sels []Selection, mapRow func([]reflect.Value) (T, error)) Projection[T] {
	return Projection[T]{
		sels: sels,
		fetch: func(tx *gorm.DB) ([]T, error) {
			rows, err := tx.Rows()
			if err != nil {
				return nil, err
			}
			defer rows.Close()

			out := make([]T, 0)
			err = scanRows(rows, sels, func(values []reflect.Value) error {
				v, err := mapRow(values)
				if err != nil {
					return err
				}
				out = append(out, v)
				return nil
			})
			if err != nil {
				return nil, err
			}
			return out, nil
		},
	}
}

// scanRows scans every column into a fresh *S holder so NULL stays distinguishable.
func scanRows(rows *sql.Rows, sels []Selection, each func([]reflect.Value) error) error {
	for rows.Next() {
		holders := make([]interface{}, len(sels))
		values := make([]reflect.Value, len(sels))
		for i, s := range sels {
			h := reflect.New(reflect.PointerTo(s.scanType()))
			holders[i] = h.Interface()
			values[i] = h.Elem()
		}
		if err := rows.Scan(holders...); err != nil {
			return err
		}
		if err := each(values); err != nil {
			return err
		}
	}
	return rows.Err()
}

// assign stores a scanned *S into dst, converting between compatible kinds.
// NULL leaves dst at its zero value.
func assign(dst, src reflect.Value) error {
	if !src.IsValid() || src.IsNil() {
		return nil
	}
	if src.Type().AssignableTo(dst.Type()) {
		dst.Set(src)
		return nil
	}
	if dst.Kind() == reflect.Pointer {
		p := reflect.New(dst.Type().Elem())
		if err := assign(p.Elem(), src); err != nil {
			return err
		}
		dst.Set(p)
		return nil
	}
	val := src.Elem()
	if val.Kind() == reflect.Interface {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}
	if val.Type().AssignableTo(dst.Type()) {
		dst.Set(val)
		return nil
	}
	if convertible(val.Type(), dst.Type()) {
		dst.Set(val.Convert(dst.Type()))
		return nil
	}
	return fmt.Errorf("%w: cannot assign %s to %s", ErrProjection, val.Type(), dst.Type())
}

func convertible(from, to reflect.Type) bool {
	if !from.ConvertibleTo(to) {
		return false
	}
	switch {
	case isNumeric(from.Kind()) && isNumeric(to.Kind()):
		return true
	case from.Kind() == reflect.String && to.Kind() == reflect.String:
		return true
	case from.Kind() == reflect.Bool && to.Kind() == reflect.Bool:
		return true
	}
	return false
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func valueOf[T any](v reflect.Value) T {
	var out T
	_ = assign(reflect.ValueOf(&out).Elem(), v)
	return out
}

// normalize makes labels and Go names comparable: "team_name" matches TeamName.
func normalize(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "_", ""))
}

// Value projects a single expression.
func Value[T any](e Expression[T]) Projection[T] {
	return rowProjection([]Selection{e}, func(values []reflect.Value) (T, error) {
		return valueOf[T](values[0]), nil
	})
}

// Fields fills exported struct fields whose name (or `query:"label"` tag) matches
// a selection label. Selections without a matching field are ignored and fields
// without a matching selection keep their zero value, so unaliased computed
// expressions are silently dropped; alias them with As.
func Fields[T any](sels ...Selection) Projection[T] {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() != reflect.Struct {
		return failedProjection[T](sels, fmt.Errorf("%w: %s is not a struct", ErrProjection, t))
	}

	index := make(map[string][]int)
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		key := normalize(f.Name)
		if tag, ok := f.Tag.Lookup("query"); ok {
			if tag == "-" {
				continue
			}
			key = normalize(tag)
		}
		if _, dup := index[key]; !dup {
			index[key] = f.Index
		}
	}

	targets := make([][]int, len(sels))
	for i, s := range sels {
		targets[i] = index[normalize(s.Label())]
	}

	return rowProjection(sels, func(values []reflect.Value) (T, error) {
		var out T
		rv := reflect.ValueOf(&out).Elem()
		for i, idx := range targets {
			if idx == nil {
				continue
			}
			if err := assign(rv.FieldByIndex(idx), values[i]); err != nil {
				return out, err
			}
		}
		return out, nil
	})
}

// Bean calls Set<Label> methods on *T for every selection with a matching setter.
// NULL values are passed only to setters taking a pointer.
func Bean[T any](sels ...Selection) Projection[T] {
	t := reflect.TypeOf((*T)(nil)).Elem()
	pt := reflect.PointerTo(t)

	setters := make(map[string]reflect.Method)
	for i := 0; i < pt.NumMethod(); i++ {
		m := pt.Method(i)
		if strings.HasPrefix(m.Name, "Set") && m.Type.NumIn() == 2 {
			setters[normalize(m.Name[3:])] = m
		}
	}

	targets := make([]*reflect.Method, len(sels))
	for i, s := range sels {
		if m, ok := setters[normalize(s.Label())]; ok {
			targets[i] = &m
		}
	}

	return rowProjection(sels, func(values []reflect.Value) (T, error) {
		out := reflect.New(t)
		for i, m := range targets {
			if m == nil {
				continue
			}
			param := m.Type.In(1)
			if values[i].IsNil() && param.Kind() != reflect.Pointer {
				continue
			}
			arg := reflect.New(param).Elem()
			if err := assign(arg, values[i]); err != nil {
				var zero T
				return zero, err
			}
			m.Func.Call([]reflect.Value{out, arg})
		}
		return out.Elem().Interface().(T), nil
	})
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Constructor calls ctor with one argument per selection, in order. ctor must
// return T or (T, error). Arity and argument types are checked here: a
// mismatch yields a projection whose query fails with ErrProjection before
// anything is sent to the database.
func Constructor[T any](ctor interface{}, sels ...Selection) Projection[T] {
	t := reflect.TypeOf((*T)(nil)).Elem()
	fv := reflect.ValueOf(ctor)
	if !fv.IsValid() || fv.Kind() != reflect.Func || fv.IsNil() {
		return failedProjection[T](sels, fmt.Errorf("%w: constructor for %s is not a function", ErrProjection, t))
	}
	ft := fv.Type()
	if ft.IsVariadic() {
		return failedProjection[T](sels, fmt.Errorf("%w: constructor for %s is variadic", ErrProjection, t))
	}
	if ft.NumIn() != len(sels) {
		return failedProjection[T](sels, fmt.Errorf("%w: constructor for %s takes %d arguments, %d selected",
			ErrProjection, t, ft.NumIn(), len(sels)))
	}
	withErr := ft.NumOut() == 2 && ft.Out(1) == errorType
	if (ft.NumOut() != 1 && !withErr) || ft.Out(0) != t {
		return failedProjection[T](sels, fmt.Errorf("%w: constructor must return %s or (%s, error)", ErrProjection, t, t))
	}
	for i, s := range sels {
		param := ft.In(i)
		st := s.scanType()
		if param != st && !(param.Kind() == reflect.Pointer && param.Elem() == st) {
			return failedProjection[T](sels, fmt.Errorf("%w: argument %d of constructor for %s is %s, selection %q yields %s",
				ErrProjection, i, t, param, s.Label(), st))
		}
	}

	return rowProjection(sels, func(values []reflect.Value) (T, error) {
		var zero T
		args := make([]reflect.Value, len(values))
		for i, v := range values {
			args[i] = reflect.New(ft.In(i)).Elem()
			if err := assign(args[i], v); err != nil {
				return zero, err
			}
		}
		out := fv.Call(args)
		if withErr && !out[1].IsNil() {
			return zero, out[1].Interface().(error)
		}
		return out[0].Interface().(T), nil
	})
}

// Project2 maps two typed selections through a function checked at compile time.
func Project2[A, B, T any](ctor func(A, B) T, a Expression[A], b Expression[B]) Projection[T] {
	return rowProjection([]Selection{a, b}, func(v []reflect.Value) (T, error) {
		return ctor(valueOf[A](v[0]), valueOf[B](v[1])), nil
	})
}

func Project3[A, B, C, T any](ctor func(A, B, C) T, a Expression[A], b Expression[B], c Expression[C]) Projection[T] {
	return rowProjection([]Selection{a, b, c}, func(v []reflect.Value) (T, error) {
		return ctor(valueOf[A](v[0]), valueOf[B](v[1]), valueOf[C](v[2])), nil
	})
}

func Project4[A, B, C, D, T any](ctor func(A, B, C, D) T, a Expression[A], b Expression[B], c Expression[C], d Expression[D]) Projection[T] {
	return rowProjection([]Selection{a, b, c, d}, func(v []reflect.Value) (T, error) {
		return ctor(valueOf[A](v[0]), valueOf[B](v[1]), valueOf[C](v[2]), valueOf[D](v[3])), nil
	})
}

func Project5[A, B, C, D, E, T any](ctor func(A, B, C, D, E) T, a Expression[A], b Expression[B], c Expression[C], d Expression[D], e Expression[E]) Projection[T] {
	return rowProjection([]Selection{a, b, c, d, e}, func(v []reflect.Value) (T, error) {
		return ctor(valueOf[A](v[0]), valueOf[B](v[1]), valueOf[C](v[2]), valueOf[D](v[3]), valueOf[E](v[4])), nil
	})
}

// Tuple is a row of heterogeneous selections.
type Tuple struct {
	dialector gorm.Dialector
	keys      []string
	values    []reflect.Value
}

// Size is the number of columns in the tuple.
func (t Tuple) Size() int {
	return len(t.values)
}

func tupleProjection(dialector gorm.Dialector, sels []Selection) Projection[Tuple] {
	keys := make([]string, len(sels))
	for i, s := range sels {
		keys[i] = renderKey(dialector, s)
	}
	return rowProjection(sels, func(values []reflect.Value) (Tuple, error) {
		return Tuple{dialector: dialector, keys: keys, values: values}, nil
	})
}

// TupleGet returns the value of a selected expression, matched by its rendered
// SQL. The zero value is returned for NULL or when e was not selected.
func TupleGet[T any](t Tuple, e Expression[T]) T {
	if len(t.keys) == 0 {
		var zero T
		return zero
	}
	key := renderKey(t.dialector, e)
	for i, k := range t.keys {
		if k == key {
			return valueOf[T](t.values[i])
		}
	}
	var zero T
	return zero
}

// TupleAt returns the value at column i converted to T.
func TupleAt[T any](t Tuple, i int) T {
	if i < 0 || i >= len(t.values) {
		var zero T
		return zero
	}
	return valueOf[T](t.values[i])
}
