package keyutil

import (
	"math"
	"reflect"
	"strconv"
	"strings"
	"unsafe"
)

// Ref stands in for a value that cannot be compared with ==. It identifies
// the value by reference, the way a map or func is identified by the runtime.
type Ref struct {
	Type string
	Ptr  uintptr
	Len  int
}

// Identity returns v when it is safely comparable, otherwise a Ref to it.
func Identity(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Comparable() {
		return v
	}
	ref := Ref{Type: typeName(rv.Type())}
	switch rv.Kind() {
	case reflect.Func:
		// a func in an interface is a pointer to its closure; that pointer
		// is the only per-closure identity available.
		ref.Ptr = uintptr((*[2]unsafe.Pointer)(unsafe.Pointer(&v))[1])
	case reflect.Map:
		ref.Ptr = rv.Pointer()
	case reflect.Slice:
		ref.Ptr = rv.Pointer()
		ref.Len = rv.Len()
	default:
		// composite holding non-comparable members
		ref.Type += "#" + render(rv)
	}
	return ref
}

// String renders a cache key as a string. Distinct keys always render
// differently: every field is written, unexported ones included, and
// pointers, chans, funcs, maps and slices are written by address.
func String(key any) string {
	switch k := key.(type) {
	case nil:
		return "n:"
	case string:
		return "s:" + k
	case bool:
		return "b:" + strconv.FormatBool(k)
	case int:
		return "i:" + strconv.Itoa(k)
	case int64:
		return "i64:" + strconv.FormatInt(k, 10)
	case uint64:
		return "u64:" + strconv.FormatUint(k, 10)
	case Ref:
		return "r:" + k.Type + ":" + strconv.FormatUint(uint64(k.Ptr), 16) + ":" + strconv.Itoa(k.Len)
	}
	return "v:" + render(reflect.ValueOf(key))
}

// Join renders an argument list as one string. Each element is keyed as
// Identity would key it and length-prefixed, so no two lists collide.
func Join(args []any) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(len(args)))
	for _, a := range args {
		s := String(Identity(a))
		b.WriteByte('|')
		b.WriteString(strconv.Itoa(len(s)))
		b.WriteByte(':')
		b.WriteString(s)
	}
	return b.String()
}

func render(rv reflect.Value) string {
	var b strings.Builder
	b.WriteString(typeName(rv.Type()))
	walk(&b, addressable(rv))
	return b.String()
}

// walk writes rv, which must be addressable and not read-only.
func walk(b *strings.Builder, rv reflect.Value) {
	switch rv.Kind() {
	case reflect.Bool:
		b.WriteString(strconv.FormatBool(rv.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		b.WriteString(strconv.FormatInt(rv.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		b.WriteString(strconv.FormatUint(rv.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		b.WriteString("f" + strconv.FormatUint(math.Float64bits(rv.Float()), 16))
	case reflect.Complex64, reflect.Complex128:
		c := rv.Complex()
		b.WriteString("c" + strconv.FormatUint(math.Float64bits(real(c)), 16) +
			"," + strconv.FormatUint(math.Float64bits(imag(c)), 16))
	case reflect.String:
		b.WriteString(strconv.Quote(rv.String()))
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer, reflect.Map:
		b.WriteString("@" + strconv.FormatUint(uint64(rv.Pointer()), 16))
	case reflect.Slice:
		b.WriteString("@" + strconv.FormatUint(uint64(rv.Pointer()), 16) + ":" + strconv.Itoa(rv.Len()))
	case reflect.Func:
		// reflect's Pointer is the code pointer; the closure pointer sits in the word itself
		p := *(*unsafe.Pointer)(unsafe.Pointer(rv.UnsafeAddr()))
		b.WriteString("@" + strconv.FormatUint(uint64(uintptr(p)), 16))
	case reflect.Interface:
		if rv.IsNil() {
			b.WriteString("nil")
			return
		}
		e := rv.Elem()
		b.WriteString("(" + typeName(e.Type()) + ")")
		walk(b, addressable(e))
	case reflect.Array:
		b.WriteByte('[')
		for i := 0; i < rv.Len(); i++ {
			if i > 0 {
				b.WriteByte(',')
			}
			walk(b, rv.Index(i))
		}
		b.WriteByte(']')
	case reflect.Struct:
		b.WriteByte('{')
		for i := 0; i < rv.NumField(); i++ {
			if i > 0 {
				b.WriteByte(',')
			}
			walk(b, readable(rv.Field(i)))
		}
		b.WriteByte('}')
	}
}

// addressable copies rv into fresh memory so its fields can be addressed.
func addressable(rv reflect.Value) reflect.Value {
	c := reflect.New(rv.Type()).Elem()
	c.Set(rv)
	return c
}

// readable drops the read-only flag reflect sets on unexported fields.
func readable(f reflect.Value) reflect.Value {
	return reflect.NewAt(f.Type(), unsafe.Pointer(f.UnsafeAddr())).Elem()
}

// typeName qualifies named types with their package path; two packages
// may both declare an ID.
func typeName(t reflect.Type) string {
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + ":" + t.String()
}
