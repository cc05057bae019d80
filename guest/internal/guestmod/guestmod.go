// Package guestmod emits minimal wasm guest modules: host function
// imports, an exported memory with data segments, and exported functions
// with flat bodies. Tests use it to drive the host surface from a real
// calling module, memory paths included.
package guestmod

import (
	"encoding/binary"
	"math"

	"github.com/tetratelabs/wazero/api"
)

type importFunc struct {
	module  string
	name    string
	params  []api.ValueType
	results []api.ValueType
}

type localFunc struct {
	name    string
	body    []byte
	params  []api.ValueType
	results []api.ValueType
}

type segment struct {
	bytes  []byte
	offset uint32
}

// Builder assembles a wasm module. Declare imports before functions; the
// function index space places imports first.
type Builder struct {
	imports  []importFunc
	funcs    []localFunc
	data     []segment
	memPages uint32
	hasMem   bool
}

func New() *Builder {
	return &Builder{}
}

// Import declares a host function import and returns its function index.
func (b *Builder) Import(module, name string, params, results []api.ValueType) uint32 {
	b.imports = append(b.imports, importFunc{
		module:  module,
		name:    name,
		params:  params,
		results: results,
	})
	return uint32(len(b.imports) - 1)
}

// Memory gives the module a memory of the given page count, exported as
// "memory".
func (b *Builder) Memory(pages uint32) {
	b.hasMem = true
	b.memPages = pages
}

// Data adds an active data segment. The segment must fit the declared
// memory.
func (b *Builder) Data(offset uint32, data []byte) {
	b.data = append(b.data, segment{offset: offset, bytes: data})
}

// Func adds an exported function and returns its function index.
func (b *Builder) Func(name string, params, results []api.ValueType, body *Body) uint32 {
	b.funcs = append(b.funcs, localFunc{
		name:    name,
		params:  params,
		results: results,
		body:    body.code,
	})
	return uint32(len(b.imports) + len(b.funcs) - 1)
}

// Build generates the module bytes.
func (b *Builder) Build() []byte {
	mod := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

	total := len(b.imports) + len(b.funcs)
	if total > 0 {
		var sec []byte
		sec = append(sec, uleb(uint32(total))...)
		emit := func(params, results []api.ValueType) {
			sec = append(sec, 0x60)
			sec = append(sec, uleb(uint32(len(params)))...)
			for _, t := range params {
				sec = append(sec, valByte(t))
			}
			sec = append(sec, uleb(uint32(len(results)))...)
			for _, t := range results {
				sec = append(sec, valByte(t))
			}
		}
		for _, f := range b.imports {
			emit(f.params, f.results)
		}
		for _, f := range b.funcs {
			emit(f.params, f.results)
		}
		mod = append(mod, section(0x01, sec)...)
	}

	if len(b.imports) > 0 {
		var sec []byte
		sec = append(sec, uleb(uint32(len(b.imports)))...)
		for i, f := range b.imports {
			sec = append(sec, name(f.module)...)
			sec = append(sec, name(f.name)...)
			sec = append(sec, 0x00)
			sec = append(sec, uleb(uint32(i))...)
		}
		mod = append(mod, section(0x02, sec)...)
	}

	if len(b.funcs) > 0 {
		var sec []byte
		sec = append(sec, uleb(uint32(len(b.funcs)))...)
		for i := range b.funcs {
			sec = append(sec, uleb(uint32(len(b.imports)+i))...)
		}
		mod = append(mod, section(0x03, sec)...)
	}

	if b.hasMem {
		sec := []byte{0x01, 0x00}
		sec = append(sec, uleb(b.memPages)...)
		mod = append(mod, section(0x05, sec)...)
	}

	numExports := len(b.funcs)
	if b.hasMem {
		numExports++
	}
	if numExports > 0 {
		var sec []byte
		sec = append(sec, uleb(uint32(numExports))...)
		if b.hasMem {
			sec = append(sec, name("memory")...)
			sec = append(sec, 0x02, 0x00)
		}
		for i, f := range b.funcs {
			sec = append(sec, name(f.name)...)
			sec = append(sec, 0x00)
			sec = append(sec, uleb(uint32(len(b.imports)+i))...)
		}
		mod = append(mod, section(0x07, sec)...)
	}

	if len(b.funcs) > 0 {
		var sec []byte
		sec = append(sec, uleb(uint32(len(b.funcs)))...)
		for _, f := range b.funcs {
			body := []byte{0x00}
			body = append(body, f.body...)
			body = append(body, 0x0b)
			sec = append(sec, uleb(uint32(len(body)))...)
			sec = append(sec, body...)
		}
		mod = append(mod, section(0x0a, sec)...)
	}

	if len(b.data) > 0 {
		var sec []byte
		sec = append(sec, uleb(uint32(len(b.data)))...)
		for _, s := range b.data {
			sec = append(sec, 0x00, 0x41)
			sec = append(sec, sleb(int32(s.offset))...)
			sec = append(sec, 0x0b)
			sec = append(sec, uleb(uint32(len(s.bytes)))...)
			sec = append(sec, s.bytes...)
		}
		mod = append(mod, section(0x0b, sec)...)
	}

	return mod
}

func section(id byte, payload []byte) []byte {
	out := []byte{id}
	out = append(out, uleb(uint32(len(payload)))...)
	return append(out, payload...)
}

// Body is a flat instruction stream. The terminating end opcode is added
// by the builder.
type Body struct {
	code []byte
}

func NewBody() *Body {
	return &Body{}
}

func (c *Body) I32Const(v int32) *Body {
	c.code = append(c.code, 0x41)
	c.code = append(c.code, sleb(v)...)
	return c
}

func (c *Body) I64Const(v int64) *Body {
	c.code = append(c.code, 0x42)
	c.code = append(c.code, sleb(v)...)
	return c
}

func (c *Body) F32Const(v float32) *Body {
	c.code = append(c.code, 0x43, 0, 0, 0, 0)
	binary.LittleEndian.PutUint32(c.code[len(c.code)-4:], math.Float32bits(v))
	return c
}

func (c *Body) F64Const(v float64) *Body {
	c.code = append(c.code, 0x44, 0, 0, 0, 0, 0, 0, 0, 0)
	binary.LittleEndian.PutUint64(c.code[len(c.code)-8:], math.Float64bits(v))
	return c
}

func (c *Body) LocalGet(i uint32) *Body {
	c.code = append(c.code, 0x20)
	c.code = append(c.code, uleb(i)...)
	return c
}

func (c *Body) Call(fn uint32) *Body {
	c.code = append(c.code, 0x10)
	c.code = append(c.code, uleb(fn)...)
	return c
}

func (c *Body) Drop() *Body {
	c.code = append(c.code, 0x1a)
	return c
}
