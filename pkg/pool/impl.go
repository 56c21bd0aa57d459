/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package pool

// Alloc returns n zeroed bytes owned by the pool
func (p *Pool) Alloc(n int) []byte {
	p.checkAlive()
	if n >= largeAlloc {
		b := make([]byte, n)
		p.large = append(p.large, b)
		return b
	}
	if len(p.blocks) == 0 || p.used+n > BlockSize {
		p.blocks = append(p.blocks, make([]byte, BlockSize))
		p.used = 0
	}
	block := p.blocks[len(p.blocks)-1]
	b := block[p.used : p.used+n : p.used+n]
	p.used += n
	return b
}

// Clone copies b into pool memory
func (p *Pool) Clone(b []byte) []byte {
	res := p.Alloc(len(b))
	copy(res, b)
	return res
}

// RegisterCleanup arranges for f to be called when the pool is destroyed or released past this point.
// Cleanups run in reverse registration order
func (p *Pool) RegisterCleanup(f func()) {
	p.checkAlive()
	p.gizmos = append(p.gizmos, gizmo{kind: gizmoCleanup, serial: p.serial(), cleanup: f})
}

// NewChild creates a pool destroyed together with p
func (p *Pool) NewChild() *Pool {
	p.checkAlive()
	child := New()
	child.parent = p
	p.gizmos = append(p.gizmos, gizmo{kind: gizmoChild, serial: p.serial(), child: child})
	return child
}

// Mark returns the current allocation state
func (p *Pool) Mark() Mark {
	return Mark{nBlocks: len(p.blocks), nLarge: len(p.large), used: p.used, serial: p.nextSerial}
}

// Release frees everything allocated and registered since m
func (p *Pool) Release(m Mark) {
	p.checkAlive()
	p.releaseGizmos(m.serial)
	if m.nBlocks < len(p.blocks) {
		for i := m.nBlocks; i < len(p.blocks); i++ {
			p.blocks[i] = nil
		}
		p.blocks = p.blocks[:m.nBlocks]
	}
	clear(p.large[m.nLarge:])
	p.large = p.large[:m.nLarge]
	p.used = m.used
	if len(p.blocks) > 0 {
		block := p.blocks[len(p.blocks)-1]
		clear(block[p.used:])
	}
}

// Destroy runs cleanups, destroys child pools and frees all memory.
// A child destroyed before its parent is detached from it
func (p *Pool) Destroy() {
	if p == nil || p.destroyed {
		return
	}
	p.releaseGizmos(0)
	p.blocks, p.large = nil, nil
	p.destroyed = true
	if p.parent != nil && !p.parent.destroyed {
		p.parent.detach(p)
	}
}

// IsDestroyed reports whether Destroy was called
func (p *Pool) IsDestroyed() bool {
	return p.destroyed
}

func (p *Pool) releaseGizmos(fromSerial uint64) {
	for len(p.gizmos) > 0 {
		last := p.gizmos[len(p.gizmos)-1]
		if last.serial < fromSerial {
			break
		}
		p.gizmos = p.gizmos[:len(p.gizmos)-1]
		switch last.kind {
		case gizmoCleanup:
			last.cleanup()
		case gizmoChild:
			last.child.parent = nil
			last.child.Destroy()
		}
	}
}

func (p *Pool) detach(child *Pool) {
	for i, g := range p.gizmos {
		if g.kind == gizmoChild && g.child == child {
			p.gizmos = append(p.gizmos[:i], p.gizmos[i+1:]...)
			return
		}
	}
}

func (p *Pool) serial() uint64 {
	s := p.nextSerial
	p.nextSerial++
	return s
}

func (p *Pool) checkAlive() {
	if p.destroyed {
		panic("use of destroyed pool")
	}
}
